package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/inkwell/inkwell/internal/metrics"
	"github.com/inkwell/inkwell/internal/model"
	"github.com/inkwell/inkwell/internal/repository"
)

// PostStore defines the repository operations the post service needs.
type PostStore interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPostByID(ctx context.Context, id int64) (*model.Post, error)
	ListPosts(ctx context.Context) ([]*model.Post, error)
	UpdatePostContent(ctx context.Context, id int64, content string) (*model.Post, error)
	DeletePost(ctx context.Context, id int64) error
	UserExists(ctx context.Context, id int64) (bool, error)
}

// PostService handles post business logic.
type PostService struct {
	store   PostStore
	metrics metrics.Recorder
}

// NewPostService creates a new PostService.
func NewPostService(store PostStore, recorder metrics.Recorder) *PostService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &PostService{
		store:   store,
		metrics: recorder,
	}
}

// CreatePostInput defines input for creating a post.
type CreatePostInput struct {
	Title   string
	Content string
	UserID  int64
}

// CreatePost creates a post after verifying the owner exists. The foreign
// key closes the race with a concurrent owner delete and surfaces as the
// same ErrUserNotFound. A zero user_id names no user and answers
// ErrUserNotFound like any other unknown owner; field presence is checked
// at the transport boundary.
func (s *PostService) CreatePost(ctx context.Context, input CreatePostInput) (*model.Post, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}
	if input.Content == "" {
		return nil, ErrContentRequired
	}

	exists, err := s.store.UserExists(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	post := &model.Post{
		Title:   input.Title,
		Content: input.Content,
		UserID:  input.UserID,
	}

	if err := s.store.CreatePost(ctx, post); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.metrics.IncPostCreated()

	// Reload so the response embeds the owner from persisted state.
	created, err := s.store.GetPostByID(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load created post: %w", err)
	}

	return created, nil
}

// GetPost retrieves a post with its owner loaded.
func (s *PostService) GetPost(ctx context.Context, id int64) (*model.Post, error) {
	post, err := s.store.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	return post, nil
}

// ListPosts retrieves all posts in insertion order, owners loaded.
func (s *PostService) ListPosts(ctx context.Context) ([]*model.Post, error) {
	return s.store.ListPosts(ctx)
}

// UpdatePostContent sets a post's content. Repeating the call with the
// same value is idempotent.
func (s *PostService) UpdatePostContent(ctx context.Context, id int64, content string) (*model.Post, error) {
	if content == "" {
		return nil, ErrContentRequired
	}

	post, err := s.store.UpdatePostContent(ctx, id, content)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	s.metrics.IncPostUpdated()

	return post, nil
}

// DeletePost removes a post.
func (s *PostService) DeletePost(ctx context.Context, id int64) error {
	if err := s.store.DeletePost(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	s.metrics.IncPostDeleted()

	return nil
}
