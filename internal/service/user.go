// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/inkwell/inkwell/internal/cache"
	"github.com/inkwell/inkwell/internal/metrics"
	"github.com/inkwell/inkwell/internal/model"
	"github.com/inkwell/inkwell/internal/repository"
)

// Service errors.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user with this username or email already exists")
	ErrEmailTaken   = errors.New("email is already taken")
	ErrPostNotFound = errors.New("post not found")

	ErrUsernameRequired = errors.New("username is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrTitleRequired    = errors.New("title is required")
	ErrContentRequired  = errors.New("content is required")
	ErrUserIDRequired   = errors.New("user_id is required")
)

// UserStore defines the repository operations the user service needs.
// *repository.Repository implements it; tests use an in-memory fake.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	DeleteUser(ctx context.Context, id int64) error
	UpdateUserEmail(ctx context.Context, id int64, email string) (*model.User, error)
	UsernameOrEmailExists(ctx context.Context, username, email string) (bool, error)
	EmailTakenByOther(ctx context.Context, email string, userID int64) (bool, error)
	UserExists(ctx context.Context, id int64) (bool, error)
}

// UserService handles user business logic.
type UserService struct {
	store   UserStore
	cache   *cache.Cache
	metrics metrics.Recorder
}

// NewUserService creates a new UserService.
// cacheClient may be nil; the service then reads straight from the store.
func NewUserService(store UserStore, cacheClient *cache.Cache, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		store:   store,
		cache:   cacheClient,
		metrics: recorder,
	}
}

// CreateUserInput defines input for creating a user.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
}

// CreateUser creates a new user after the combined uniqueness check.
// The check and insert are not atomic; the schema constraint closes the
// race and surfaces as the same ErrUserExists.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*model.User, error) {
	if input.Username == "" {
		return nil, ErrUsernameRequired
	}
	if input.Email == "" {
		return nil, ErrEmailRequired
	}
	if input.Password == "" {
		return nil, ErrPasswordRequired
	}

	exists, err := s.store.UsernameOrEmailExists(ctx, input.Username, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check uniqueness: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	user := &model.User{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncUserCreated()

	return user, nil
}

// GetUser retrieves a user by identifier, cache-first when a cache is
// configured. Cached entries omit the password, which no caller serializes.
func (s *UserService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	if s.cache != nil {
		cached, err := s.cache.GetUser(ctx, id)
		if err == nil {
			s.metrics.IncUserCacheHit()
			return cached.ToUser(id), nil
		}
		if errors.Is(err, cache.ErrCacheMiss) {
			s.metrics.IncUserCacheMiss()
		}
		// Redis errors fall through to the store.
	}

	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetUser(ctx, user); err != nil {
			// Backfill failure is not fatal; next read goes to the store.
			_ = err
		}
	}

	return user, nil
}

// ListUsers retrieves all users in insertion order.
func (s *UserService) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.store.ListUsers(ctx)
}

// DeleteUser removes a user; the storage cascade removes its posts in the
// same transaction.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	s.metrics.IncUserDeleted()

	if s.cache != nil {
		if err := s.cache.DeleteUser(ctx, id); err != nil {
			_ = err // TTL bounds staleness if eviction fails
		}
	}

	return nil
}

// ChangeEmailInput defines input for changing a user's email.
type ChangeEmailInput struct {
	ID    int64
	Email string
}

// ChangeUserEmail updates a user's email address. An email already held by
// a different user is a conflict; the user re-submitting their own email
// is not.
func (s *UserService) ChangeUserEmail(ctx context.Context, input ChangeEmailInput) (*model.User, error) {
	if input.Email == "" {
		return nil, ErrEmailRequired
	}

	exists, err := s.store.UserExists(ctx, input.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	taken, err := s.store.EmailTakenByOther(ctx, input.Email, input.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check email ownership: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	user, err := s.store.UpdateUserEmail(ctx, input.ID, input.Email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update email: %w", err)
	}

	s.metrics.IncUserEmailChanged()

	if s.cache != nil {
		if err := s.cache.DeleteUser(ctx, input.ID); err != nil {
			_ = err
		}
	}

	return user, nil
}
