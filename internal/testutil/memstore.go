package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/inkwell/inkwell/internal/model"
	"github.com/inkwell/inkwell/internal/repository"
)

// MemStore is an in-memory stand-in for the repository, used by service
// and handler tests that should not need a database. It mirrors the
// repository contract, including sentinel errors and the delete cascade
// the real schema enforces through its foreign key.
type MemStore struct {
	mu         sync.Mutex
	users      map[int64]*model.User
	posts      map[int64]*model.Post
	nextUserID int64
	nextPostID int64
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		users:      make(map[int64]*model.User),
		posts:      make(map[int64]*model.Post),
		nextUserID: 1,
		nextPostID: 1,
	}
}

// CreateUser inserts a user, enforcing the uniqueness constraints.
func (s *MemStore) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return repository.ErrUserExists
		}
	}

	user.ID = s.nextUserID
	s.nextUserID++

	stored := *user
	s.users[user.ID] = &stored
	return nil
}

// GetUserByID returns a user or repository.ErrUserNotFound.
func (s *MemStore) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// ListUsers returns all users in insertion order.
func (s *MemStore) ListUsers(ctx context.Context) ([]*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]*model.User, 0, len(s.users))
	for _, user := range s.users {
		copied := *user
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// DeleteUser removes a user and, like the schema cascade, all its posts.
func (s *MemStore) DeleteUser(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.users, id)

	for postID, post := range s.posts {
		if post.UserID == id {
			delete(s.posts, postID)
		}
	}
	return nil
}

// UpdateUserEmail sets a user's email, enforcing the unique constraint.
func (s *MemStore) UpdateUserEmail(ctx context.Context, id int64, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	for otherID, other := range s.users {
		if otherID != id && other.Email == email {
			return nil, repository.ErrEmailTaken
		}
	}

	user.Email = email
	copied := *user
	return &copied, nil
}

// UsernameOrEmailExists checks both uniqueness constraints at once.
func (s *MemStore) UsernameOrEmailExists(ctx context.Context, username, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == username || user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// EmailTakenByOther checks whether another user holds the email.
func (s *MemStore) EmailTakenByOther(ctx context.Context, email string, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, user := range s.users {
		if id != userID && user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// UserExists checks whether a user exists.
func (s *MemStore) UserExists(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.users[id]
	return ok, nil
}

// CreatePost inserts a post, enforcing the owner foreign key.
func (s *MemStore) CreatePost(ctx context.Context, post *model.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[post.UserID]; !ok {
		return repository.ErrUserNotFound
	}

	post.ID = s.nextPostID
	s.nextPostID++

	stored := *post
	stored.User = nil
	s.posts[post.ID] = &stored
	return nil
}

// GetPostByID returns a post with its owner loaded.
func (s *MemStore) GetPostByID(ctx context.Context, id int64) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.postWithOwnerLocked(id)
}

// ListPosts returns all posts in insertion order, owners loaded.
func (s *MemStore) ListPosts(ctx context.Context) ([]*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.posts))
	for id := range s.posts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	posts := make([]*model.Post, 0, len(ids))
	for _, id := range ids {
		post, err := s.postWithOwnerLocked(id)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// UpdatePostContent sets a post's content.
func (s *MemStore) UpdatePostContent(ctx context.Context, id int64, content string) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, repository.ErrPostNotFound
	}
	post.Content = content
	return s.postWithOwnerLocked(id)
}

// DeletePost removes a post.
func (s *MemStore) DeletePost(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return repository.ErrPostNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *MemStore) postWithOwnerLocked(id int64) (*model.Post, error) {
	post, ok := s.posts[id]
	if !ok {
		return nil, repository.ErrPostNotFound
	}

	copied := *post
	if owner, ok := s.users[post.UserID]; ok {
		ownerCopy := *owner
		copied.User = &ownerCopy
	}
	return &copied, nil
}
