package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/inkwell/inkwell/internal/model"
)

// ErrPostNotFound is returned when a post identifier references no row.
var ErrPostNotFound = errors.New("post not found")

// postWithOwnerColumns joins each post to its owner so responses can embed
// the user without a second round trip.
const postWithOwnerColumns = `
	SELECT p.id, p.title, p.content, p.user_id,
	       u.id, u.username, u.email, u.password
	FROM posts p
	JOIN users u ON u.id = p.user_id
`

// CreatePost inserts a new post and assigns its identifier.
// The foreign key is the backstop for the race between UserExists and the
// insert: a concurrently deleted owner surfaces as ErrUserNotFound.
func (r *Repository) CreatePost(ctx context.Context, post *model.Post) error {
	query := `
		INSERT INTO posts (title, content, user_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query, post.Title, post.Content, post.UserID).Scan(&post.ID)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

// GetPostByID retrieves a post with its owner loaded.
func (r *Repository) GetPostByID(ctx context.Context, id int64) (*model.Post, error) {
	query := postWithOwnerColumns + ` WHERE p.id = $1`

	post, err := scanPostWithOwner(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post by ID: %w", err)
	}

	return post, nil
}

// ListPosts retrieves all posts in insertion order, each with its owner.
func (r *Repository) ListPosts(ctx context.Context) ([]*model.Post, error) {
	query := postWithOwnerColumns + ` ORDER BY p.id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*model.Post, 0)
	for rows.Next() {
		post, err := scanPostWithOwner(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	return posts, nil
}

// UpdatePostContent sets a post's content and returns the post with its
// owner loaded.
func (r *Repository) UpdatePostContent(ctx context.Context, id int64, content string) (*model.Post, error) {
	query := `
		UPDATE posts
		SET content = $2
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, content)
	if err != nil {
		return nil, fmt.Errorf("failed to update post content: %w", err)
	}

	if result.RowsAffected() == 0 {
		return nil, ErrPostNotFound
	}

	return r.GetPostByID(ctx, id)
}

// DeletePost removes a post.
func (r *Repository) DeletePost(ctx context.Context, id int64) error {
	query := `DELETE FROM posts WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrPostNotFound
	}

	return nil
}

// scanPostWithOwner scans a joined post+user row into a Post model.
func scanPostWithOwner(row pgx.Row) (*model.Post, error) {
	var post model.Post
	var owner model.User
	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.UserID,
		&owner.ID,
		&owner.Username,
		&owner.Email,
		&owner.Password,
	)
	if err != nil {
		return nil, err
	}
	post.User = &owner
	return &post, nil
}
