package repository

import (
	"context"
	"fmt"
)

// schema is the DDL applied at startup. Statements are idempotent so the
// service can boot against an already migrated database. The UNIQUE
// constraints on users and the ON DELETE CASCADE foreign key on posts are
// the correctness backstop for concurrent requests; the pre-insert checks
// in user.go and post.go only exist to produce friendly errors.
// migrations/ holds the same DDL as numbered up/down files for tooling.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL,
		email TEXT NOT NULL,
		password TEXT NOT NULL,
		CONSTRAINT users_username_key UNIQUE (username),
		CONSTRAINT users_email_key UNIQUE (email)
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_user_id ON posts(user_id)`,
}

// Migrate applies the embedded schema.
func (r *Repository) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
