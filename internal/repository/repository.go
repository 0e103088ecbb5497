// Package repository implements PostgreSQL persistence for users and
// posts on top of a pgx connection pool.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool sizing for a small CRUD workload: every request touches the pool
// at most twice (pre-check plus statement), so a handful of connections
// is plenty. Idle connections are recycled so a quiet deployment does
// not pin them.
const (
	poolMaxConns        = 8
	poolMinConns        = 1
	poolMaxConnIdleTime = 10 * time.Minute
)

// Repository executes all SQL against a single shared pool. User and
// post operations live in user.go and post.go.
type Repository struct {
	pool *pgxpool.Pool
}

// New opens a connection pool for databaseURL and verifies it with a
// ping before returning.
func New(ctx context.Context, databaseURL string) (*Repository, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	cfg.MaxConns = poolMaxConns
	cfg.MinConns = poolMinConns
	cfg.MaxConnIdleTime = poolMaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{pool: pool}, nil
}

// Ping checks database connectivity, for the readiness probe.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close releases the connection pool.
func (r *Repository) Close() {
	r.pool.Close()
}

// Pool exposes the underlying pool for test harness plumbing (advisory
// locks, schema resets). Application code goes through the typed methods.
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}
