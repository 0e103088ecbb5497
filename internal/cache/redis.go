// Package cache implements the optional Redis user cache. The service
// runs fully without it; a configured cache only shortens user reads.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// A small pool: the only cached entity is the user hash, read once per
// user fetch.
const (
	poolSize        = 6
	minIdleConns    = 1
	poolWaitTimeout = 3 * time.Second
)

// Cache wraps the Redis client. User entry operations live in user.go.
type Cache struct {
	client *redis.Client
}

// New connects to the Redis instance named by redisURL and verifies the
// connection with a ping before returning.
func New(ctx context.Context, redisURL string) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opt.PoolSize = poolSize
	opt.MinIdleConns = minIdleConns
	opt.PoolTimeout = poolWaitTimeout

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// Ping checks Redis connectivity, for the readiness probe.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Client exposes the raw client for test harness plumbing (flushes, hash
// inspection). Application code goes through the typed methods.
func (c *Cache) Client() *redis.Client {
	return c.client
}
