package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/inkwell/inkwell/internal/model"
)

// Cache key prefix and TTL for user entries.
const (
	userKeyPrefix = "user:"

	// DefaultUserTTL bounds staleness if an invalidation is ever missed.
	DefaultUserTTL = 1 * time.Hour
)

// ErrCacheMiss is returned when a key is absent.
var ErrCacheMiss = errors.New("cache miss")

// UserKey builds the Redis key for a user identifier.
func UserKey(id int64) string {
	return userKeyPrefix + strconv.FormatInt(id, 10)
}

// GetUser retrieves a user from cache by identifier.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetUser(ctx context.Context, id int64) (*model.CachedUser, error) {
	result, err := c.client.HGetAll(ctx, UserKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall failed: %w", err)
	}

	if len(result) == 0 {
		return nil, ErrCacheMiss
	}

	return &model.CachedUser{
		Username: result["username"],
		Email:    result["email"],
	}, nil
}

// SetUser stores a user in cache. The password is never written.
func (c *Cache) SetUser(ctx context.Context, user *model.User) error {
	key := UserKey(user.ID)
	cached := user.ToCachedUser()

	pipe := c.client.Pipeline()
	pipe.HSet(ctx, key, "username", cached.Username, "email", cached.Email)
	pipe.Expire(ctx, key, DefaultUserTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis hset failed: %w", err)
	}
	return nil
}

// DeleteUser evicts a user from cache. Callers invalidate on every write
// path (email change, delete) so reads never see a stale row.
func (c *Cache) DeleteUser(ctx context.Context, id int64) error {
	if err := c.client.Del(ctx, UserKey(id)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}
