package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "user-service/internal/domain/user"
)

// UserCache defines the interface for user caching operations.
type UserCache interface {
	// Get retrieves a user from cache by ID.
	// Returns nil if user is not found in cache.
	Get(ctx context.Context, id int64) (*domain.User, error)

	// GetByUsername retrieves a user from cache by username.
	// Returns nil if no cached entry resolves to that username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// Set stores a user in cache with the configured TTL and
	// maintains the username index entry.
	Set(ctx context.Context, user *domain.User) error

	// Delete removes a user from cache by ID.
	Delete(ctx context.Context, id int64) error
}

// RedisUserCache implements UserCache using Redis as the backing store.
// Each user is stored once under its ID key; a small index entry maps
// the username to the ID so lookups by either key share one cached body.
type RedisUserCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisUserCache creates a new Redis-backed user cache.
func NewRedisUserCache(client *redis.Client, ttl time.Duration, log *zap.Logger) UserCache {
	return &RedisUserCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

func (c *RedisUserCache) idKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

func (c *RedisUserCache) usernameKey(username string) string {
	return fmt.Sprintf("user:username:%s", username)
}

// Get retrieves a user from Redis cache by ID.
func (c *RedisUserCache) Get(ctx context.Context, id int64) (*domain.User, error) {
	data, err := c.client.Get(ctx, c.idKey(id)).Bytes()
	if err == redis.Nil {
		// Cache miss - not an error
		c.log.Debug("cache miss", zap.Int64("user_id", id))
		return nil, nil
	}
	if err != nil {
		c.log.Error("failed to get from cache", zap.Int64("user_id", id), zap.Error(err))
		return nil, err
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		c.log.Error("failed to unmarshal cached user", zap.Int64("user_id", id), zap.Error(err))
		return nil, err
	}

	c.log.Debug("cache hit", zap.Int64("user_id", id))
	return &user, nil
}

// GetByUsername resolves the username index to an ID and loads that entry.
// The index can lag behind a rename, so the loaded user's username is
// checked against the requested one before it is returned.
func (c *RedisUserCache) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	raw, err := c.client.Get(ctx, c.usernameKey(username)).Result()
	if err == redis.Nil {
		c.log.Debug("cache miss", zap.String("username", username))
		return nil, nil
	}
	if err != nil {
		c.log.Error("failed to get username index", zap.String("username", username), zap.Error(err))
		return nil, err
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.log.Warn("corrupt username index entry", zap.String("username", username), zap.String("value", raw))
		return nil, nil
	}

	user, err := c.Get(ctx, id)
	if err != nil || user == nil {
		return nil, err
	}
	if user.Username != username {
		// Stale index entry left behind by a rename
		return nil, nil
	}
	return user, nil
}

// Set stores a user in Redis cache with TTL and updates the username index.
func (c *RedisUserCache) Set(ctx context.Context, user *domain.User) error {
	if user == nil {
		return fmt.Errorf("cannot cache nil user")
	}

	data, err := json.Marshal(user)
	if err != nil {
		c.log.Error("failed to marshal user for cache", zap.Int64("user_id", user.ID), zap.Error(err))
		return err
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, c.idKey(user.ID), data, c.ttl)
	pipe.Set(ctx, c.usernameKey(user.Username), strconv.FormatInt(user.ID, 10), c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Error("failed to set cache", zap.Int64("user_id", user.ID), zap.Error(err))
		return err
	}

	c.log.Debug("cached user", zap.Int64("user_id", user.ID), zap.Duration("ttl", c.ttl))
	return nil
}

// Delete removes a user from Redis cache by ID.
// The username index entry is left to expire on its own; a dangling
// index resolves to a missing ID key and reads as a miss.
func (c *RedisUserCache) Delete(ctx context.Context, id int64) error {
	if err := c.client.Del(ctx, c.idKey(id)).Err(); err != nil {
		c.log.Error("failed to delete from cache", zap.Int64("user_id", id), zap.Error(err))
		return err
	}

	c.log.Debug("deleted from cache", zap.Int64("user_id", id))
	return nil
}
