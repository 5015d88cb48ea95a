// Package cache holds Redis-backed read-through caches.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/pratsy91/todo-backend/internal/domain/entity"
	"github.com/pratsy91/todo-backend/pkg/helpers"
)

// UserSource is the authoritative lookup the cache falls back to.
type UserSource interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

// UserCache serves profile reads from Redis. It must not be used to decide
// whether a user still exists: a cached entry outlives a deleted row until it
// expires. The password hash is not cached.
type UserCache struct {
	next   UserSource
	rdb    *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

type cachedUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewUserCache(next UserSource, rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *UserCache {
	return &UserCache{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func userKey(id string) string {
	return "user:profile:" + id
}

// GetByID returns the cached user or loads and caches it. Redis failures fall
// through to the source.
func (c *UserCache) GetByID(ctx context.Context, id string) (*entity.User, error) {
	key := userKey(id)
	var cu cachedUser
	found, err := helpers.RedisGetJSON(ctx, c.rdb, key, &cu)
	if err != nil {
		c.warn(err, key, "redis get failed")
	}
	if found {
		return &entity.User{ID: cu.ID, Name: cu.Name, Email: cu.Email, CreatedAt: cu.CreatedAt, UpdatedAt: cu.UpdatedAt}, nil
	}

	u, err := c.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cu = cachedUser{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
	if err := helpers.RedisSetJSON(ctx, c.rdb, key, cu, c.ttl); err != nil {
		c.warn(err, key, "redis set failed")
	}
	return u, nil
}

func (c *UserCache) warn(err error, key, msg string) {
	if c.logger != nil {
		c.logger.WithError(err).WithField("key", key).Warn(msg)
	}
}
