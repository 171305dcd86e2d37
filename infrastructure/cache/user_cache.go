package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"streamhub/domain/model"
	"streamhub/domain/repository"
	"streamhub/infrastructure/logger"

	"github.com/redis/go-redis/v9"
)

const userKeyPrefix = "streamhub:user:"

// UserCache keeps sanitized users for the session middleware. A nil client disables it.
type UserCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewUserCache(client *redis.Client, ttl time.Duration) repository.IUserCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &UserCache{client: client, ttl: ttl}
}

func (c *UserCache) Get(ctx context.Context, id string) (*model.User, bool) {
	if c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, userKeyPrefix+id).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.GetLogger().WithField("error", err).Debug("Error while read user cache")
		}
		return nil, false
	}
	var user model.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, false
	}
	return &user, true
}

// Set stores the sanitized projection only.
func (c *UserCache) Set(ctx context.Context, user *model.User) {
	if c.client == nil || user == nil {
		return
	}
	sanitized := user.Sanitized()
	raw, err := json.Marshal(sanitized)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, userKeyPrefix+user.ID, raw, c.ttl).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Debug("Error while write user cache")
	}
}

func (c *UserCache) Invalidate(ctx context.Context, id string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, userKeyPrefix+id).Err(); err != nil {
		logger.GetLogger().WithField("error", err).WithField("user_id", id).Warn("Error while invalidate user cache")
	}
}
