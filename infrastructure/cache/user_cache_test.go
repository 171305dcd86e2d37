package cache_test

import (
	"context"
	"testing"
	"time"

	"streamhub/domain/model"
	"streamhub/infrastructure/cache"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestUserCache_NilClientIsDisabled(t *testing.T) {
	userCache := cache.NewUserCache(nil, 0)
	ctx := context.Background()

	userCache.Set(ctx, &model.User{ID: "u1", Password: "hash"})
	user, ok := userCache.Get(ctx, "u1")
	assert.False(t, ok)
	assert.Nil(t, user)
	assert.NotPanics(t, func() { userCache.Invalidate(ctx, "u1") })
}

func TestUserCache_UnreachableRedisIsAMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	userCache := cache.NewUserCache(client, time.Minute)
	ctx := context.Background()

	assert.NotPanics(t, func() { userCache.Set(ctx, &model.User{ID: "u1"}) })
	_, ok := userCache.Get(ctx, "u1")
	assert.False(t, ok)
	assert.NotPanics(t, func() { userCache.Invalidate(ctx, "u1") })
}

func TestNewCache_ReturnsClientOnPingFailure(t *testing.T) {
	client, err := cache.NewCache(context.Background(), "127.0.0.1:1", "", "")
	assert.Error(t, err)
	assert.NotNil(t, client)
	_ = client.Close()
}
