package usecase_test

import (
	"context"
	"testing"

	"streamhub/domain/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTweetUsecase_OwnerOnlyMutations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	_, err := env.tweetUsecase.Create(ctx, alice.ID, "   ")
	assert.True(t, apperror.HasKind(err, apperror.KindValidation))

	tweet, err := env.tweetUsecase.Create(ctx, alice.ID, " hello ")
	require.NoError(t, err)
	assert.Equal(t, "hello", tweet.Content)

	_, err = env.tweetUsecase.Update(ctx, bob.ID, tweet.ID, "hijacked")
	assert.True(t, apperror.HasKind(err, apperror.KindForbidden))
	assert.True(t, apperror.HasKind(env.tweetUsecase.Delete(ctx, bob.ID, tweet.ID), apperror.KindForbidden))

	_, err = env.tweetUsecase.Update(ctx, alice.ID, tweet.ID, "")
	assert.True(t, apperror.HasKind(err, apperror.KindValidation))

	updated, err := env.tweetUsecase.Update(ctx, alice.ID, tweet.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	require.NoError(t, env.tweetUsecase.Delete(ctx, alice.ID, tweet.ID))
	assert.True(t, apperror.HasKind(env.tweetUsecase.Delete(ctx, alice.ID, tweet.ID), apperror.KindNotFound))
}

func TestTweetUsecase_ListByOwnerFlattensSanitizedOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	env.login(t, "alice")

	_, err := env.tweetUsecase.Create(ctx, alice.ID, "one")
	require.NoError(t, err)
	_, err = env.tweetUsecase.Create(ctx, alice.ID, "two")
	require.NoError(t, err)

	tweets, err := env.tweetUsecase.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, tweets, 2)
	for _, tweet := range tweets {
		assert.Equal(t, alice.ID, tweet.Owner.ID)
		assert.Equal(t, "alice", tweet.Owner.Username)
		assert.Empty(t, tweet.Owner.Password)
		assert.Empty(t, tweet.Owner.RefreshToken)
	}

	_, err = env.tweetUsecase.ListByOwner(ctx, "8d3c8f1e-1a2b-4c5d-8e9f-0a1b2c3d4e5f")
	assert.True(t, apperror.HasKind(err, apperror.KindNotFound))
}
