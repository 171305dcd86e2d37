package usecase_test

import (
	"context"
	"errors"
	"testing"

	"streamhub/domain/apperror"
	"streamhub/domain/model"
	"streamhub/domain/repository"
	"streamhub/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionUsecase_ToggleScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	env.login(t, "alice")

	profile, err := env.channelUsecase.ChannelProfile(ctx, "alice", bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), profile.SubscribersCount)
	assert.False(t, profile.IsSubscribed)

	state, err := env.subscriptionUsecase.Toggle(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Subscribed, state)

	profile, err = env.channelUsecase.ChannelProfile(ctx, "alice", bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.SubscribersCount)
	assert.True(t, profile.IsSubscribed)

	bobProfile, err := env.channelUsecase.ChannelProfile(ctx, "bob", alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), bobProfile.ChannelsSubscribedToCount)
	assert.False(t, bobProfile.IsSubscribed)

	state, err = env.subscriptionUsecase.Toggle(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Unsubscribed, state)

	profile, err = env.channelUsecase.ChannelProfile(ctx, "alice", bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), profile.SubscribersCount)
	assert.False(t, profile.IsSubscribed)
}

func TestSubscriptionUsecase_ToggleParity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	for n := 1; n <= 5; n++ {
		state, err := env.subscriptionUsecase.Toggle(ctx, bob.ID, alice.ID)
		require.NoError(t, err)

		_, findErr := env.subs.Find(ctx, bob.ID, alice.ID)
		if n%2 == 1 {
			assert.Equal(t, model.Subscribed, state)
			assert.NoError(t, findErr)
		} else {
			assert.Equal(t, model.Unsubscribed, state)
			assert.ErrorIs(t, findErr, repository.ErrNotFound)
		}
	}
}

func TestSubscriptionUsecase_SelfSubscription(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")

	_, err := env.subscriptionUsecase.Toggle(ctx, alice.ID, alice.ID)
	assert.True(t, apperror.HasKind(err, apperror.KindInvalidOperation))

	_, err = env.subs.Find(ctx, alice.ID, alice.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	env.events.AssertNotCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(e model.DomainEvent) bool {
		return e.Type == model.EventSubscriptionToggled
	}))
}

func TestSubscriptionUsecase_UnknownOrMalformedChannel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	bob := env.register(t, "bob")

	_, err := env.subscriptionUsecase.Toggle(ctx, bob.ID, "8d3c8f1e-1a2b-4c5d-8e9f-0a1b2c3d4e5f")
	assert.True(t, apperror.HasKind(err, apperror.KindNotFound))

	_, err = env.subscriptionUsecase.Toggle(ctx, bob.ID, "not-an-id")
	assert.True(t, apperror.HasKind(err, apperror.KindValidation))

	_, err = env.subscriptionUsecase.ListSubscribers(ctx, "8d3c8f1e-1a2b-4c5d-8e9f-0a1b2c3d4e5f")
	assert.True(t, apperror.HasKind(err, apperror.KindNotFound))

	_, err = env.subscriptionUsecase.ListSubscriptions(ctx, "8d3c8f1e-1a2b-4c5d-8e9f-0a1b2c3d4e5f")
	assert.True(t, apperror.HasKind(err, apperror.KindNotFound))
}

func TestSubscriptionUsecase_Lists(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	carol := env.register(t, "carol")

	for _, subscriber := range []*model.User{bob, carol} {
		_, err := env.subscriptionUsecase.Toggle(ctx, subscriber.ID, alice.ID)
		require.NoError(t, err)
	}
	_, err := env.subscriptionUsecase.Toggle(ctx, bob.ID, carol.ID)
	require.NoError(t, err)

	subscribers, err := env.subscriptionUsecase.ListSubscribers(ctx, alice.ID)
	require.NoError(t, err)
	usernames := []string{}
	for _, s := range subscribers {
		usernames = append(usernames, s.Subscriber.Username)
	}
	assert.ElementsMatch(t, []string{"bob", "carol"}, usernames)

	channels, err := env.subscriptionUsecase.ListSubscriptions(ctx, bob.ID)
	require.NoError(t, err)
	usernames = usernames[:0]
	for _, c := range channels {
		usernames = append(usernames, c.Channel.Username)
	}
	assert.ElementsMatch(t, []string{"alice", "carol"}, usernames)

	empty, err := env.subscriptionUsecase.ListSubscriptions(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

// lostRaceSubscriptions simulates a concurrent toggle landing between Find and the write.
type lostRaceSubscriptions struct {
	repository.ISubscription
}

func (r lostRaceSubscriptions) Create(context.Context, *model.Subscription) error {
	return repository.ErrConflict
}

func TestSubscriptionUsecase_ConcurrentCreateIsNotAnError(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	subscriptionUsecase := usecase.NewSubscriptionUsecase(env.users, lostRaceSubscriptions{env.subs}, nil)
	state, err := subscriptionUsecase.Toggle(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Subscribed, state)
}

func TestSubscriptionUsecase_PublishFailureDoesNotFailToggle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()
	subscriptionUsecase := usecase.NewSubscriptionUsecase(env.users, env.subs, publisher)

	state, err := subscriptionUsecase.Toggle(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Subscribed, state)
	publisher.AssertExpectations(t)
}

func TestSubscriptionUsecase_PublishesBeforeReturningWithDeadline(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), mock.Anything).Return(nil).Once()
	subscriptionUsecase := usecase.NewSubscriptionUsecase(env.users, env.subs, publisher)

	_, err := subscriptionUsecase.Toggle(context.Background(), bob.ID, alice.ID)
	require.NoError(t, err)
	publisher.AssertExpectations(t)
}
