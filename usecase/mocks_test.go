package usecase_test

import (
	"context"
	"testing"
	"time"

	"streamhub/domain/dto"
	"streamhub/domain/model"
	"streamhub/domain/repository"
	"streamhub/infrastructure/configuration"
	"streamhub/infrastructure/persistence"
	"streamhub/usecase"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Upload(ctx context.Context, localPath string) (*model.UploadedAsset, error) {
	args := m.Called(ctx, localPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UploadedAsset), args.Error(1)
}

func (m *MockBlobStore) Delete(ctx context.Context, publicID string) error {
	args := m.Called(ctx, publicID)
	return args.Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event model.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockUserCache struct {
	mock.Mock
}

func (m *MockUserCache) Get(ctx context.Context, id string) (*model.User, bool) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*model.User), args.Bool(1)
}

func (m *MockUserCache) Set(ctx context.Context, user *model.User) {
	m.Called(ctx, user)
}

func (m *MockUserCache) Invalidate(ctx context.Context, id string) {
	m.Called(ctx, id)
}

var testAuth = configuration.Auth{
	AccessTokenSecret:  "access-secret",
	AccessTokenExpiry:  15 * time.Minute,
	RefreshTokenSecret: "refresh-secret",
	RefreshTokenExpiry: 240 * time.Hour,
}

type testEnv struct {
	users  repository.IUser
	subs   repository.ISubscription
	tweets repository.ITweet
	videos repository.IVideo

	blobs  *MockBlobStore
	events *MockEventPublisher

	tokenUsecase        usecase.ITokenUsecase
	userUsecase         usecase.IUserUsecase
	subscriptionUsecase usecase.ISubscriptionUsecase
	channelUsecase      usecase.IChannelUsecase
	tweetUsecase        usecase.ITweetUsecase
	videoUsecase        usecase.IVideoUsecase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := persistence.NewMemoryStore()
	env := &testEnv{
		users:  persistence.NewUserMemoryRepository(store),
		subs:   persistence.NewSubscriptionMemoryRepository(store),
		tweets: persistence.NewTweetMemoryRepository(store),
		videos: persistence.NewVideoMemoryRepository(store),
		blobs:  new(MockBlobStore),
		events: new(MockEventPublisher),
	}
	env.events.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()

	env.tokenUsecase = usecase.NewTokenUsecase(env.users, testAuth)
	env.userUsecase = usecase.NewUserUsecase(env.users, env.tokenUsecase, env.blobs, nil, env.events)
	env.subscriptionUsecase = usecase.NewSubscriptionUsecase(env.users, env.subs, env.events)
	env.channelUsecase = usecase.NewChannelUsecase(env.users)
	env.tweetUsecase = usecase.NewTweetUsecase(env.users, env.tweets)
	env.videoUsecase = usecase.NewVideoUsecase(env.users, env.videos, env.blobs)
	return env
}

// register creates username with password "password123" and a stubbed avatar upload.
func (env *testEnv) register(t *testing.T, username string) *model.User {
	t.Helper()
	avatarPath := "/tmp/" + username + "-avatar.png"
	env.blobs.On("Upload", mock.Anything, avatarPath).
		Return(&model.UploadedAsset{URL: "https://cdn.test/" + username + ".png", PublicID: username + "-avatar"}, nil).Once()

	user, err := env.userUsecase.Register(context.Background(), dto.ReqRegister{
		FullName: username + " Example",
		Email:    username + "@example.com",
		Username: username,
		Password: "password123",
	}, dto.RegisterFiles{AvatarPath: avatarPath})
	require.NoError(t, err)
	return user
}

func (env *testEnv) login(t *testing.T, username string) *dto.ResLogin {
	t.Helper()
	res, err := env.userUsecase.Login(context.Background(), dto.ReqLogin{Username: username, Password: "password123"})
	require.NoError(t, err)
	return res
}

func newUserUsecaseWithCache(env *testEnv, cache repository.IUserCache) usecase.IUserUsecase {
	return usecase.NewUserUsecase(env.users, env.tokenUsecase, env.blobs, cache, env.events)
}
