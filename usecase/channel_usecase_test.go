package usecase_test

import (
	"context"
	"testing"

	"streamhub/domain/apperror"
	"streamhub/domain/dto"
	"streamhub/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func (env *testEnv) publish(t *testing.T, owner *model.User, title string) *model.Video {
	t.Helper()
	env.blobs.On("Upload", mock.Anything, "/tmp/"+title+".mp4").
		Return(&model.UploadedAsset{URL: "https://cdn.test/" + title + ".mp4", PublicID: title + "-video"}, nil).Once()
	env.blobs.On("Upload", mock.Anything, "/tmp/"+title+".jpg").
		Return(&model.UploadedAsset{URL: "https://cdn.test/" + title + ".jpg", PublicID: title + "-thumb"}, nil).Once()

	video, err := env.videoUsecase.Publish(context.Background(), owner.ID,
		dto.ReqPublishVideo{Title: title, Description: title + " description"},
		dto.PublishFiles{VideoPath: "/tmp/" + title + ".mp4", ThumbnailPath: "/tmp/" + title + ".jpg"})
	require.NoError(t, err)
	return video
}

func TestChannelUsecase_ChannelProfileUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.channelUsecase.ChannelProfile(context.Background(), "nobody", "")
	assert.True(t, apperror.HasKind(err, apperror.KindNotFound))

	_, err = env.channelUsecase.ChannelProfile(context.Background(), " ", "")
	assert.True(t, apperror.HasKind(err, apperror.KindValidation))
}

func TestChannelUsecase_WatchHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	history, err := env.channelUsecase.WatchHistory(ctx, bob.ID)
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)

	first := env.publish(t, alice, "first")
	second := env.publish(t, alice, "second")

	for _, id := range []string{first.ID, second.ID, first.ID} {
		_, err := env.videoUsecase.Watch(ctx, bob.ID, id)
		require.NoError(t, err)
	}

	history, err = env.channelUsecase.WatchHistory(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, first.ID, history[0].ID)
	assert.Equal(t, second.ID, history[1].ID)
	assert.Equal(t, int64(2), history[0].Views)
	assert.Equal(t, model.UserSummary{
		ID:       alice.ID,
		Username: "alice",
		FullName: "alice Example",
		Avatar:   "https://cdn.test/alice.png",
	}, history[0].Owner)
}
