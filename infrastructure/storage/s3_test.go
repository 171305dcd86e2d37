package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"streamhub/infrastructure/configuration"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUploader struct {
	mock.Mock
	body []byte
}

func (m *mockUploader) Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	m.body, _ = io.ReadAll(input.Body)
	args := m.Called(ctx, input)
	out, _ := args.Get(0).(*manager.UploadOutput)
	return out, args.Error(1)
}

type mockDeleter struct {
	mock.Mock
}

func (m *mockDeleter) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.DeleteObjectOutput)
	return out, args.Error(1)
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestS3Store_Upload_UsesPublicBaseURL(t *testing.T) {
	up := new(mockUploader)
	store := newS3Store(up, new(mockDeleter), "media-bucket", "https://cdn.example.com/")
	path := writeTemp(t, "avatar.PNG", "png-bytes")

	up.On("Upload", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Bucket) == "media-bucket" &&
			strings.HasPrefix(aws.ToString(in.Key), keyPrefix) &&
			strings.HasSuffix(aws.ToString(in.Key), ".png") &&
			aws.ToString(in.ContentType) == "image/png"
	})).Return(&manager.UploadOutput{Location: "https://s3/raw"}, nil)

	asset, err := store.Upload(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/"+asset.PublicID, asset.URL)
	assert.Equal(t, "png-bytes", string(up.body))

	_, err = os.Stat(path)
	assert.NoError(t, err, "local file must be left for the caller")
	up.AssertExpectations(t)
}

func TestS3Store_Upload_FallsBackToLocation(t *testing.T) {
	up := new(mockUploader)
	store := newS3Store(up, new(mockDeleter), "media-bucket", "")
	up.On("Upload", mock.Anything, mock.Anything).Return(&manager.UploadOutput{Location: "https://s3/media/x.mp4"}, nil)

	asset, err := store.Upload(context.Background(), writeTemp(t, "clip.mp4", "video"))
	require.NoError(t, err)
	assert.Equal(t, "https://s3/media/x.mp4", asset.URL)
}

func TestS3Store_Upload_Errors(t *testing.T) {
	up := new(mockUploader)
	store := newS3Store(up, new(mockDeleter), "media-bucket", "")

	_, err := store.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)

	up.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))
	_, err = store.Upload(context.Background(), writeTemp(t, "a.png", "x"))
	require.ErrorContains(t, err, "access denied")
}

func TestS3Store_Delete(t *testing.T) {
	del := new(mockDeleter)
	store := newS3Store(new(mockUploader), del, "media-bucket", "")

	del.On("DeleteObject", mock.Anything, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return aws.ToString(in.Key) == "media/old.png"
	})).Return(&s3.DeleteObjectOutput{}, nil)

	require.NoError(t, store.Delete(context.Background(), "media/old.png"))
	require.NoError(t, store.Delete(context.Background(), ""))
	del.AssertNumberOfCalls(t, "DeleteObject", 1)
}

func TestNewS3Store_RequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), configuration.ObjectStore{Region: "us-east-1"})
	require.Error(t, err)
}
