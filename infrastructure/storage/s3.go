package storage

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"streamhub/domain/model"
	"streamhub/domain/repository"
	"streamhub/infrastructure/configuration"
	"streamhub/infrastructure/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const keyPrefix = "media/"

type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type objectDeleter interface {
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps uploaded media in an S3-compatible bucket. The public id is the object key.
type S3Store struct {
	uploader uploader
	client   objectDeleter
	bucket   string
	baseURL  string
}

// NewS3Store configures an uploader targeting the configured object store.
func NewS3Store(ctx context.Context, cfg configuration.ObjectStore) (*S3Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("s3 storage: bucket is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if strings.TrimSpace(cfg.Endpoint) != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	up := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
		u.LeavePartsOnError = false
	})

	return newS3Store(up, client, cfg.Bucket, cfg.PublicBaseURL), nil
}

func newS3Store(up uploader, client objectDeleter, bucket, baseURL string) *S3Store {
	return &S3Store{uploader: up, client: client, bucket: bucket, baseURL: strings.TrimSuffix(baseURL, "/")}
}

var _ repository.IBlobStore = (*S3Store)(nil)

// Upload streams localPath to the bucket under a fresh key. The local file is left in place.
func (s *S3Store) Upload(ctx context.Context, localPath string) (*model.UploadedAsset, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("s3 storage: open %s: %w", localPath, err)
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(localPath))
	key := keyPrefix + uuid.NewString() + ext
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   f,
	}
	if contentType := mime.TypeByExtension(ext); contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	out, err := s.uploader.Upload(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("s3 storage upload %s: %w", key, err)
	}

	url := out.Location
	if s.baseURL != "" {
		url = fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return &model.UploadedAsset{URL: url, PublicID: key}, nil
}

func (s *S3Store) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		logger.GetLogger().WithField("error", err).WithField("key", publicID).Error("Error while deleting object")
		return fmt.Errorf("s3 storage delete %s: %w", publicID, err)
	}
	return nil
}
