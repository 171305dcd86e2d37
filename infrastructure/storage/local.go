package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"streamhub/domain/model"
	"streamhub/domain/repository"

	"github.com/google/uuid"
)

// LocalStore copies media into a directory served by the HTTP server under baseURL.
// Used when no bucket is configured.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

var _ repository.IBlobStore = (*LocalStore)(nil)

func (s *LocalStore) Upload(ctx context.Context, localPath string) (*model.UploadedAsset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("local storage: open %s: %w", localPath, err)
	}
	defer src.Close()

	key := uuid.NewString() + strings.ToLower(filepath.Ext(localPath))
	dst, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(dst.Name())
		return nil, err
	}
	if err := dst.Close(); err != nil {
		return nil, err
	}
	return &model.UploadedAsset{URL: s.baseURL + "/" + key, PublicID: key}, nil
}

func (s *LocalStore) Delete(_ context.Context, publicID string) error {
	if publicID == "" || strings.ContainsAny(publicID, `/\`) {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, publicID))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
