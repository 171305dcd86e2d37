package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_UploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(filepath.Join(dir, "media"), "/media/")
	require.NoError(t, err)

	src := writeTemp(t, "cover.JPG", "jpeg")
	asset, err := store.Upload(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "/media/"+asset.PublicID, asset.URL)
	assert.Equal(t, ".jpg", filepath.Ext(asset.PublicID))

	data, err := os.ReadFile(filepath.Join(dir, "media", asset.PublicID))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))

	require.NoError(t, store.Delete(context.Background(), asset.PublicID))
	require.NoError(t, store.Delete(context.Background(), asset.PublicID), "deleting twice is not an error")
	require.NoError(t, store.Delete(context.Background(), "../escape"))
	_, err = os.Stat(filepath.Join(dir, "media", asset.PublicID))
	assert.True(t, os.IsNotExist(err))
}
