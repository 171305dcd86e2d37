package http

import (
	"os"
	"path/filepath"
	"strings"

	"streamhub/domain/apperror"
	"streamhub/infrastructure/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// tempFiles tracks uploaded files saved to disk. Cleanup removes every one of them.
type tempFiles struct {
	dir   string
	paths []string
}

func newTempFiles(dir string) *tempFiles {
	if dir == "" {
		dir = os.TempDir()
	}
	return &tempFiles{dir: dir}
}

// Save stores the single file sent as field and returns its local path, or "" when it is absent and optional.
func (t *tempFiles) Save(c *gin.Context, field string, required bool) (string, error) {
	form, err := c.MultipartForm()
	if err != nil || form == nil || len(form.File[field]) == 0 {
		if required {
			return "", apperror.Validation(field + " file is required")
		}
		return "", nil
	}
	headers := form.File[field]
	if len(headers) > 1 {
		return "", apperror.Validation("Only one " + field + " file is allowed")
	}

	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		return "", apperror.UploadFailed("Error while receiving "+field, err)
	}
	ext := strings.ToLower(filepath.Ext(headers[0].Filename))
	path := filepath.Join(t.dir, uuid.NewString()+ext)
	t.paths = append(t.paths, path)
	if err := c.SaveUploadedFile(headers[0], path); err != nil {
		return "", apperror.UploadFailed("Error while receiving "+field, err)
	}
	return path, nil
}

func (t *tempFiles) Cleanup() {
	for _, path := range t.paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.GetLogger().WithField("error", err).WithField("path", path).Warn("Error while remove temp file")
		}
	}
	t.paths = nil
}
