// Package storage handles screenshot and chart image files on local disk.
package storage

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/trade-logger/internal/models"
)

// extensions maps accepted sniffed content types to file extensions.
var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// ImageStore saves and deletes uploaded images under a root directory.
// File operations are not part of any database transaction; deletion is
// best-effort and a failure never rolls back the associated record change.
type ImageStore struct {
	root    string
	maxSize int64
	logger  *logrus.Logger
}

// NewImageStore creates an image store rooted at root.
func NewImageStore(root string, maxSize int64, logger *logrus.Logger) *ImageStore {
	return &ImageStore{root: root, maxSize: maxSize, logger: logger}
}

// Save stores an uploaded image and returns its path relative to the store
// root. The content type is sniffed from the bytes, never trusted from the
// client, and only JPEG, PNG and GIF within the size limit are accepted.
func (s *ImageStore) Save(r io.Reader, subdir string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return "", models.NewValidationError(fmt.Sprintf("Image exceeds the maximum size of %d MB", s.maxSize/(1024*1024)))
	}
	if len(data) == 0 {
		return "", models.NewValidationError("Uploaded file is empty")
	}

	contentType := http.DetectContentType(data)
	ext, ok := extensions[contentType]
	if !ok {
		return "", models.NewValidationError("Only JPEG, PNG and GIF images are allowed")
	}

	name := strings.ReplaceAll(uuid.New().String(), "-", "") + ext
	relPath := filepath.Join(subdir, name)
	fullPath := filepath.Join(s.root, relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	return relPath, nil
}

// Delete removes a stored image. A missing file is not an error, and any
// other failure is logged and swallowed.
func (s *ImageStore) Delete(relPath string) {
	if relPath == "" {
		return
	}
	fullPath := filepath.Join(s.root, relPath)
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		s.logger.WithError(err).WithField("path", relPath).Warn("Failed to delete stored image")
	}
}

// Open returns a stored image for serving.
func (s *ImageStore) Open(relPath string) (*os.File, error) {
	return os.Open(filepath.Join(s.root, relPath))
}
