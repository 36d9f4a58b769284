package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/trade-logger/internal/models"
)

// pngHeader is a minimal valid PNG signature plus padding so the sniffer
// classifies it as image/png.
var pngHeader = append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 64)...)

func newTestStore(t *testing.T, maxSize int64) *ImageStore {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewImageStore(t.TempDir(), maxSize, log)
}

func TestSaveAcceptsPNG(t *testing.T) {
	store := newTestStore(t, 4*1024*1024)

	relPath, err := store.Save(bytes.NewReader(pngHeader), "screenshots")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(relPath, "screenshots"+string(filepath.Separator)))
	assert.True(t, strings.HasSuffix(relPath, ".png"))

	file, err := store.Open(relPath)
	require.NoError(t, err)
	file.Close()
}

func TestSaveRejectsNonImage(t *testing.T) {
	store := newTestStore(t, 4*1024*1024)

	_, err := store.Save(strings.NewReader("just some text pretending to be an image"), "screenshots")

	require.Error(t, err)
	assert.True(t, models.IsValidationError(err))
	assert.Equal(t, "Only JPEG, PNG and GIF images are allowed", err.Error())
}

func TestSaveRejectsOversized(t *testing.T) {
	store := newTestStore(t, 16)

	_, err := store.Save(bytes.NewReader(pngHeader), "screenshots")

	require.Error(t, err)
	assert.True(t, models.IsValidationError(err))
}

func TestSaveRejectsEmpty(t *testing.T) {
	store := newTestStore(t, 4*1024*1024)

	_, err := store.Save(bytes.NewReader(nil), "screenshots")

	require.Error(t, err)
	assert.Equal(t, "Uploaded file is empty", err.Error())
}

func TestDeleteMissingFileIsSilent(t *testing.T) {
	store := newTestStore(t, 4*1024*1024)

	store.Delete("screenshots/never-existed.png")
	store.Delete("")
}

func TestDeleteRemovesFile(t *testing.T) {
	store := newTestStore(t, 4*1024*1024)

	relPath, err := store.Save(bytes.NewReader(pngHeader), "charts")
	require.NoError(t, err)

	store.Delete(relPath)

	_, err = store.Open(relPath)
	assert.True(t, os.IsNotExist(err))
}
