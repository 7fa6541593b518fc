package storage_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/lcdc-construction/projects-api/internal/config"
	"github.com/lcdc-construction/projects-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	path, size, err := store.Upload(ctx, "drawing.pdf", "application/pdf", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.EqualValues(t, 5, size)
	assert.NotEmpty(t, path)
	// Paths keep the original extension so downloads stay recognizable
	assert.True(t, strings.HasSuffix(path, ".pdf"))

	content, err := store.Download(ctx, path)
	require.NoError(t, err)
	defer content.Close()

	data, err := io.ReadAll(content)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestLocalStorage_UploadsDoNotCollide(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	first, _, err := store.Upload(ctx, "plan.pdf", "application/pdf", strings.NewReader("one"))
	require.NoError(t, err)
	second, _, err := store.Upload(ctx, "plan.pdf", "application/pdf", strings.NewReader("two"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestLocalStorage_Delete(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	path, _, err := store.Upload(ctx, "plan.pdf", "application/pdf", strings.NewReader("content"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, path))

	_, err = store.Download(ctx, path)
	assert.Error(t, err)
}

func TestNewStorage_ModeSelection(t *testing.T) {
	logger := zap.NewNop()

	store, err := storage.NewStorage(&config.StorageConfig{
		Mode:          "local",
		LocalBasePath: t.TempDir(),
	}, logger)
	require.NoError(t, err)
	assert.NotNil(t, store)

	_, err = storage.NewStorage(&config.StorageConfig{Mode: "azure"}, logger)
	assert.Error(t, err, "azure mode without a connection string is rejected")

	_, err = storage.NewStorage(&config.StorageConfig{Mode: "ftp"}, logger)
	assert.Error(t, err)
}
