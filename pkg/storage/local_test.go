package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageUploadAndDelete(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStorage(root, "http://localhost:8085/uploads/")
	require.NoError(t, err)

	url, err := store.Upload(context.Background(), "chat/2026/09/01/photo.jpg",
		strings.NewReader("jpeg bytes"), 10, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8085/uploads/chat/2026/09/01/photo.jpg", url)

	data, err := os.ReadFile(filepath.Join(root, "chat", "2026", "09", "01", "photo.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))

	require.NoError(t, store.Delete(context.Background(), "chat/2026/09/01/photo.jpg"))
	_, err = os.Stat(filepath.Join(root, "chat", "2026", "09", "01", "photo.jpg"))
	assert.True(t, os.IsNotExist(err))

	// Deleting a missing key is not an error.
	require.NoError(t, store.Delete(context.Background(), "chat/missing.jpg"))
}
