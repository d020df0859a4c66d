package objectstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"drift_inc/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_UploadAndRemove(t *testing.T) {
	dir := t.TempDir()

	s, err := NewLocalStorage(dir, "http://localhost:8080/uploads/")
	require.NoError(t, err)

	url, err := s.Upload(context.Background(), "gallery/test.jpg", []byte("payload"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/gallery/test.jpg", url)

	data, err := os.ReadFile(filepath.Join(dir, "gallery", "test.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	require.NoError(t, s.RemoveByURL(context.Background(), url))

	_, err = os.Stat(filepath.Join(dir, "gallery", "test.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorage_UploadEmpty(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	_, err = s.Upload(context.Background(), "gallery/empty.jpg", nil, "image/jpeg")
	assert.ErrorIs(t, err, storage.ErrEmptyObject)
}

func TestLocalStorage_RemoveForeignURL(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	err = s.RemoveByURL(context.Background(), "http://elsewhere.example/file.jpg")
	assert.ErrorIs(t, err, storage.ErrForeignURL)
}

func TestLocalStorage_RemoveMissingObject(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	err = s.RemoveByURL(context.Background(), "http://localhost:8080/uploads/gallery/nope.jpg")
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
}
