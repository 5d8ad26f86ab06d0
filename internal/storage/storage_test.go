package storage_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-blog/server/config"
	"github.com/quill-blog/server/internal/storage"
	"github.com/quill-blog/server/internal/storage/storagetest"
)

func TestStorage_URLRoundTrip(t *testing.T) {
	s := storage.NewStorage(storagetest.NewMemory("images"), "")
	assert.Equal(t, "/uploads/posts/a.png", s.URL("posts/a.png"))

	key, ok := s.KeyFromURL("/uploads/posts/a.png")
	require.True(t, ok)
	assert.Equal(t, "posts/a.png", key)

	_, ok = s.KeyFromURL("https://elsewhere.example.com/a.png")
	assert.False(t, ok)
	_, ok = s.KeyFromURL("/uploads/")
	assert.False(t, ok)
}

func TestStorage_PublicBaseURL(t *testing.T) {
	s := storage.NewStorage(storagetest.NewMemory("images"), "https://cdn.example.com/blog/")
	assert.Equal(t, "https://cdn.example.com/blog/posts/a.png", s.URL("/posts/a.png"))
}

func TestStorage_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	mem := storagetest.NewMemory("images")
	s := storage.NewStorage(mem, "")

	require.NoError(t, s.Put(ctx, "k", strings.NewReader("data"), 4, "image/png"))
	r, err := s.Get(ctx, "k")
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))

	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
}

func TestOpen(t *testing.T) {
	s, err := storage.Open(context.Background(), config.StorageConfig{})
	require.NoError(t, err)
	assert.Nil(t, s)

	_, err = storage.Open(context.Background(), config.StorageConfig{Backend: "ftp"})
	assert.Error(t, err)

	_, err = storage.Open(context.Background(), config.StorageConfig{Backend: storage.BackendMinio})
	assert.ErrorContains(t, err, "minio endpoint is required")
}
