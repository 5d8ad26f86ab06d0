package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quill-blog/server/internal/storage"
)

const imageKeyPrefix = "posts/"

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageFile is an uploaded post header image.
type ImageFile struct {
	Filename string
	Data     []byte
}

// ImageService stores post header images in object storage.
type ImageService struct {
	store  *storage.Storage
	logger *zap.Logger
}

func NewImageService(store *storage.Storage, logger *zap.Logger) *ImageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageService{store: store, logger: logger}
}

// Enabled reports whether uploads can be stored.
func (s *ImageService) Enabled() bool {
	return s != nil && s.store != nil
}

// Upload validates file, stores it under a fresh key and returns its
// public URL. The content type is sniffed from the data, not trusted from
// the client.
func (s *ImageService) Upload(ctx context.Context, file ImageFile) (string, error) {
	if !s.Enabled() {
		return "", ErrUploadsDisabled
	}
	if len(file.Data) == 0 {
		return "", errors.New("empty image data")
	}

	contentType := http.DetectContentType(file.Data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s is %s", ErrUnsupportedImage, path.Base(file.Filename), contentType)
	}

	key := imageKeyPrefix + uuid.NewString() + ext
	if err := s.store.Put(ctx, key, bytes.NewReader(file.Data), int64(len(file.Data)), contentType); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return s.store.URL(key), nil
}

// Owns reports whether url names an image uploaded through this service.
func (s *ImageService) Owns(url string) bool {
	if !s.Enabled() {
		return false
	}
	key, ok := s.store.KeyFromURL(url)
	return ok && strings.HasPrefix(key, imageKeyPrefix)
}

// Remove deletes the stored object behind url. URLs that point elsewhere
// are ignored.
func (s *ImageService) Remove(ctx context.Context, url string) {
	if !s.Enabled() {
		return
	}
	key, ok := s.store.KeyFromURL(url)
	if !ok {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.Warn("delete image", zap.String("key", key), zap.Error(err))
	}
}
