package images

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"portfolio-backend/internal/errs"
)

const (
	keyPrefix    = "projects/"
	cacheControl = "3600"
)

// UploadOptions mirror the Storage upload options the adapter cares about.
type UploadOptions struct {
	ContentType  string
	CacheControl string
	Upsert       bool
}

// ObjectStorage is the bucket-scoped object store backing Store.
type ObjectStorage interface {
	Upload(key string, data io.Reader, opts UploadOptions) error
	Remove(keys []string) error
	PublicURL(key string) string
	// KeyFromPublicURL returns the object key of a URL produced by PublicURL,
	// or false when the URL does not point into the bucket.
	KeyFromPublicURL(url string) (string, bool)
}

// Store uploads and deletes project cover images.
type Store struct {
	objects ObjectStorage
	logger  zerolog.Logger
	now     func() time.Time
}

func NewStore(objects ObjectStorage, logger zerolog.Logger) *Store {
	return &Store{
		objects: objects,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock replaces the time source used for object keys.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Key builds projects/<slug>-<unix millis>.<ext>.
func (s *Store) Key(file *File, projectSlug string) string {
	return fmt.Sprintf("%s%s-%d.%s", keyPrefix, projectSlug, s.now().UnixMilli(), Extension(file.Name, file.ContentType))
}

// Upload writes file under a fresh key without overwriting and returns its
// public URL.
func (s *Store) Upload(ctx context.Context, file *File, projectSlug string) (string, error) {
	key := s.Key(file, projectSlug)

	err := s.objects.Upload(key, bytes.NewReader(file.Data), UploadOptions{
		ContentType:  file.ContentType,
		CacheControl: cacheControl,
		Upsert:       false,
	})
	if err != nil {
		return "", errs.E(errs.Upload, "images.Upload", "failed to upload image", err)
	}

	s.logger.Debug().Str("key", key).Int("bytes", len(file.Data)).Msg("uploaded cover image")
	return s.objects.PublicURL(key), nil
}

// Delete removes the object behind url. URLs outside the bucket are ignored.
func (s *Store) Delete(ctx context.Context, url string) error {
	key, ok := s.objects.KeyFromPublicURL(url)
	if !ok || key == "" {
		s.logger.Debug().Str("url", url).Msg("not a bucket URL, nothing to delete")
		return nil
	}

	if err := s.objects.Remove([]string{key}); err != nil {
		return errs.E(errs.Delete, "images.Delete", "failed to delete image", err)
	}

	s.logger.Debug().Str("key", key).Msg("deleted cover image")
	return nil
}
