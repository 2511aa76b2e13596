package supabase

import (
	"fmt"
	"io"
	"strings"
	"sync"

	storage "github.com/supabase-community/storage-go"
	"portfolio-backend/internal/images"
)

// StorageClient is a bucket-scoped view of Supabase Storage.
type StorageClient struct {
	client  *storage.Client
	bucket  string
	baseURL string

	// storage-go keeps upload options as headers on the shared transport,
	// which every request reads. All calls go through mu.
	mu sync.Mutex
}

func NewStorageClient(supabaseURL, key, bucket string) (*StorageClient, error) {
	if bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}
	baseURL := strings.TrimRight(supabaseURL, "/")
	client := storage.NewClient(baseURL+"/storage/v1", key, nil)

	return &StorageClient{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

func (s *StorageClient) Bucket() string {
	return s.bucket
}

func (s *StorageClient) Upload(key string, data io.Reader, opts images.UploadOptions) error {
	fileOpts := storage.FileOptions{Upsert: &opts.Upsert}
	if opts.ContentType != "" {
		fileOpts.ContentType = &opts.ContentType
	}
	if opts.CacheControl != "" {
		fileOpts.CacheControl = &opts.CacheControl
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.client.UploadFile(s.bucket, key, data, fileOpts); err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}
	return nil
}

func (s *StorageClient) Remove(keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.client.RemoveFile(s.bucket, keys); err != nil {
		return fmt.Errorf("failed to delete files: %w", err)
	}
	return nil
}

func (s *StorageClient) PublicURL(key string) string {
	return s.publicPrefix() + key
}

// KeyFromPublicURL extracts the object key after /storage/v1/object/public/<bucket>/.
func (s *StorageClient) KeyFromPublicURL(url string) (string, bool) {
	marker := "/storage/v1/object/public/" + s.bucket + "/"
	idx := strings.Index(url, marker)
	if idx < 0 {
		return "", false
	}
	key := url[idx+len(marker):]
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	return key, key != ""
}

// ListFiles lists object names under prefix.
func (s *StorageClient) ListFiles(prefix string, limit int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.client.ListFiles(s.bucket, prefix, storage.FileSearchOptions{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	names := make([]string, len(files))
	for i, file := range files {
		names[i] = file.Name
	}
	return names, nil
}

// BucketExists reports whether the configured bucket is visible to the key.
func (s *StorageClient) BucketExists() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buckets, err := s.client.ListBuckets()
	if err != nil {
		return false, fmt.Errorf("failed to list buckets: %w", err)
	}
	for _, b := range buckets {
		if b.Name == s.bucket || b.Id == s.bucket {
			return true, nil
		}
	}
	return false, nil
}

func (s *StorageClient) publicPrefix() string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/", s.baseURL, s.bucket)
}
