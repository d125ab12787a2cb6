package service

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"doc-manager/internal/domain"

	storage_go "github.com/supabase-community/storage-go"
)

// SupabaseStorage writes objects into a public Supabase Storage bucket.
type SupabaseStorage struct {
	client  domain.SupabaseClient
	baseURL string
	bucket  string
}

func NewSupabaseStorage(client domain.SupabaseClient, baseURL string, bucket string) *SupabaseStorage {
	return &SupabaseStorage{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		bucket:  bucket,
	}
}

func (s *SupabaseStorage) Put(
	ctx context.Context,
	key string,
	content io.Reader,
	size int64,
	contentType string,
) (*domain.StoredFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	db := s.client.DB()
	if db == nil || db.Storage == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	upsert := false
	_, err := db.Storage.UploadFile(s.bucket, key, content, storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s to bucket %s: %w", key, s.bucket, err)
	}

	return &domain.StoredFile{
		Key:       key,
		PublicURL: PublicObjectURL(s.baseURL, s.bucket, key),
		Size:      size,
	}, nil
}

// PublicObjectURL builds the public link Supabase serves for an object in a public bucket.
func PublicObjectURL(baseURL, bucket, key string) string {
	return strings.TrimRight(baseURL, "/") + "/storage/v1/object/public/" + url.PathEscape(bucket) + "/" + escapeKey(key)
}

// LocalStorage keeps uploads on disk; the HTTP server exposes baseDir under publicURL.
type LocalStorage struct {
	baseDir   string
	publicURL string
}

func NewLocalStorage(baseDir string, publicURL string) *LocalStorage {
	return &LocalStorage{
		baseDir:   baseDir,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (s *LocalStorage) Put(
	ctx context.Context,
	key string,
	content io.Reader,
	size int64,
	contentType string,
) (*domain.StoredFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validLocalKey(key) {
		return nil, fmt.Errorf("invalid storage key %q", key)
	}

	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}

	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, content)
	if err != nil {
		return nil, fmt.Errorf("write body: %w", err)
	}

	return &domain.StoredFile{
		Key:       key,
		PublicURL: s.publicURL + "/" + escapeKey(key),
		Size:      written,
	}, nil
}

// BaseDir returns the directory files are written to.
func (s *LocalStorage) BaseDir() string {
	return s.baseDir
}

// validLocalKey accepts relative slash-separated keys whose segments never
// step outside the base directory. Dots inside a file name are fine.
func validLocalKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return false
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
	}
	return true
}

func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}
