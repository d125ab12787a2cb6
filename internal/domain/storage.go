package domain

import (
	"context"
	"io"
)

// StoredFile describes an object written to the object store.
type StoredFile struct {
	Key       string `json:"key"`
	PublicURL string `json:"public_url"`
	Size      int64  `json:"size"`
}

// ObjectStore persists uploaded files and exposes them under a public URL.
type ObjectStore interface {
	Put(ctx context.Context, key string, content io.Reader, size int64, contentType string) (*StoredFile, error)
}
