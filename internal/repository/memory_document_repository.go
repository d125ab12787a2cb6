package repository

import (
	"context"
	"sync"

	"doc-manager/internal/domain"
)

// MemoryDocumentRepository keeps documents in process memory. Used when no
// database is configured.
type MemoryDocumentRepository struct {
	mu     sync.RWMutex
	docs   []domain.Document
	nextID int64
}

func NewMemoryDocumentRepository() *MemoryDocumentRepository {
	return &MemoryDocumentRepository{nextID: 1}
}

func (r *MemoryDocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	doc.ID = r.nextID
	r.nextID++
	r.docs = append(r.docs, *doc)
	return nil
}

func (r *MemoryDocumentRepository) List(ctx context.Context) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Document, 0, len(r.docs))
	for i := len(r.docs) - 1; i >= 0; i-- {
		out = append(out, r.docs[i])
	}
	return out, nil
}

func (r *MemoryDocumentRepository) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, doc := range r.docs {
		if doc.ID == id {
			d := doc
			return &d, nil
		}
	}
	return nil, domain.ErrDocumentNotFound
}
