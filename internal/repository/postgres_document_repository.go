package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"doc-manager/internal/domain"
)

const selectDocumentsSQL = `SELECT d.id, d.name, d.document_url, COALESCE(t.extracted_text, '')
FROM documents d
LEFT JOIN document_text t ON t.document_id = d.id`

// PostgresDocumentRepository stores documents in the documents and
// document_text tables.
type PostgresDocumentRepository struct {
	db     *sql.DB
	logger domain.Logger
}

func NewPostgresDocumentRepository(db *sql.DB, logger domain.Logger) *PostgresDocumentRepository {
	return &PostgresDocumentRepository{db: db, logger: logger}
}

// Create inserts the document row and its text row in one transaction.
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var id int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO documents (name, document_url) VALUES ($1, $2) RETURNING id`,
		doc.Name, doc.URL,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO document_text (document_id, extracted_text) VALUES ($1, $2)`,
		id, doc.ExtractedText,
	); err != nil {
		return fmt.Errorf("insert document text: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true

	doc.ID = id
	r.logger.Info("Document saved", "id", id, "name", doc.Name)
	return nil
}

func (r *PostgresDocumentRepository) List(ctx context.Context) ([]domain.Document, error) {
	rows, err := r.db.QueryContext(ctx, selectDocumentsSQL+` ORDER BY d.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		var doc domain.Document
		if err := rows.Scan(&doc.ID, &doc.Name, &doc.URL, &doc.ExtractedText); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.QueryRowContext(ctx, selectDocumentsSQL+` WHERE d.id = $1`, id).
		Scan(&doc.ID, &doc.Name, &doc.URL, &doc.ExtractedText)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document %d: %w", id, err)
	}
	return &doc, nil
}
