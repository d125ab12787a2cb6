package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"doc-manager/internal/domain"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
)

const (
	documentsTable    = "documents"
	documentTextTable = "document_text"
	documentColumns   = "id,name,document_url,document_text(extracted_text)"
)

// SupabaseDocumentRepository reads and writes documents through PostgREST.
type SupabaseDocumentRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

// NewSupabaseDocumentRepository creates a new Supabase document repository
func NewSupabaseDocumentRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) *SupabaseDocumentRepository {
	return &SupabaseDocumentRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

type documentRow struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	DocumentURL string          `json:"document_url"`
	Text        json.RawMessage `json:"document_text,omitempty"`
}

type documentTextRow struct {
	ExtractedText string `json:"extracted_text"`
}

func (r *SupabaseDocumentRepository) client() (*supabase.Client, error) {
	client := r.supabaseClient.DB()
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}
	return client, nil
}

// Create inserts the document and then its text. PostgREST has no
// multi-table transaction, so a failed text insert removes the document row.
func (r *SupabaseDocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	client, err := r.client()
	if err != nil {
		return err
	}

	row := map[string]interface{}{
		"name":         doc.Name,
		"document_url": doc.URL,
	}
	data, _, err := client.From(documentsTable).Insert(row, false, "", "representation", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	var inserted []documentRow
	if err := json.Unmarshal(data, &inserted); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(inserted) == 0 {
		return fmt.Errorf("insert returned no rows")
	}
	id := inserted[0].ID

	textRow := map[string]interface{}{
		"document_id":    id,
		"extracted_text": doc.ExtractedText,
	}
	if _, _, err := client.From(documentTextTable).Insert(textRow, false, "", "minimal", "").Execute(); err != nil {
		if _, _, delErr := client.From(documentsTable).Delete("minimal", "").Eq("id", strconv.FormatInt(id, 10)).Execute(); delErr != nil {
			r.logger.Error("Failed to remove orphan document row", delErr, "id", id)
		}
		return fmt.Errorf("failed to insert document text: %w", err)
	}

	doc.ID = id
	r.logger.Info("Document saved", "id", id, "name", doc.Name)
	return nil
}

func (r *SupabaseDocumentRepository) List(ctx context.Context) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	client, err := r.client()
	if err != nil {
		return nil, err
	}

	data, _, err := client.From(documentsTable).
		Select(documentColumns, "", false).
		Order("id", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get documents: %w", err)
	}
	return decodeDocuments(data)
}

func (r *SupabaseDocumentRepository) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	client, err := r.client()
	if err != nil {
		return nil, err
	}

	data, _, err := client.From(documentsTable).
		Select(documentColumns, "", false).
		Eq("id", strconv.FormatInt(id, 10)).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	docs, err := decodeDocuments(data)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, domain.ErrDocumentNotFound
	}
	return &docs[0], nil
}

func decodeDocuments(data []byte) ([]domain.Document, error) {
	var rows []documentRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	docs := make([]domain.Document, 0, len(rows))
	for _, row := range rows {
		text, err := embeddedText(row.Text)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", row.ID, err)
		}
		docs = append(docs, domain.Document{
			ID:            row.ID,
			Name:          row.Name,
			URL:           row.DocumentURL,
			ExtractedText: text,
		})
	}
	return docs, nil
}

// embeddedText reads the document_text embed, which PostgREST returns as an
// object for one-to-one relations and as an array otherwise.
func embeddedText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	if raw[0] == '[' {
		var rows []documentTextRow
		if err := json.Unmarshal(raw, &rows); err != nil {
			return "", fmt.Errorf("decode document_text: %w", err)
		}
		if len(rows) == 0 {
			return "", nil
		}
		return rows[0].ExtractedText, nil
	}
	var row documentTextRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return "", fmt.Errorf("decode document_text: %w", err)
	}
	return row.ExtractedText, nil
}
