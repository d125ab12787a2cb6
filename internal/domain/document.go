package domain

import (
	"context"
	"io"
	"strings"
)

// Document is a stored PDF together with the text extracted from it.
type Document struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	URL           string `json:"url"`
	ExtractedText string `json:"extracted_text"`
}

// UploadResult is the payload returned by a successful upload.
type UploadResult struct {
	Message       string `json:"message"`
	PublicURL     string `json:"public_url"`
	ExtractedText string `json:"extracted_text"`
}

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// DocumentRepository defines persistence operations for documents.
type DocumentRepository interface {
	// Create stores the document and its extracted text and assigns doc.ID.
	Create(ctx context.Context, doc *Document) error
	// List returns every document, newest first.
	List(ctx context.Context) ([]Document, error)
	GetByID(ctx context.Context, id int64) (*Document, error)
}

// TextExtractor pulls plain text out of a PDF payload.
type TextExtractor interface {
	Extract(ctx context.Context, content []byte) (string, error)
}

// DocumentService defines the use-case operations for documents.
type DocumentService interface {
	Upload(ctx context.Context, originalName string, file io.Reader) (*UploadResult, error)
	ListDocuments(ctx context.Context, query string) ([]Document, error)
	GetDocument(ctx context.Context, id int64) (*Document, error)
}

// FilterDocuments keeps the documents whose name or extracted text contains
// term, ignoring case. An empty term returns docs unchanged.
func FilterDocuments(docs []Document, term string) []Document {
	if term == "" {
		return docs
	}
	needle := strings.ToLower(term)
	out := make([]Document, 0, len(docs))
	for _, doc := range docs {
		if strings.Contains(strings.ToLower(doc.Name), needle) ||
			strings.Contains(strings.ToLower(doc.ExtractedText), needle) {
			out = append(out, doc)
		}
	}
	return out
}
