// Package view holds the client-side state of the document screen: the
// selected file, the last upload outcome and the searchable document list.
package view

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"doc-manager/internal/client"
	"doc-manager/internal/domain"
)

const uploadErrorMessage = "Error uploading file"

var (
	ErrNoFileSelected   = errors.New("no file selected")
	ErrUploadInProgress = errors.New("upload already in progress")
)

// API is the subset of the HTTP client the view drives.
type API interface {
	Upload(ctx context.Context, filename string, content io.Reader) (*domain.UploadResult, error)
	ListDocuments(ctx context.Context) ([]domain.Document, error)
}

type selectedFile struct {
	name    string
	content []byte
}

// DocumentView is safe for concurrent use.
type DocumentView struct {
	api    API
	logger domain.Logger

	mu            sync.Mutex
	file          *selectedFile
	loading       bool
	message       string
	publicURL     string
	extractedText string
	documents     []domain.Document
	search        string
}

func NewDocumentView(api API, logger domain.Logger) *DocumentView {
	return &DocumentView{
		api:       api,
		logger:    logger,
		documents: []domain.Document{},
	}
}

// SelectFile replaces the file the next Submit will send.
func (v *DocumentView) SelectFile(name string, content []byte) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.file = &selectedFile{name: name, content: content}
}

func (v *DocumentView) ClearFile() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.file = nil
}

// CanSubmit reports whether the upload control should be enabled.
func (v *DocumentView) CanSubmit() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.file != nil && !v.loading
}

// Submit uploads the selected file and, on success, refreshes the list once.
// On failure only the message changes.
func (v *DocumentView) Submit(ctx context.Context) error {
	v.mu.Lock()
	if v.file == nil {
		v.mu.Unlock()
		return ErrNoFileSelected
	}
	if v.loading {
		v.mu.Unlock()
		return ErrUploadInProgress
	}
	v.loading = true
	file := *v.file
	v.mu.Unlock()

	result, err := v.api.Upload(ctx, file.name, bytes.NewReader(file.content))

	v.mu.Lock()
	if err != nil {
		v.loading = false
		v.message = failureMessage(err)
		v.mu.Unlock()
		v.logger.Error("Error uploading file", err, "name", file.name)
		return err
	}
	v.message = result.Message
	v.publicURL = result.PublicURL
	v.extractedText = result.ExtractedText
	v.mu.Unlock()

	// loading stays set until the list has been refreshed.
	_ = v.Refresh(ctx)

	v.mu.Lock()
	v.loading = false
	v.mu.Unlock()
	return nil
}

// Refresh replaces the document list with the server's. Failures are logged
// and leave the current list in place. Overlapping refreshes are not
// ordered; whichever response arrives last wins.
func (v *DocumentView) Refresh(ctx context.Context) error {
	docs, err := v.api.ListDocuments(ctx)
	if err != nil {
		v.logger.Error("Error fetching documents", err)
		return err
	}
	if docs == nil {
		docs = []domain.Document{}
	}

	v.mu.Lock()
	v.documents = docs
	v.mu.Unlock()
	return nil
}

func (v *DocumentView) SetSearch(term string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.search = term
}

// Visible returns the documents matching the current search term.
func (v *DocumentView) Visible() []domain.Document {
	v.mu.Lock()
	defer v.mu.Unlock()
	filtered := domain.FilterDocuments(v.documents, v.search)
	return append([]domain.Document(nil), filtered...)
}

func (v *DocumentView) Documents() []domain.Document {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]domain.Document(nil), v.documents...)
}

func (v *DocumentView) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

func (v *DocumentView) Message() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.message
}

func (v *DocumentView) PublicURL() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.publicURL
}

func (v *DocumentView) ExtractedText() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.extractedText
}

func (v *DocumentView) Search() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.search
}

func failureMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return uploadErrorMessage + ": " + apiErr.Message
	}
	return uploadErrorMessage
}
