package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"doc-manager/internal/domain"
	"doc-manager/internal/metrics"
	apperrors "doc-manager/pkg/errors"

	"github.com/google/uuid"
)

const (
	uploadSuccessMessage = "File uploaded and processed successfully"
	pdfContentType       = "application/pdf"
	pdfMagic             = "%PDF-"
	// PDF readers accept the header anywhere in the first kilobyte.
	pdfMagicWindow = 1024
)

type DocumentService struct {
	repo        domain.DocumentRepository
	store       domain.ObjectStore
	extractor   domain.TextExtractor
	logger      domain.Logger
	maxFileSize int64
	newKey      func(name string) string
}

func NewDocumentService(
	repo domain.DocumentRepository,
	store domain.ObjectStore,
	extractor domain.TextExtractor,
	logger domain.Logger,
	maxFileSize int64,
) *DocumentService {
	return &DocumentService{
		repo:        repo,
		store:       store,
		extractor:   extractor,
		logger:      logger,
		maxFileSize: maxFileSize,
		newKey: func(name string) string {
			return uuid.NewString() + "/" + name
		},
	}
}

// Upload stores the PDF, extracts its text and records both.
func (s *DocumentService) Upload(ctx context.Context, originalName string, file io.Reader) (*domain.UploadResult, error) {
	name := SanitizeFileName(originalName)
	if name == "" {
		metrics.RecordUpload(metrics.UploadRejected)
		return nil, apperrors.NewValidationError("No selected file")
	}
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		metrics.RecordUpload(metrics.UploadRejected)
		return nil, apperrors.NewValidationError("Only PDF files are allowed", name)
	}

	content, err := s.readLimited(file)
	if err != nil {
		metrics.RecordUpload(metrics.UploadRejected)
		return nil, err
	}
	if !isPDF(content) {
		metrics.RecordUpload(metrics.UploadRejected)
		return nil, apperrors.NewValidationError("File is not a valid PDF", name)
	}
	metrics.ObserveUploadSize(len(content))

	stored, err := s.store.Put(ctx, s.newKey(name), bytes.NewReader(content), int64(len(content)), pdfContentType)
	if err != nil {
		s.logger.Error("Failed to upload file to storage", err, "name", name)
		metrics.RecordUpload(metrics.UploadStorageFailed)
		return nil, apperrors.NewStorageError("Error uploading to storage", err)
	}
	s.logger.Info("File stored", "name", name, "key", stored.Key, "size", stored.Size)

	text, err := s.extractor.Extract(ctx, content)
	if err != nil {
		s.logger.Error("Failed to extract text", err, "name", name, "key", stored.Key)
		metrics.RecordUpload(metrics.UploadExtractionFailed)
		return nil, apperrors.NewExtractionError("Error in text extraction", err)
	}

	doc := &domain.Document{
		Name:          name,
		URL:           stored.PublicURL,
		ExtractedText: text,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		s.logger.Error("Failed to save document", err, "name", name, "key", stored.Key)
		metrics.RecordUpload(metrics.UploadSaveFailed)
		return nil, apperrors.NewPersistenceError("Error saving to database", err)
	}

	s.logger.Info("Document processed", "id", doc.ID, "name", name, "chars", len(text))
	metrics.RecordUpload(metrics.UploadSucceeded)

	return &domain.UploadResult{
		Message:       uploadSuccessMessage,
		PublicURL:     stored.PublicURL,
		ExtractedText: text,
	}, nil
}

func (s *DocumentService) ListDocuments(ctx context.Context, query string) ([]domain.Document, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list documents", err)
		return nil, apperrors.NewPersistenceError("Error fetching documents", err)
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return domain.FilterDocuments(docs, query), nil
}

func (s *DocumentService) GetDocument(ctx context.Context, id int64) (*domain.Document, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			return nil, apperrors.NewNotFoundError("Document not found")
		}
		s.logger.Error("Failed to get document", err, "id", id)
		return nil, apperrors.NewPersistenceError("Error fetching document", err)
	}
	return doc, nil
}

func (s *DocumentService) readLimited(file io.Reader) ([]byte, error) {
	if s.maxFileSize <= 0 {
		content, err := io.ReadAll(file)
		if err != nil {
			return nil, apperrors.NewInternalError("Error reading upload", err)
		}
		return content, nil
	}

	content, err := io.ReadAll(io.LimitReader(file, s.maxFileSize+1))
	if err != nil {
		return nil, apperrors.NewInternalError("Error reading upload", err)
	}
	if int64(len(content)) > s.maxFileSize {
		return nil, apperrors.NewTooLargeError(
			fmt.Sprintf("File exceeds the maximum size of %d bytes", s.maxFileSize),
			domain.ErrFileTooLarge,
		)
	}
	return content, nil
}

// SanitizeFileName strips any client supplied directory from name.
func SanitizeFileName(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	base := filepath.Base(filepath.FromSlash(name))
	switch base {
	case ".", "..", string(filepath.Separator):
		return ""
	}
	return base
}

func isPDF(content []byte) bool {
	head := content
	if len(head) > pdfMagicWindow {
		head = head[:pdfMagicWindow]
	}
	return bytes.Contains(head, []byte(pdfMagic))
}
