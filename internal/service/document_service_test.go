package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"doc-manager/internal/domain"
	apperrors "doc-manager/pkg/errors"
)

var _ domain.DocumentService = (*DocumentService)(nil)

const samplePDF = "%PDF-1.4\n1 0 obj\n<<>>\nendobj\n%%EOF\n"

// Mock implementations for testing
type MockDocumentRepository struct {
	mu        sync.Mutex
	documents []domain.Document
	createErr error
	listErr   error
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	doc.ID = int64(len(m.documents) + 1)
	m.documents = append([]domain.Document{*doc}, m.documents...)
	return nil
}

func (m *MockDocumentRepository) List(ctx context.Context) ([]domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]domain.Document(nil), m.documents...), nil
}

func (m *MockDocumentRepository) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, doc := range m.documents {
		if doc.ID == id {
			d := doc
			return &d, nil
		}
	}
	return nil, domain.ErrDocumentNotFound
}

type MockObjectStore struct {
	putErr error
	keys   []string
	bodies []string
}

func (m *MockObjectStore) Put(ctx context.Context, key string, content io.Reader, size int64, contentType string) (*domain.StoredFile, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}
	m.keys = append(m.keys, key)
	m.bodies = append(m.bodies, string(data))
	return &domain.StoredFile{Key: key, PublicURL: "https://cdn.test/" + key, Size: size}, nil
}

type MockTextExtractor struct {
	text  string
	err   error
	calls int
}

func (m *MockTextExtractor) Extract(ctx context.Context, content []byte) (string, error) {
	m.calls++
	return m.text, m.err
}

type MockLogger struct {
	mu     sync.Mutex
	errors []string
}

func (l *MockLogger) Info(msg string, fields ...interface{})  {}
func (l *MockLogger) Debug(msg string, fields ...interface{}) {}
func (l *MockLogger) Warn(msg string, fields ...interface{})  {}
func (l *MockLogger) Error(msg string, err error, fields ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func newTestService(repo *MockDocumentRepository, store *MockObjectStore, extractor *MockTextExtractor) (*DocumentService, *MockLogger) {
	logger := &MockLogger{}
	svc := NewDocumentService(repo, store, extractor, logger, 1024)
	svc.newKey = func(name string) string { return "fixed/" + name }
	return svc, logger
}

func TestDocumentService_Upload_Success(t *testing.T) {
	repo := &MockDocumentRepository{}
	store := &MockObjectStore{}
	extractor := &MockTextExtractor{text: "Hola mundo"}
	svc, _ := newTestService(repo, store, extractor)

	result, err := svc.Upload(context.Background(), "reports/q1.pdf", strings.NewReader(samplePDF))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if result.Message != "File uploaded and processed successfully" {
		t.Errorf("unexpected message %q", result.Message)
	}
	if result.PublicURL != "https://cdn.test/fixed/q1.pdf" {
		t.Errorf("unexpected public url %q", result.PublicURL)
	}
	if result.ExtractedText != "Hola mundo" {
		t.Errorf("unexpected extracted text %q", result.ExtractedText)
	}
	if len(store.bodies) != 1 || store.bodies[0] != samplePDF {
		t.Fatalf("expected the PDF to be stored once, got %v", store.bodies)
	}

	docs, _ := repo.List(context.Background())
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if docs[0].Name != "q1.pdf" || docs[0].URL != result.PublicURL || docs[0].ExtractedText != "Hola mundo" {
		t.Errorf("unexpected stored document %+v", docs[0])
	}
}

func TestDocumentService_Upload_Validation(t *testing.T) {
	tests := []struct {
		name       string
		filename   string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{name: "Empty filename", filename: "", body: samplePDF, wantStatus: http.StatusBadRequest, wantMsg: "No selected file"},
		{name: "Wrong extension", filename: "notes.txt", body: samplePDF, wantStatus: http.StatusBadRequest, wantMsg: "Only PDF files are allowed"},
		{name: "Not a PDF", filename: "fake.pdf", body: "hello world", wantStatus: http.StatusBadRequest, wantMsg: "File is not a valid PDF"},
		{name: "Too large", filename: "big.pdf", body: samplePDF + strings.Repeat("x", 2048), wantStatus: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &MockObjectStore{}
			extractor := &MockTextExtractor{}
			svc, _ := newTestService(&MockDocumentRepository{}, store, extractor)

			_, err := svc.Upload(context.Background(), tt.filename, strings.NewReader(tt.body))
			if err == nil {
				t.Fatalf("expected error")
			}
			if got := apperrors.GetStatusCode(err); got != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, got)
			}
			if tt.wantMsg != "" && apperrors.PublicMessage(err) != tt.wantMsg {
				t.Errorf("expected message %q, got %q", tt.wantMsg, apperrors.PublicMessage(err))
			}
			if len(store.keys) != 0 || extractor.calls != 0 {
				t.Errorf("rejected upload must not reach storage or extraction")
			}
		})
	}
}

func TestDocumentService_Upload_Failures(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name      string
		repo      *MockDocumentRepository
		store     *MockObjectStore
		extractor *MockTextExtractor
		wantMsg   string
	}{
		{
			name:      "Storage failure",
			repo:      &MockDocumentRepository{},
			store:     &MockObjectStore{putErr: boom},
			extractor: &MockTextExtractor{},
			wantMsg:   "Error uploading to storage",
		},
		{
			name:      "Extraction failure",
			repo:      &MockDocumentRepository{},
			store:     &MockObjectStore{},
			extractor: &MockTextExtractor{err: boom},
			wantMsg:   "Error in text extraction",
		},
		{
			name:      "Persistence failure",
			repo:      &MockDocumentRepository{createErr: boom},
			store:     &MockObjectStore{},
			extractor: &MockTextExtractor{text: "x"},
			wantMsg:   "Error saving to database",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, logger := newTestService(tt.repo, tt.store, tt.extractor)

			_, err := svc.Upload(context.Background(), "doc.pdf", strings.NewReader(samplePDF))
			if err == nil {
				t.Fatalf("expected error")
			}
			if apperrors.GetStatusCode(err) != http.StatusInternalServerError {
				t.Errorf("expected 500, got %d", apperrors.GetStatusCode(err))
			}
			if apperrors.PublicMessage(err) != tt.wantMsg {
				t.Errorf("expected message %q, got %q", tt.wantMsg, apperrors.PublicMessage(err))
			}
			if !errors.Is(err, boom) {
				t.Errorf("expected cause to be preserved")
			}
			if len(logger.errors) != 1 {
				t.Errorf("expected one error log, got %v", logger.errors)
			}
			docs, _ := tt.repo.List(context.Background())
			if len(docs) != 0 {
				t.Errorf("expected no stored documents, got %d", len(docs))
			}
		})
	}
}

func TestDocumentService_ListDocuments(t *testing.T) {
	repo := &MockDocumentRepository{}
	svc, _ := newTestService(repo, &MockObjectStore{}, &MockTextExtractor{})

	docs, err := svc.ListDocuments(context.Background(), "")
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if docs == nil || len(docs) != 0 {
		t.Fatalf("expected an empty non-nil list, got %#v", docs)
	}

	_ = repo.Create(context.Background(), &domain.Document{Name: "alpha.pdf", ExtractedText: "first"})
	_ = repo.Create(context.Background(), &domain.Document{Name: "beta.pdf", ExtractedText: "Second"})

	docs, _ = svc.ListDocuments(context.Background(), "")
	if len(docs) != 2 || docs[0].Name != "beta.pdf" {
		t.Fatalf("expected newest first, got %+v", docs)
	}

	docs, _ = svc.ListDocuments(context.Background(), "SECOND")
	if len(docs) != 1 || docs[0].Name != "beta.pdf" {
		t.Fatalf("expected filtered result, got %+v", docs)
	}
}

func TestDocumentService_ListDocuments_Error(t *testing.T) {
	repo := &MockDocumentRepository{listErr: errors.New("db down")}
	svc, _ := newTestService(repo, &MockObjectStore{}, &MockTextExtractor{})

	_, err := svc.ListDocuments(context.Background(), "")
	if !apperrors.IsType(err, apperrors.ErrorTypePersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

func TestDocumentService_GetDocument(t *testing.T) {
	repo := &MockDocumentRepository{}
	svc, _ := newTestService(repo, &MockObjectStore{}, &MockTextExtractor{})
	_ = repo.Create(context.Background(), &domain.Document{Name: "alpha.pdf"})

	doc, err := svc.GetDocument(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if doc.Name != "alpha.pdf" {
		t.Errorf("expected alpha.pdf, got %s", doc.Name)
	}

	_, err = svc.GetDocument(context.Background(), 99)
	if apperrors.GetStatusCode(err) != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := map[string]string{
		"report.pdf":             "report.pdf",
		"  report.pdf ":          "report.pdf",
		"a/b/report.pdf":         "report.pdf",
		`C:\Users\me\report.pdf`: "report.pdf",
		"../../etc/passwd.pdf":   "passwd.pdf",
		"":                       "",
		"..":                     "",
		"/":                      "",
		"   ":                    "",
		"a/":                     "a",
		"report..v2.pdf":         "report..v2.pdf",
		"scans/final..pdf":       "final..pdf",
	}
	for in, want := range tests {
		if got := SanitizeFileName(in); got != want {
			t.Errorf("SanitizeFileName(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestDocumentService_Upload_DotsInNameWithLocalStorage(t *testing.T) {
	repo := &MockDocumentRepository{}
	store := NewLocalStorage(t.TempDir(), "http://localhost:8080/files")
	svc := NewDocumentService(repo, store, &MockTextExtractor{text: "v2"}, &MockLogger{}, 1024)

	result, err := svc.Upload(context.Background(), "report..v2.pdf", strings.NewReader(samplePDF))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasSuffix(result.PublicURL, "/report..v2.pdf") {
		t.Fatalf("unexpected public url %q", result.PublicURL)
	}

	docs, _ := repo.List(context.Background())
	if len(docs) != 1 || docs[0].Name != "report..v2.pdf" {
		t.Fatalf("unexpected documents %+v", docs)
	}
}

func TestIsPDF(t *testing.T) {
	if !isPDF([]byte(samplePDF)) {
		t.Errorf("expected header at offset 0 to match")
	}
	if !isPDF([]byte("\xef\xbb\xbf" + samplePDF)) {
		t.Errorf("expected header after a BOM to match")
	}
	if isPDF([]byte(strings.Repeat(" ", 2000) + samplePDF)) {
		t.Errorf("expected header past the first kilobyte to be rejected")
	}
}
