package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"doc-manager/internal/domain"
)

func newTestRouter(t *testing.T, filesDir string) (http.Handler, *MockDocumentService) {
	t.Helper()
	svc := &MockDocumentService{documents: []domain.Document{
		{ID: 2, Name: "b.pdf", URL: "https://cdn.test/b.pdf", ExtractedText: "beta"},
		{ID: 1, Name: "a.pdf", URL: "https://cdn.test/a.pdf", ExtractedText: "alpha"},
	}}
	logger := NewMockHandlerLogger()
	documentHandler := NewDocumentHandler(svc, logger, 1<<20)
	router := NewRouter(documentHandler, RouterOptions{
		AllowedOrigins: []string{"http://localhost:3000"},
		FilesDir:       filesDir,
		Logger:         logger,
	})
	return router, svc
}

func TestNewRouter_Health(t *testing.T) {
	router, _ := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
	if rr.Header().Get(RequestIDHeader) == "" {
		t.Fatalf("expected a request id header")
	}
}

func TestNewRouter_Documents(t *testing.T) {
	router, _ := newTestRouter(t, "")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/documents", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var docs []domain.Document
	if err := json.Unmarshal(rr.Body.Bytes(), &docs); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/documents/1", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"name":"a.pdf"`) {
		t.Fatalf("unexpected single document response %d: %s", rr.Code, rr.Body.String())
	}
}

func TestNewRouter_UploadRequiresPost(t *testing.T) {
	router, svc := newTestRouter(t, "")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/upload", nil))

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status %d, got %d", http.StatusMethodNotAllowed, rr.Code)
	}
	if svc.uploadCalls != 0 {
		t.Fatalf("expected no upload")
	}
}

func TestNewRouter_CORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodOptions, "/api/upload", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}
}

func TestNewRouter_IndexPage(t *testing.T) {
	router, _ := newTestRouter(t, "")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("expected html content type, got %s", rr.Header().Get("Content-Type"))
	}
	if !strings.Contains(rr.Body.String(), "/api/upload") {
		t.Fatalf("expected the page to drive the upload endpoint")
	}
}

func TestNewRouter_ServesLocalFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "k1"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "k1", "my doc.pdf"), []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	router, _ := newTestRouter(t, dir)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/files/k1/my%20doc.pdf", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if rr.Body.String() != "%PDF-1.4" {
		t.Fatalf("unexpected file body %q", rr.Body.String())
	}
}

func TestNewRouter_FilesDisabledWithoutDir(t *testing.T) {
	router, _ := newTestRouter(t, "")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/files/k1/a.pdf", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}
