package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddleware_RecordsDurationAndCount(t *testing.T) {
	r := mux.NewRouter()
	r.Use(Middleware())
	r.HandleFunc("/api/documents", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("[]"))
	}).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, "/api/documents", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	requestsVal := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/documents", "200"))
	if requestsVal < 1 {
		t.Errorf("expected http_requests_total >= 1, got %f", requestsVal)
	}

	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds to have observations")
	}
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	r := mux.NewRouter()
	r.Use(Middleware())
	r.HandleFunc("/api/documents/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	for _, id := range []string{"1", "2", "3"} {
		req := httptest.NewRequest(http.MethodGet, "/api/documents/"+id, http.NoBody)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/documents/{id:[0-9]+}", "404"))
	if got < 3 {
		t.Fatalf("expected 3 requests under the template label, got %f", got)
	}
}

func TestRecordUpload(t *testing.T) {
	before := testutil.ToFloat64(uploadsTotal.WithLabelValues(UploadSucceeded))
	RecordUpload(UploadSucceeded)
	ObserveUploadSize(2048)

	after := testutil.ToFloat64(uploadsTotal.WithLabelValues(UploadSucceeded))
	if after != before+1 {
		t.Fatalf("expected counter to increase by 1, got %f -> %f", before, after)
	}
	if testutil.CollectAndCount(uploadBytes) == 0 {
		t.Fatalf("expected upload size histogram to be collected")
	}
}
