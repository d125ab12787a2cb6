package handler

import (
	"net/http"

	"doc-manager/internal/domain"
	"doc-manager/internal/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// RouterOptions configures the parts of the router that vary by deployment.
type RouterOptions struct {
	AllowedOrigins []string
	// FilesDir is served under /files/ when uploads are kept on local disk.
	FilesDir string
	Logger   domain.Logger
}

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(documentHandler *DocumentHandler, opts RouterOptions) http.Handler {
	router := mux.NewRouter()

	router.Use(
		RequestID(),
		Logging(opts.Logger),
		metrics.Middleware(),
		Recover(opts.Logger),
	)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "doc-manager"})
	}).Methods(http.MethodGet)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/upload", documentHandler.UploadDocument).Methods(http.MethodPost)
	api.HandleFunc("/documents", documentHandler.ListDocuments).Methods(http.MethodGet)
	api.HandleFunc("/documents/{id:[0-9]+}", documentHandler.GetDocument).Methods(http.MethodGet)

	if opts.FilesDir != "" {
		router.PathPrefix("/files/").
			Handler(http.StripPrefix("/files/", http.FileServer(http.Dir(opts.FilesDir)))).
			Methods(http.MethodGet, http.MethodHead)
	}

	router.HandleFunc("/", serveIndex).Methods(http.MethodGet)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			RequestIDHeader,
		},
		ExposedHeaders: []string{
			RequestIDHeader,
		},
		MaxAge: 300,
	})

	return c.Handler(router)
}
