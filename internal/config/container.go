package config

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"doc-manager/internal/domain"
	sbinfra "doc-manager/internal/infra/supabase"
	"doc-manager/internal/repository"
	"doc-manager/internal/service"
	"doc-manager/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config             domain.Config
	Logger             *logger.AppLogger
	SupabaseClient     domain.SupabaseClient
	DB                 *sql.DB
	DocumentRepository domain.DocumentRepository
	ObjectStore        domain.ObjectStore
	TextExtractor      domain.TextExtractor
	DocumentService    domain.DocumentService
	// FilesDir is non-empty when uploads are stored on local disk.
	FilesDir string
}

// NewContainer wires the stores and services selected by cfg.
func NewContainer(ctx context.Context, cfg domain.Config) (*Container, error) {
	appLogger, err := logger.NewLogger(cfg.GetEnvironment(), cfg.GetLogLevel())
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return newContainer(ctx, cfg, appLogger)
}

func newContainer(ctx context.Context, cfg domain.Config, appLogger *logger.AppLogger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: appLogger,
	}

	if SupabaseEnabled(cfg) {
		supabaseClient := sbinfra.NewSupabaseClient(cfg, appLogger)
		if err := supabaseClient.Initialize(); err != nil {
			return nil, err
		}
		c.SupabaseClient = supabaseClient
	}

	switch {
	case cfg.GetDatabaseURL() != "":
		db, err := repository.Connect(ctx, cfg.GetDatabaseURL(), repository.DefaultDBOptions())
		if err != nil {
			return nil, err
		}
		c.DB = db
		if cfg.GetRunMigrations() {
			if err := repository.RunMigrations(ctx, db); err != nil {
				db.Close()
				return nil, fmt.Errorf("run migrations: %w", err)
			}
			appLogger.Info("Database migrations applied")
		}
		c.DocumentRepository = repository.NewPostgresDocumentRepository(db, appLogger)
		appLogger.Info("Using Postgres document repository")
	case c.SupabaseClient != nil:
		c.DocumentRepository = repository.NewSupabaseDocumentRepository(c.SupabaseClient, appLogger)
		appLogger.Info("Using Supabase document repository")
	default:
		c.DocumentRepository = repository.NewMemoryDocumentRepository()
		appLogger.Warn("No database configured, documents are kept in memory")
	}

	if c.SupabaseClient != nil {
		c.ObjectStore = service.NewSupabaseStorage(c.SupabaseClient, cfg.GetSupabaseURL(), cfg.GetStorageBucket())
		appLogger.Info("Using Supabase storage", "bucket", cfg.GetStorageBucket())
	} else {
		if err := os.MkdirAll(cfg.GetUploadPath(), 0o755); err != nil {
			c.Close()
			return nil, fmt.Errorf("create upload dir: %w", err)
		}
		localStore := service.NewLocalStorage(cfg.GetUploadPath(), cfg.GetPublicBaseURL()+"/files")
		c.ObjectStore = localStore
		c.FilesDir = localStore.BaseDir()
		appLogger.Info("Using local storage", "path", cfg.GetUploadPath())
	}

	c.TextExtractor = newTextExtractor(cfg, appLogger)
	c.DocumentService = service.NewDocumentService(
		c.DocumentRepository,
		c.ObjectStore,
		c.TextExtractor,
		appLogger,
		cfg.GetMaxFileSize(),
	)

	return c, nil
}

var newRecognizer = service.NewTesseractRecognizer

// newTextExtractor chains OCR behind the text layer when enabled and compiled in.
func newTextExtractor(cfg domain.Config, appLogger *logger.AppLogger) domain.TextExtractor {
	textLayer := service.NewPDFTextExtractor(appLogger)
	if !cfg.GetOCREnabled() {
		return textLayer
	}

	recognizer, err := newRecognizer(cfg.GetOCRLanguage())
	if err != nil {
		appLogger.Warn("OCR requested but unavailable, using text layer only", "error", err)
		return textLayer
	}
	appLogger.Info("OCR fallback enabled", "language", cfg.GetOCRLanguage())
	return service.NewOCRFallbackExtractor(textLayer, recognizer, appLogger)
}

// Close releases the database pool and flushes the logger.
func (c *Container) Close() error {
	var err error
	if c.DB != nil {
		err = c.DB.Close()
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
	return err
}
