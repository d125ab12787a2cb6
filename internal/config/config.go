package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"doc-manager/internal/domain"

	"gopkg.in/yaml.v3"
)

const (
	defaultServerPort    = "8080"
	defaultEnvironment   = "dev"
	defaultUploadPath    = "./uploads"
	defaultMaxFileSize   = 50 * 1024 * 1024 // 50MB
	defaultLogLevel      = "info"
	defaultStorageBucket = "documents"
	defaultOCRLanguage   = "spa"
)

var defaultAllowedOrigins = []string{
	"http://localhost:3000", // React dev server
	"http://localhost:5173", // Vite dev server
}

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort     string   `yaml:"server_port"`
	Environment    string   `yaml:"environment"`
	UploadPath     string   `yaml:"upload_path"`
	MaxFileSize    int64    `yaml:"max_file_size"`
	LogLevel       string   `yaml:"log_level"`
	PublicBaseURL  string   `yaml:"public_base_url"`
	SupabaseURL    string   `yaml:"supabase_url"`
	SupabaseKey    string   `yaml:"supabase_key"`
	StorageBucket  string   `yaml:"storage_bucket"`
	DatabaseURL    string   `yaml:"database_url"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	RunMigrations  bool     `yaml:"run_migrations"`
	OCREnabled     bool     `yaml:"ocr_enabled"`
	OCRLanguage    string   `yaml:"ocr_language"`
}

// Load builds the configuration from defaults, the optional YAML file named by
// CONFIG_FILE and environment variables, in that order of precedence.
func Load() (domain.Config, error) {
	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	cfg.finalize()
	return cfg, nil
}

func defaults() *AppConfig {
	return &AppConfig{
		ServerPort:     defaultServerPort,
		Environment:    defaultEnvironment,
		UploadPath:     defaultUploadPath,
		MaxFileSize:    defaultMaxFileSize,
		LogLevel:       defaultLogLevel,
		StorageBucket:  defaultStorageBucket,
		OCRLanguage:    defaultOCRLanguage,
		AllowedOrigins: append([]string(nil), defaultAllowedOrigins...),
	}
}

func (c *AppConfig) loadFile(path string) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}

	data = expandEnvVars(data)

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func (c *AppConfig) applyEnv() {
	// Cloud Run (and many PaaS) provide the listening port via PORT.
	// Keep SERVER_PORT for local/dev compatibility.
	c.ServerPort = getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", c.ServerPort))
	c.Environment = getEnvOrDefault("APP_ENV", c.Environment)
	c.UploadPath = getEnvOrDefault("UPLOAD_PATH", c.UploadPath)
	c.MaxFileSize = getEnvInt64OrDefault("MAX_FILE_SIZE", c.MaxFileSize)
	c.LogLevel = getEnvOrDefault("LOG_LEVEL", c.LogLevel)
	c.PublicBaseURL = getEnvOrDefault("PUBLIC_BASE_URL", c.PublicBaseURL)
	c.SupabaseURL = getEnvOrDefault("SUPABASE_URL", c.SupabaseURL)
	c.SupabaseKey = getEnvOrDefault("SUPABASE_KEY", getEnvOrDefault("SUPABASE_ANON_KEY", c.SupabaseKey))
	c.StorageBucket = getEnvOrDefault("STORAGE_BUCKET", c.StorageBucket)
	c.DatabaseURL = getEnvOrDefault("DATABASE_URL", c.DatabaseURL)
	c.RunMigrations = getEnvBoolOrDefault("RUN_MIGRATIONS", c.RunMigrations)
	c.OCREnabled = getEnvBoolOrDefault("OCR_ENABLED", c.OCREnabled)
	c.OCRLanguage = getEnvOrDefault("OCR_LANGUAGE", c.OCRLanguage)
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.AllowedOrigins = splitList(origins)
	}
}

func (c *AppConfig) finalize() {
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = defaultMaxFileSize
	}
	if c.PublicBaseURL == "" {
		c.PublicBaseURL = "http://localhost:" + c.ServerPort
	}
	c.PublicBaseURL = strings.TrimRight(c.PublicBaseURL, "/")
	c.SupabaseURL = strings.TrimRight(c.SupabaseURL, "/")
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetEnvironment returns the deployment environment (dev, prod)
func (c *AppConfig) GetEnvironment() string {
	return c.Environment
}

// GetUploadPath returns the upload directory path
func (c *AppConfig) GetUploadPath() string {
	return c.UploadPath
}

// GetMaxFileSize returns the maximum allowed file size
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetPublicBaseURL returns the externally reachable base URL of this server
func (c *AppConfig) GetPublicBaseURL() string {
	return c.PublicBaseURL
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

// GetStorageBucket returns the bucket uploaded PDFs are written to
func (c *AppConfig) GetStorageBucket() string {
	return c.StorageBucket
}

// GetDatabaseURL returns the Postgres connection string
func (c *AppConfig) GetDatabaseURL() string {
	return c.DatabaseURL
}

// GetAllowedOrigins returns the CORS allow-list
func (c *AppConfig) GetAllowedOrigins() []string {
	return c.AllowedOrigins
}

// GetRunMigrations reports whether migrations run at startup
func (c *AppConfig) GetRunMigrations() bool {
	return c.RunMigrations
}

// GetOCREnabled reports whether image-only pages go through OCR
func (c *AppConfig) GetOCREnabled() bool {
	return c.OCREnabled
}

// GetOCRLanguage returns the tesseract language code
func (c *AppConfig) GetOCRLanguage() string {
	return c.OCRLanguage
}

// SupabaseEnabled reports whether both Supabase URL and key are configured.
func SupabaseEnabled(c domain.Config) bool {
	return c.GetSupabaseURL() != "" && c.GetSupabaseKey() != ""
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars substitutes ${VAR} references; unknown variables become empty.
func expandEnvVars(data []byte) []byte {
	return envVarPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		name := envVarPattern.FindSubmatch(match)[1]
		return []byte(os.Getenv(string(name)))
	})
}
