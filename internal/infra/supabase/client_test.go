package supabase_test

import (
	"testing"

	"doc-manager/internal/config"
	sbinfra "doc-manager/internal/infra/supabase"
	"doc-manager/pkg/logger"
)

func TestInitialize_RequiresCredentials(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_KEY", "")
	t.Setenv("SUPABASE_ANON_KEY", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	client := sbinfra.NewSupabaseClient(cfg, logger.NewNop())
	if err := client.Initialize(); err == nil {
		t.Fatalf("expected error when credentials are missing")
	}
	if client.DB() != nil {
		t.Fatalf("expected no client before a successful Initialize")
	}
}
