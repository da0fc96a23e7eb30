package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("run_mode = %q, want %q", cfg.Telegram.RunMode, RunModeLongpoll)
	}
	if cfg.Store.Backend != BackendMemory {
		t.Errorf("store.backend = %q, want %q", cfg.Store.Backend, BackendMemory)
	}
	if cfg.Store.ExpensesSheet != "expenses" {
		t.Errorf("store.expenses_sheet = %q, want %q", cfg.Store.ExpensesSheet, "expenses")
	}
}

func TestLoadPollingAlias(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
  run_mode: polling
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("run_mode = %q, want %q", cfg.Telegram.RunMode, RunModeLongpoll)
	}
}

func TestNormalizeRejectsMissingToken(t *testing.T) {
	err := Normalize(&Config{})
	if err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestNormalizeWebhookRequiresURL(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.Token = "123:abc"
	cfg.Telegram.RunMode = "webhook"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing webhook.url")
	}
}

func TestNormalizeSheetsRequiresSpreadsheet(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.Token = "123:abc"
	cfg.Store.Backend = "sheets"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing spreadsheet id")
	}
}

func TestNormalizePostgresDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.Token = "123:abc"
	cfg.Store.Backend = "postgres"
	cfg.Database.Host = "localhost"
	cfg.Database.Name = "spendbot"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Database.SSLMode != "disable" {
		t.Errorf("sslmode = %q, want disable", cfg.Database.SSLMode)
	}
	if cfg.Database.MaxConnections != 4 {
		t.Errorf("max_connections = %d, want 4", cfg.Database.MaxConnections)
	}
}

func TestNormalizeInvalidBackend(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.Token = "123:abc"
	cfg.Store.Backend = "bigquery"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestNormalizeRateLimitExclusions(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.Token = "123:abc"
	cfg.RateLimit.ExcludeUpdates = []string{" Callback "}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.RateLimit.ExcludeUpdates[0] != UpdateCallback {
		t.Errorf("exclusion = %q, want %q", cfg.RateLimit.ExcludeUpdates[0], UpdateCallback)
	}

	cfg.RateLimit.ExcludeUpdates = []string{"poll"}
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for unknown exclusion")
	}
}
