package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/Simplici0/interior-estimator/internal/errors"
)

// unset clears key for the duration of the test. godotenv never overrides a
// variable that is present, even when empty.
func unset(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unsetenv %s: %v", key, err)
		}
	}
}

func writeDotEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	unset(t, "APP_ENV", "PORT", "DB_PATH", "CATALOG_FILE", "LOG_LEVEL", "LOG_FORMAT",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "CACHE_TTL", "SHUTDOWN_TIMEOUT")

	cfg, err := load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" || cfg.DBPath != "./dev.db" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.CacheTTL != 10*time.Minute || cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("unexpected durations: %+v", cfg)
	}
	if !cfg.IsDev() {
		t.Fatalf("default APP_ENV should be development")
	}
	if cfg.CacheEnabled() {
		t.Fatalf("cache should be disabled without REDIS_ADDR")
	}
}

func TestLoad_ReadsDotEnvAndIgnoresNoise(t *testing.T) {
	unset(t, "PORT", "DB_PATH", "CATALOG_FILE", "REDIS_ADDR")

	path := writeDotEnv(t, `
# comment

PORT=9090
export DB_PATH=/tmp/estimator.db
CATALOG_FILE="rates.hcl"
REDIS_ADDR='localhost:6379'
`)

	cfg, err := load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "9090" {
		t.Fatalf("Port=%q, want %q", cfg.Port, "9090")
	}
	if cfg.DBPath != "/tmp/estimator.db" {
		t.Fatalf("DBPath=%q, want %q", cfg.DBPath, "/tmp/estimator.db")
	}
	if cfg.CatalogFile != "rates.hcl" {
		t.Fatalf("CatalogFile=%q, want %q", cfg.CatalogFile, "rates.hcl")
	}
	if cfg.RedisAddr != "localhost:6379" || !cfg.CacheEnabled() {
		t.Fatalf("RedisAddr=%q, want %q", cfg.RedisAddr, "localhost:6379")
	}
}

func TestLoad_DoesNotOverwriteExistingEnv(t *testing.T) {
	t.Setenv("PORT", "7000")

	path := writeDotEnv(t, "PORT=9090\n")

	cfg, err := load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "7000" {
		t.Fatalf("Port=%q, want %q", cfg.Port, "7000")
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("CACHE_TTL", "soon")

	_, err := load(filepath.Join(t.TempDir(), "missing.env"))
	if !apperrors.IsType(err, apperrors.TypeConfig) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestIsDev(t *testing.T) {
	tests := map[string]bool{
		"development": true,
		"Dev":         true,
		"production":  false,
		"staging":     false,
	}
	for env, want := range tests {
		if got := (Config{AppEnv: env}).IsDev(); got != want {
			t.Fatalf("IsDev(%q) = %v, want %v", env, got, want)
		}
	}
}
