package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/Simplici0/interior-estimator/internal/errors"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, err := New(Config{Level: "info", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Debug("hidden")
	logger.Info("estimate calculated")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one log line, got %d: %s", len(lines), data)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "estimate calculated" || entry["level"] != "info" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Fatalf("missing timestamp key: %v", entry)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	for _, cfg := range []Config{
		{Level: "loud"},
		{Level: "info", Format: "xml"},
	} {
		if _, err := New(cfg); !apperrors.IsType(err, apperrors.TypeConfig) {
			t.Fatalf("New(%+v) = %v, want config error", cfg, err)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	if _, err := New(DefaultConfig()); err != nil {
		t.Fatalf("New(DefaultConfig()): %v", err)
	}
}
