package migrations

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/Simplici0/interior-estimator/internal/db"
)

func TestUpDown(t *testing.T) {
	ctx := context.Background()
	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	logger := zap.NewNop()

	if err := Up(ctx, database, logger); err != nil {
		t.Fatalf("Up: %v", err)
	}
	// A second run has nothing to apply.
	if err := Up(ctx, database, logger); err != nil {
		t.Fatalf("Up (again): %v", err)
	}

	version, err := Version(ctx, database)
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if version != 1 {
		t.Fatalf("version = %d, want 1", version)
	}

	for _, table := range []string{"pricing_globals", "city_multipliers", "catalog_items"} {
		var name string
		err := database.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}

	if err := Down(ctx, database, logger); err != nil {
		t.Fatalf("Down: %v", err)
	}
	version, err = Version(ctx, database)
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if version != 0 {
		t.Fatalf("version after down = %d, want 0", version)
	}
}
