package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Simplici0/interior-estimator/internal/catalog"
	"github.com/Simplici0/interior-estimator/internal/db"
	apperrors "github.com/Simplici0/interior-estimator/internal/errors"
	"github.com/Simplici0/interior-estimator/internal/migrations"
	"github.com/Simplici0/interior-estimator/internal/seed"
)

func openMigrated(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "store-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := migrations.Up(ctx, database, zap.NewNop()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return database
}

func TestLoadCatalogRoundTripsSeed(t *testing.T) {
	database := openMigrated(t)
	ctx := context.Background()

	want, err := catalog.Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	if _, err := seed.Run(ctx, database, want); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := New(database, zap.NewNop()).LoadCatalog(ctx)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}

	if got.Len() != want.Len() {
		t.Fatalf("Len() = %d, want %d", got.Len(), want.Len())
	}
	for i, e := range got.Entries() {
		if e.ID != want.Entries()[i].ID {
			t.Fatalf("entry %d = %s, want %s", i, e.ID, want.Entries()[i].ID)
		}
	}
	if got.Fingerprint() != want.Fingerprint() {
		t.Fatalf("fingerprint changed after round trip")
	}

	wardrobe, _ := got.FindByID("wardrobe")
	if len(wardrobe.Options) != 4 || !wardrobe.DefaultEnabled {
		t.Fatalf("unexpected wardrobe: %+v", wardrobe)
	}
}

func TestLoadCatalogReadsTBD(t *testing.T) {
	database := openMigrated(t)
	ctx := context.Background()

	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	if _, err := seed.Run(ctx, database, cat); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := database.Exec(`UPDATE catalog_items SET rate_luxury = NULL WHERE id = 'doors'`); err != nil {
		t.Fatalf("edit rate: %v", err)
	}
	if _, err := database.Exec(`UPDATE city_multipliers SET multiplier = '1.15' WHERE city = 'Tier-1'`); err != nil {
		t.Fatalf("edit multiplier: %v", err)
	}

	got, err := New(database, zap.NewNop()).LoadCatalog(ctx)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}

	doors, _ := got.FindByID("doors")
	if !doors.Rates.Luxury.IsTBD() {
		t.Fatalf("luxury rate = %v, want TBD", doors.Rates.Luxury)
	}
	if m := got.Globals().CityMultiplier(catalog.CityTier1); !m.Equal(decimal.RequireFromString("1.15")) {
		t.Fatalf("Tier-1 multiplier = %s, want 1.15", m)
	}
}

func TestLoadCatalogWithoutGlobals(t *testing.T) {
	database := openMigrated(t)

	_, err := New(database, zap.NewNop()).LoadCatalog(context.Background())
	if !apperrors.IsType(err, apperrors.TypeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestLoadCatalogRejectsInvalidRows(t *testing.T) {
	database := openMigrated(t)
	ctx := context.Background()

	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	if _, err := seed.Run(ctx, database, cat); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := database.Exec(`UPDATE catalog_items SET section = 'garage' WHERE id = 'doors'`); err != nil {
		t.Fatalf("edit section: %v", err)
	}

	_, err = New(database, zap.NewNop()).LoadCatalog(ctx)
	if !apperrors.IsType(err, apperrors.TypeConfig) {
		t.Fatalf("expected config error, got %v", err)
	}
}
