package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/Simplici0/interior-estimator/internal/errors"
	"github.com/Simplici0/interior-estimator/internal/pricing"
)

const wardrobeRequest = `{
	"carpetArea": 1000,
	"city": "Tier-1",
	"model": "premium",
	"bedrooms": 2,
	"selectedItems": {"wardrobe": {"enabled": true}}
}`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestEstimateTableFromStdin(t *testing.T) {
	out, err := run(t, wardrobeRequest, "estimate")
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}

	for _, want := range []string{"Bedrooms", "Wardrobe", "₹1,23,000", "₹1,64,000", "1 items"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEstimateJSONFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.json")
	if err := os.WriteFile(path, []byte(wardrobeRequest), 0o600); err != nil {
		t.Fatalf("write request: %v", err)
	}

	out, err := run(t, "", "estimate", "--format", "json", path)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}

	var resp pricing.Response
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if resp.Subtotals.Bedrooms != 123000 || resp.GrandTotal != 164000 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestEstimateValidationError(t *testing.T) {
	_, err := run(t, `{"carpetArea": -1}`, "estimate")
	if !apperrors.IsType(err, apperrors.TypeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestEstimateRejectsUnknownFormat(t *testing.T) {
	if _, err := run(t, wardrobeRequest, "estimate", "--format", "xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestCatalogListSection(t *testing.T) {
	out, err := run(t, "", "catalog", "list", "--section", "kitchen")
	if err != nil {
		t.Fatalf("catalog list: %v", err)
	}
	if !strings.Contains(out, "base_unit") || !strings.Contains(out, "120 sqft") {
		t.Fatalf("kitchen listing missing base_unit:\n%s", out)
	}
	if strings.Contains(out, "wardrobe") {
		t.Fatalf("kitchen listing includes bedroom items:\n%s", out)
	}

	if _, err := run(t, "", "catalog", "list", "--section", "garage"); err == nil {
		t.Fatalf("expected error for unknown section")
	}
}

func TestCatalogValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.hcl")
	src := `
item "doors" {
  label   = "Doors"
  section = "pooja"
  unit    = "each"
  rate    = { premium = 11000, luxury = "TBD" }
}
`
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	out, err := run(t, "", "catalog", "validate", path)
	if err != nil {
		t.Fatalf("catalog validate: %v", err)
	}
	if !strings.Contains(out, "1 items") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestSeedThenEstimateFromDB(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cli.db")

	out, err := run(t, "", "--db", dbPath, "seed")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !strings.Contains(out, "21 inserted") {
		t.Fatalf("unexpected first seed output: %s", out)
	}

	out, err = run(t, "", "--db", dbPath, "seed")
	if err != nil {
		t.Fatalf("reseed: %v", err)
	}
	if !strings.Contains(out, "0 inserted") {
		t.Fatalf("unexpected second seed output: %s", out)
	}

	out, err = run(t, wardrobeRequest, "--db", dbPath, "estimate", "--format", "json")
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	var resp pricing.Response
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if resp.GrandTotal != 164000 {
		t.Fatalf("grandTotal = %v, want 164000", resp.GrandTotal)
	}

	out, err = run(t, "", "--db", dbPath, "migrate", "version")
	if err != nil {
		t.Fatalf("migrate version: %v", err)
	}
	if !strings.Contains(out, "schema version 1") {
		t.Fatalf("unexpected version output: %s", out)
	}
}

func TestMigrateRequiresDB(t *testing.T) {
	_, err := run(t, "", "migrate", "up")
	if !errors.Is(err, errNoDB) {
		t.Fatalf("expected errNoDB, got %v", err)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "estimator version") {
		t.Fatalf("unexpected output: %s", out)
	}
}
