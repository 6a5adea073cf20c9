// Package seed writes a catalog into an empty or partially filled database.
package seed

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Simplici0/interior-estimator/internal/catalog"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	// Skipped counts rows that already existed and were left untouched.
	Skipped int
}

// Run seeds cat in an idempotent way. Existing rows win over the seed so
// rates edited in the database survive restarts.
func Run(ctx context.Context, db *sql.DB, cat *catalog.Catalog) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}
	globals := cat.Globals()

	if err := ensureGlobals(ctx, tx, globals, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureCityMultipliers(ctx, tx, globals, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	for i, entry := range cat.Entries() {
		if err := ensureItem(ctx, tx, i, entry, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureGlobals(ctx context.Context, tx *sql.Tx, g catalog.Globals, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM pricing_globals WHERE id = 1)`).Scan(&exists); err != nil {
		return fmt.Errorf("check pricing globals existence: %w", err)
	}
	if exists {
		stats.Skipped++
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO pricing_globals (
			id,
			currency,
			rounding,
			gst_percent,
			design_fee_type,
			design_fee_value,
			transport_fee_type,
			transport_fee_value,
			contingency_percent
		)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		g.Currency,
		string(g.Rounding),
		g.GSTPercent,
		string(g.DesignFee.Type),
		g.DesignFee.Value,
		string(g.TransportInstall.Type),
		g.TransportInstall.Value,
		g.ContingencyPercent,
	); err != nil {
		return fmt.Errorf("insert pricing globals singleton: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensureCityMultipliers(ctx context.Context, tx *sql.Tx, g catalog.Globals, stats *Stats) error {
	for _, city := range catalog.Cities {
		m, ok := g.CityMultipliers[city]
		if !ok {
			continue
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO city_multipliers (city, multiplier)
			VALUES (?, ?)
			ON CONFLICT (city) DO NOTHING
		`, string(city), m.String())
		if err != nil {
			return fmt.Errorf("insert city multiplier %s: %w", city, err)
		}
		if err := count(res, stats); err != nil {
			return err
		}
	}
	return nil
}

func ensureItem(ctx context.Context, tx *sql.Tx, position int, e catalog.Entry, stats *Stats) error {
	options, err := json.Marshal(nonNil(e.Options))
	if err != nil {
		return fmt.Errorf("encode options of %s: %w", e.ID, err)
	}
	dimensions, err := json.Marshal(nonNil(e.Dimensions))
	if err != nil {
		return fmt.Errorf("encode dimensions of %s: %w", e.ID, err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO catalog_items (
			id,
			position,
			label,
			section,
			unit,
			rate_premium,
			rate_luxury,
			default_area,
			default_quantity,
			default_enabled,
			notes,
			options,
			options_label,
			dimensions
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`,
		e.ID,
		position,
		e.Label,
		string(e.Section),
		string(e.Unit),
		e.Rates.Premium,
		e.Rates.Luxury,
		e.DefaultArea,
		e.DefaultQuantity,
		e.DefaultEnabled,
		e.Notes,
		string(options),
		e.OptionsLabel,
		string(dimensions),
	)
	if err != nil {
		return fmt.Errorf("insert catalog item %s: %w", e.ID, err)
	}
	return count(res, stats)
}

func count(res sql.Result, stats *Stats) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows: %w", err)
	}
	if n == 0 {
		stats.Skipped++
		return nil
	}
	stats.Inserts += int(n)
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
