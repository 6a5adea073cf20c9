// Package store reads the persisted rate catalog.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Simplici0/interior-estimator/internal/catalog"
	apperrors "github.com/Simplici0/interior-estimator/internal/errors"
)

// Store loads catalogs from SQLite.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// New returns a Store reading from db.
func New(db *sql.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// LoadCatalog reads globals, city multipliers and items, in position
// order, and validates them into a Catalog.
func (s *Store) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	globals, err := s.loadGlobals(ctx)
	if err != nil {
		return nil, err
	}
	if globals.CityMultipliers, err = s.loadCityMultipliers(ctx); err != nil {
		return nil, err
	}
	entries, err := s.loadItems(ctx)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.New(globals, entries)
	if err != nil {
		return nil, err
	}

	s.logger.Info("catalog loaded",
		zap.Int("items", cat.Len()),
		zap.String("fingerprint", cat.Fingerprint()),
	)
	return cat, nil
}

func (s *Store) loadGlobals(ctx context.Context) (catalog.Globals, error) {
	var g catalog.Globals
	var rounding, designType, transportType string
	err := s.db.QueryRowContext(ctx, `
		SELECT
			currency,
			rounding,
			gst_percent,
			design_fee_type,
			design_fee_value,
			transport_fee_type,
			transport_fee_value,
			contingency_percent
		FROM pricing_globals
		WHERE id = 1
	`).Scan(
		&g.Currency,
		&rounding,
		&g.GSTPercent,
		&designType,
		&g.DesignFee.Value,
		&transportType,
		&g.TransportInstall.Value,
		&g.ContingencyPercent,
	)
	if stderrors.Is(err, sql.ErrNoRows) {
		return catalog.Globals{}, apperrors.NotFound("pricing globals", "1")
	}
	if err != nil {
		return catalog.Globals{}, fmt.Errorf("query pricing globals: %w", err)
	}

	g.Rounding = catalog.Rounding(rounding)
	g.DesignFee.Type = catalog.FeeType(designType)
	g.TransportInstall.Type = catalog.FeeType(transportType)
	return g, nil
}

func (s *Store) loadCityMultipliers(ctx context.Context) (map[catalog.City]decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT city, multiplier FROM city_multipliers ORDER BY city`)
	if err != nil {
		return nil, fmt.Errorf("query city multipliers: %w", err)
	}
	defer rows.Close()

	out := make(map[catalog.City]decimal.Decimal)
	for rows.Next() {
		var (
			city string
			m    decimal.Decimal
		)
		if err := rows.Scan(&city, &m); err != nil {
			return nil, fmt.Errorf("scan city multiplier: %w", err)
		}
		out[catalog.City(city)] = m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate city multipliers: %w", err)
	}
	return out, nil
}

func (s *Store) loadItems(ctx context.Context) ([]catalog.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			id,
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
		FROM catalog_items
		ORDER BY position ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query catalog items: %w", err)
	}
	defer rows.Close()

	var entries []catalog.Entry
	for rows.Next() {
		var (
			e                   catalog.Entry
			section, unit       string
			options, dimensions string
		)
		if err := rows.Scan(
			&e.ID,
			&e.Label,
			&section,
			&unit,
			&e.Rates.Premium,
			&e.Rates.Luxury,
			&e.DefaultArea,
			&e.DefaultQuantity,
			&e.DefaultEnabled,
			&e.Notes,
			&options,
			&e.OptionsLabel,
			&dimensions,
		); err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		e.Section = catalog.Section(section)
		e.Unit = catalog.Unit(unit)
		if e.Options, err = decodeList(options); err != nil {
			return nil, fmt.Errorf("decode options of %s: %w", e.ID, err)
		}
		if e.Dimensions, err = decodeList(dimensions); err != nil {
			return nil, fmt.Errorf("decode dimensions of %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog items: %w", err)
	}
	return entries, nil
}

func decodeList(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}
