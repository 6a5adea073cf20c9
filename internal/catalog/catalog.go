// Package catalog holds the immutable rate table the pricing engine prices
// selections against, together with the global fee, tax and rounding policy.
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"maps"
	"slices"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	apperrors "github.com/Simplici0/interior-estimator/internal/errors"
)

const defaultCurrency = "INR"

// Entry is one purchasable line item.
type Entry struct {
	ID              string              `json:"id"`
	Label           string              `json:"label"`
	Section         Section             `json:"section"`
	Unit            Unit                `json:"unit"`
	Rates           Rates               `json:"rate"`
	DefaultArea     decimal.NullDecimal `json:"defaultAreaSqft"`
	DefaultQuantity decimal.NullDecimal `json:"defaultQty"`
	DefaultEnabled  bool                `json:"defaultEnabled"`
	Notes           string              `json:"notes,omitempty"`
	Options         []string            `json:"options,omitempty"`
	OptionsLabel    string              `json:"optionsLabel,omitempty"`
	Dimensions      []string            `json:"dimensions,omitempty"`
}

// Globals is the fee, tax and rounding policy shared by every estimate.
type Globals struct {
	Currency           string                   `json:"currency"`
	Rounding           Rounding                 `json:"rounding"`
	CityMultipliers    map[City]decimal.Decimal `json:"cityMultiplier"`
	GSTPercent         Amount                   `json:"gstPercent"`
	DesignFee          Fee                      `json:"designFee"`
	TransportInstall   Fee                      `json:"transportInstall"`
	ContingencyPercent Amount                   `json:"contingencyPercent"`
}

// CityMultiplier returns the regional factor for c. Unconfigured cities use 1.
func (g Globals) CityMultiplier(c City) decimal.Decimal {
	if m, ok := g.CityMultipliers[c]; ok {
		return m
	}
	return decimal.NewFromInt(1)
}

// Catalog is a validated, read-only rate table indexed by item id.
// A Catalog is safe for concurrent use.
type Catalog struct {
	globals     Globals
	entries     []Entry
	index       map[string]int
	fingerprint string
}

// New validates globals and entries and builds the id index. Entries keep
// the order they are given in.
func New(globals Globals, entries []Entry) (*Catalog, error) {
	if globals.Currency == "" {
		globals.Currency = defaultCurrency
	}
	if globals.Rounding == "" {
		globals.Rounding = RoundingNone
	}
	if globals.DesignFee.Type == "" {
		globals.DesignFee.Type = FeeNone
	}
	if globals.TransportInstall.Type == "" {
		globals.TransportInstall.Type = FeeNone
	}
	globals.CityMultipliers = maps.Clone(globals.CityMultipliers)

	var problems []error
	problems = append(problems, validateGlobals(globals)...)

	c := &Catalog{
		globals: globals,
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if errs := validateEntry(e); len(errs) > 0 {
			problems = append(problems, errs...)
			continue
		}
		if _, dup := c.index[e.ID]; dup {
			problems = append(problems, fmt.Errorf("item %q: duplicate id", e.ID))
			continue
		}
		e.Options = slices.Clone(e.Options)
		e.Dimensions = slices.Clone(e.Dimensions)
		c.index[e.ID] = len(c.entries)
		c.entries = append(c.entries, e)
	}

	if len(problems) > 0 {
		return nil, apperrors.Wrap(apperrors.TypeConfig, "invalid catalog", stderrors.Join(problems...))
	}

	fp, err := fingerprint(c.globals, c.entries)
	if err != nil {
		return nil, apperrors.Internal("fingerprint catalog", err)
	}
	c.fingerprint = fp

	return c, nil
}

// FindByID returns the entry with the given id.
func (c *Catalog) FindByID(id string) (Entry, bool) {
	i, ok := c.index[id]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Entries returns every entry in load order.
func (c *Catalog) Entries() []Entry {
	return slices.Clone(c.entries)
}

// Section returns the entries of s in load order.
func (c *Catalog) Section(s Section) []Entry {
	return lo.Filter(c.entries, func(e Entry, _ int) bool {
		return e.Section == s
	})
}

// Globals returns the fee, tax and rounding policy.
func (c *Catalog) Globals() Globals {
	g := c.globals
	g.CityMultipliers = maps.Clone(c.globals.CityMultipliers)
	return g
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Fingerprint is a stable hash of the catalog contents.
func (c *Catalog) Fingerprint() string {
	return c.fingerprint
}

func validateGlobals(g Globals) []error {
	var problems []error

	switch g.Rounding {
	case RoundingNone, RoundingNearestThousand:
	default:
		problems = append(problems, fmt.Errorf("rounding %q is not supported", g.Rounding))
	}

	for city, m := range g.CityMultipliers {
		if m.IsNegative() {
			problems = append(problems, fmt.Errorf("city multiplier %q is negative", city))
		}
	}

	fees := []struct {
		name string
		fee  Fee
	}{
		{"designFee", g.DesignFee},
		{"transportInstall", g.TransportInstall},
	}
	for _, f := range fees {
		name, fee := f.name, f.fee
		if !fee.Type.valid() {
			problems = append(problems, fmt.Errorf("%s: unknown fee type %q", name, fee.Type))
		}
		if v, ok := fee.Value.Get(); ok && v.IsNegative() {
			problems = append(problems, fmt.Errorf("%s: value is negative", name))
		}
	}

	if v, ok := g.GSTPercent.Get(); ok && v.IsNegative() {
		problems = append(problems, fmt.Errorf("gstPercent is negative"))
	}
	if v, ok := g.ContingencyPercent.Get(); ok && v.IsNegative() {
		problems = append(problems, fmt.Errorf("contingencyPercent is negative"))
	}

	return problems
}

func validateEntry(e Entry) []error {
	if e.ID == "" {
		return []error{fmt.Errorf("item with label %q has no id", e.Label)}
	}

	var problems []error
	if !e.Section.valid() {
		problems = append(problems, fmt.Errorf("item %q: unknown section %q", e.ID, e.Section))
	}

	switch e.Unit {
	case UnitArea:
		if e.DefaultQuantity.Valid {
			problems = append(problems, fmt.Errorf("item %q: area-based item cannot declare a default quantity", e.ID))
		}
	case UnitCount:
		if e.DefaultArea.Valid {
			problems = append(problems, fmt.Errorf("item %q: count-based item cannot declare a default area", e.ID))
		}
	default:
		problems = append(problems, fmt.Errorf("item %q: unknown unit %q", e.ID, e.Unit))
	}

	for _, p := range Packages {
		if v, ok := e.Rates.For(p).Get(); ok && v.IsNegative() {
			problems = append(problems, fmt.Errorf("item %q: %s rate is negative", e.ID, p))
		}
	}
	if e.DefaultArea.Valid && e.DefaultArea.Decimal.IsNegative() {
		problems = append(problems, fmt.Errorf("item %q: default area is negative", e.ID))
	}
	if e.DefaultQuantity.Valid && e.DefaultQuantity.Decimal.IsNegative() {
		problems = append(problems, fmt.Errorf("item %q: default quantity is negative", e.ID))
	}

	return problems
}

func fingerprint(g Globals, entries []Entry) (string, error) {
	data, err := json.Marshal(struct {
		Globals Globals `json:"globals"`
		Entries []Entry `json:"entries"`
	}{g, entries})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
