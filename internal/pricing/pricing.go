package pricing

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/interior-estimator/internal/catalog"
	apperrors "github.com/Simplici0/interior-estimator/internal/errors"
	"github.com/Simplici0/interior-estimator/internal/money"
)

// roundingPlaces is the decimal exponent for nearest-1000 rounding.
const roundingPlaces = -3

var (
	one = decimal.NewFromInt(1)

	// maxWireAmount is the largest magnitude that survives conversion to a
	// JSON number.
	maxWireAmount = decimal.NewFromFloat(math.MaxFloat64)
)

// Params holds the project basics collected by the first wizard step.
type Params struct {
	CarpetArea float64
	City       catalog.City
	Package    catalog.Package

	// Bedrooms is the number of configured rooms, not a user-typed value.
	Bedrooms int
}

// Selection is the caller's choice for one catalog item.
type Selection struct {
	Enabled  bool     `json:"enabled"`
	Area     *float64 `json:"areaSqft,omitempty"`
	Quantity *float64 `json:"qty,omitempty"`
}

// Subtotals holds one bucket per catalog section.
type Subtotals struct {
	SingleLine decimal.Decimal
	Bedrooms   decimal.Decimal
	Living     decimal.Decimal
	Pooja      decimal.Decimal
	Kitchen    decimal.Decimal
	Addons     decimal.Decimal
}

func (s *Subtotals) add(section catalog.Section, amount decimal.Decimal) {
	switch section {
	case catalog.SectionSingleLine:
		s.SingleLine = s.SingleLine.Add(amount)
	case catalog.SectionBedrooms:
		s.Bedrooms = s.Bedrooms.Add(amount)
	case catalog.SectionLiving:
		s.Living = s.Living.Add(amount)
	case catalog.SectionPooja:
		s.Pooja = s.Pooja.Add(amount)
	case catalog.SectionKitchen:
		s.Kitchen = s.Kitchen.Add(amount)
	case catalog.SectionAddons:
		s.Addons = s.Addons.Add(amount)
	}
}

// For returns the subtotal of section.
func (s Subtotals) For(section catalog.Section) decimal.Decimal {
	switch section {
	case catalog.SectionSingleLine:
		return s.SingleLine
	case catalog.SectionBedrooms:
		return s.Bedrooms
	case catalog.SectionLiving:
		return s.Living
	case catalog.SectionPooja:
		return s.Pooja
	case catalog.SectionKitchen:
		return s.Kitchen
	case catalog.SectionAddons:
		return s.Addons
	}
	return decimal.Zero
}

// Total sums every bucket.
func (s Subtotals) Total() decimal.Decimal {
	return decimal.Sum(s.SingleLine, s.Bedrooms, s.Living, s.Pooja, s.Kitchen, s.Addons)
}

// Fees contains each surcharge added on top of the base total.
type Fees struct {
	DesignFee        decimal.Decimal
	TransportInstall decimal.Decimal
	Contingency      decimal.Decimal
	GST              decimal.Decimal
}

// Line is the priced contribution of one enabled catalog item.
type Line struct {
	ID            string
	Label         string
	Section       catalog.Section
	Unit          catalog.Unit
	Magnitude     decimal.Decimal
	Rate          decimal.Decimal
	RateAvailable bool
	Amount        decimal.Decimal
	Formula       string
}

// Breakdown is the full result of an estimate.
type Breakdown struct {
	Currency   string
	Subtotals  Subtotals
	BaseTotal  decimal.Decimal
	Fees       Fees
	GrandTotal decimal.Decimal

	// ItemCount counts enabled selections, including ids the catalog does
	// not know and items that price to zero.
	ItemCount int
	Lines     []Line
}

// Calculate prices selections against cat. It is a pure function: the same
// inputs always produce the same Breakdown, and cat is only read.
func Calculate(cat *catalog.Catalog, params Params, selections map[string]Selection) (Breakdown, error) {
	if cat == nil {
		return Breakdown{}, apperrors.Internal("calculate estimate", fmt.Errorf("nil catalog"))
	}
	if err := validate(params, selections); err != nil {
		return Breakdown{}, err
	}

	globals := cat.Globals()
	multiplier := globals.CityMultiplier(params.City)
	carpetArea := decimal.NewFromFloat(params.CarpetArea)
	bedrooms := decimal.NewFromInt(int64(params.Bedrooms))

	b := Breakdown{
		Currency: globals.Currency,
		Lines:    make([]Line, 0),
	}
	for _, sel := range selections {
		if sel.Enabled {
			b.ItemCount++
		}
	}

	// Unknown ids never match a catalog entry and so contribute nothing.
	for _, entry := range cat.Entries() {
		sel, ok := selections[entry.ID]
		if !ok || !sel.Enabled {
			continue
		}
		line := itemCost(entry, magnitude(entry, sel, carpetArea, bedrooms), params.Package, multiplier)
		b.Subtotals.add(entry.Section, line.Amount)
		b.Lines = append(b.Lines, line)
	}

	b.BaseTotal = b.Subtotals.Total()
	b.Fees, b.GrandTotal = applyFees(globals, b.BaseTotal)

	if !representable(b) {
		return Breakdown{}, apperrors.Validation("Estimate is too large to calculate")
	}

	return b, nil
}

// representable reports whether every amount in b fits in a float64.
func representable(b Breakdown) bool {
	amounts := []decimal.Decimal{
		b.Subtotals.SingleLine, b.Subtotals.Bedrooms, b.Subtotals.Living,
		b.Subtotals.Pooja, b.Subtotals.Kitchen, b.Subtotals.Addons,
		b.BaseTotal, b.GrandTotal,
		b.Fees.DesignFee, b.Fees.TransportInstall, b.Fees.Contingency, b.Fees.GST,
	}
	for _, l := range b.Lines {
		amounts = append(amounts, l.Magnitude, l.Rate, l.Amount)
	}
	for _, a := range amounts {
		if a.Abs().GreaterThan(maxWireAmount) {
			return false
		}
	}
	return true
}

func validate(params Params, selections map[string]Selection) error {
	if math.IsNaN(params.CarpetArea) || math.IsInf(params.CarpetArea, 0) || params.CarpetArea <= 0 {
		return apperrors.Validation("Invalid carpet area")
	}
	if params.Bedrooms < 0 {
		return apperrors.Validation("bedrooms must not be negative")
	}
	for id, sel := range selections {
		if !sel.Enabled {
			continue
		}
		if err := validateMagnitude(sel.Area); err != nil {
			return apperrors.Validation("selectedItems[%q].areaSqft %s", id, err)
		}
		if err := validateMagnitude(sel.Quantity); err != nil {
			return apperrors.Validation("selectedItems[%q].qty %s", id, err)
		}
	}
	return nil
}

func validateMagnitude(v *float64) error {
	if v == nil {
		return nil
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		return fmt.Errorf("must be a finite number")
	}
	if *v < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

// magnitude applies the section scaling rules on top of the item's own
// area or quantity.
func magnitude(entry catalog.Entry, sel Selection, carpetArea, bedrooms decimal.Decimal) decimal.Decimal {
	switch entry.Section {
	case catalog.SectionSingleLine:
		if entry.Unit == catalog.UnitArea {
			return carpetArea
		}
	case catalog.SectionBedrooms:
		return ownMagnitude(entry, sel).Mul(bedrooms)
	}
	return ownMagnitude(entry, sel)
}

// ownMagnitude resolves the selection override, then the catalog default,
// then the unit fallback. A zero area override counts as absent; a zero
// quantity is taken as given.
func ownMagnitude(entry catalog.Entry, sel Selection) decimal.Decimal {
	if entry.Unit == catalog.UnitArea {
		if sel.Area != nil && *sel.Area != 0 {
			return decimal.NewFromFloat(*sel.Area)
		}
		if entry.DefaultArea.Valid {
			return entry.DefaultArea.Decimal
		}
		return decimal.Zero
	}

	if sel.Quantity != nil {
		return decimal.NewFromFloat(*sel.Quantity)
	}
	if entry.DefaultQuantity.Valid {
		return entry.DefaultQuantity.Decimal
	}
	return one
}

func itemCost(entry catalog.Entry, mag decimal.Decimal, pkg catalog.Package, cityMultiplier decimal.Decimal) Line {
	line := Line{
		ID:        entry.ID,
		Label:     entry.Label,
		Section:   entry.Section,
		Unit:      entry.Unit,
		Magnitude: mag,
	}

	rate, ok := entry.Rates.For(pkg).Get()
	if !ok {
		line.Formula = "rate TBD"
		return line
	}

	line.Rate = rate
	line.RateAvailable = true
	line.Amount = rate.Mul(mag).Mul(cityMultiplier)
	line.Formula = formula(entry.Unit, rate, mag, cityMultiplier)
	return line
}

func formula(unit catalog.Unit, rate, mag, cityMultiplier decimal.Decimal) string {
	var f string
	if unit == catalog.UnitArea {
		f = fmt.Sprintf("%s/sqft × %s sqft", money.FormatINR(rate), mag.String())
	} else {
		f = fmt.Sprintf("%s × %s", money.FormatINR(rate), mag.String())
	}
	if !cityMultiplier.Equal(one) {
		f += fmt.Sprintf(" × %s city", cityMultiplier.String())
	}
	return f
}

// applyFees adds design, transport and contingency on the base total, then
// GST on the post-fee total, then rounds. The order is load-bearing.
func applyFees(g catalog.Globals, base decimal.Decimal) (Fees, decimal.Decimal) {
	var fees Fees
	total := base

	if pct, ok := g.DesignFee.Percent(); ok {
		fees.DesignFee = percentOf(base, pct)
		total = total.Add(fees.DesignFee)
	}
	if pct, ok := g.TransportInstall.Percent(); ok {
		fees.TransportInstall = percentOf(base, pct)
		total = total.Add(fees.TransportInstall)
	}
	if pct, ok := g.ContingencyPercent.Get(); ok {
		fees.Contingency = percentOf(base, pct)
		total = total.Add(fees.Contingency)
	}
	if pct, ok := g.GSTPercent.Get(); ok {
		fees.GST = percentOf(total, pct)
		total = total.Add(fees.GST)
	}

	if g.Rounding == catalog.RoundingNearestThousand {
		// decimal rounds half away from zero.
		total = total.Round(roundingPlaces)
	}

	return fees, total
}

func percentOf(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Shift(-2)
}
