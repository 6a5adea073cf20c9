package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Package is the interior package a customer picks. Every catalog item
// carries one rate per package.
type Package string

const (
	PackagePremium Package = "premium"
	PackageLuxury  Package = "luxury"
)

// Packages lists every package in display order.
var Packages = []Package{PackagePremium, PackageLuxury}

// City is the regional cost bucket of a project.
type City string

const (
	CityTier1 City = "Tier-1"
	CityTier2 City = "Tier-2"
	CityOther City = "Other"
)

// Cities lists every city tier in display order.
var Cities = []City{CityTier1, CityTier2, CityOther}

// Section groups catalog items that share a scaling rule and a subtotal.
type Section string

const (
	SectionSingleLine Section = "singleLine"
	SectionBedrooms   Section = "bedrooms"
	SectionLiving     Section = "living"
	SectionPooja      Section = "pooja"
	SectionKitchen    Section = "kitchen"
	SectionAddons     Section = "addons"
)

// Sections lists every section in the order the estimate is presented.
var Sections = []Section{
	SectionSingleLine,
	SectionBedrooms,
	SectionLiving,
	SectionPooja,
	SectionKitchen,
	SectionAddons,
}

var sectionLabels = map[Section]string{
	SectionSingleLine: "Single Line Items",
	SectionBedrooms:   "Bedrooms",
	SectionLiving:     "Living Room",
	SectionPooja:      "Pooja Room",
	SectionKitchen:    "Kitchen",
	SectionAddons:     "Add-ons",
}

// Label is the display heading of s.
func (s Section) Label() string {
	if l, ok := sectionLabels[s]; ok {
		return l
	}
	return string(s)
}

func (s Section) valid() bool {
	for _, known := range Sections {
		if s == known {
			return true
		}
	}
	return false
}

// Unit decides whether an item scales by area or by count.
type Unit string

const (
	UnitArea  Unit = "sqft"
	UnitCount Unit = "each"
)

// FeeType is how a fee is charged. Only percent fees contribute to totals.
type FeeType string

const (
	FeePercent  FeeType = "percent"
	FeeFixed    FeeType = "fixed"
	FeeNone     FeeType = "none"
	FeeIncluded FeeType = "included"
)

func (t FeeType) valid() bool {
	switch t {
	case FeePercent, FeeFixed, FeeNone, FeeIncluded:
		return true
	}
	return false
}

// Rounding is the policy applied to the grand total.
type Rounding string

const (
	RoundingNone            Rounding = "none"
	RoundingNearestThousand Rounding = "nearest-1000"
)

// Amount is a configured number or the TBD sentinel. The zero value is TBD.
type Amount struct {
	value decimal.Decimal
	set   bool
}

// TBD is an amount that has not been configured yet.
var TBD = Amount{}

// NewAmount returns a configured amount.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{value: d, set: true}
}

// AmountFromFloat returns a configured amount from a float literal.
func AmountFromFloat(f float64) Amount {
	return NewAmount(decimal.NewFromFloat(f))
}

// Get returns the value and whether it is configured.
func (a Amount) Get() (decimal.Decimal, bool) {
	return a.value, a.set
}

// IsTBD reports whether the amount is the unconfigured sentinel.
func (a Amount) IsTBD() bool {
	return !a.set
}

func (a Amount) String() string {
	if !a.set {
		return "TBD"
	}
	return a.value.String()
}

// MarshalJSON renders a configured amount as a JSON number and TBD as "TBD".
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.set {
		return []byte(`"TBD"`), nil
	}
	return []byte(a.value.String()), nil
}

// UnmarshalJSON accepts a JSON number, null or the string "TBD".
func (a *Amount) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*a = TBD
		return nil
	case string:
		if v == "TBD" {
			*a = TBD
			return nil
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			return err
		}
		*a = NewAmount(d)
		return nil
	default:
		d, err := decimal.NewFromString(string(data))
		if err != nil {
			return err
		}
		*a = NewAmount(d)
		return nil
	}
}

// Value stores a configured amount as its decimal text and TBD as NULL.
func (a Amount) Value() (driver.Value, error) {
	if !a.set {
		return nil, nil
	}
	return a.value.String(), nil
}

// Scan reads an amount written by Value.
func (a *Amount) Scan(src any) error {
	if src == nil {
		*a = TBD
		return nil
	}
	var d decimal.NullDecimal
	if err := d.Scan(src); err != nil {
		return fmt.Errorf("scan amount: %w", err)
	}
	*a = NewAmount(d.Decimal)
	return nil
}

// Rates holds the per-package unit price of an item.
type Rates struct {
	Premium Amount `json:"premium"`
	Luxury  Amount `json:"luxury"`
}

// For returns the rate of p. Unknown packages report TBD.
func (r Rates) For(p Package) Amount {
	switch p {
	case PackagePremium:
		return r.Premium
	case PackageLuxury:
		return r.Luxury
	}
	return TBD
}

// Fee is a surcharge on the base total.
type Fee struct {
	Type  FeeType `json:"type"`
	Value Amount  `json:"value"`
}

// Percent returns the fee percentage when the fee is percent-typed and configured.
func (f Fee) Percent() (decimal.Decimal, bool) {
	if f.Type != FeePercent {
		return decimal.Zero, false
	}
	return f.Value.Get()
}
