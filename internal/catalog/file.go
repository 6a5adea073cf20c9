package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/shopspring/decimal"
	"github.com/zclconf/go-cty/cty"

	apperrors "github.com/Simplici0/interior-estimator/internal/errors"
)

//go:embed default.hcl
var defaultSource []byte

// DefaultFilename is the name the embedded catalog is decoded under.
const DefaultFilename = "default.hcl"

// fileSchema is the on-disk catalog layout. Rates, percentages and fee
// values are decoded as raw cty values so a number and the string "TBD"
// can share one attribute.
type fileSchema struct {
	Currency        string             `hcl:"currency,optional"`
	Rounding        string             `hcl:"rounding,optional"`
	CityMultipliers map[string]float64 `hcl:"city_multipliers,optional"`
	Taxes           *taxesBlock        `hcl:"taxes,block"`
	Fees            *feesBlock         `hcl:"fees,block"`
	Items           []itemBlock        `hcl:"item,block"`
}

type taxesBlock struct {
	GSTPercent cty.Value `hcl:"gst_percent,optional"`
}

type feesBlock struct {
	DesignFee          *feeBlock `hcl:"design_fee,block"`
	TransportInstall   *feeBlock `hcl:"transport_install,block"`
	ContingencyPercent cty.Value `hcl:"contingency_percent,optional"`
}

type feeBlock struct {
	Type  string    `hcl:"type"`
	Value cty.Value `hcl:"value,optional"`
}

type itemBlock struct {
	ID              string    `hcl:"id,label"`
	Label           string    `hcl:"label,optional"`
	Section         string    `hcl:"section"`
	Unit            string    `hcl:"unit"`
	Rate            cty.Value `hcl:"rate"`
	DefaultArea     *float64  `hcl:"default_area,optional"`
	DefaultQuantity *float64  `hcl:"default_quantity,optional"`
	DefaultEnabled  bool      `hcl:"default_enabled,optional"`
	Notes           string    `hcl:"notes,optional"`
	Options         []string  `hcl:"options,optional"`
	OptionsLabel    string    `hcl:"options_label,optional"`
	Dimensions      []string  `hcl:"dimensions,optional"`
}

// Default returns the catalog shipped with the binary.
func Default() (*Catalog, error) {
	return Decode(DefaultFilename, defaultSource)
}

// LoadFile reads a catalog from an HCL (.hcl) or JSON (.json) file.
func LoadFile(path string) (*Catalog, error) {
	var schema fileSchema
	if err := hclsimple.DecodeFile(path, nil, &schema); err != nil {
		return nil, apperrors.Wrap(apperrors.TypeConfig, "decode catalog file "+path, err)
	}
	return fromSchema(schema)
}

// Decode parses catalog source. The filename extension selects the syntax.
func Decode(filename string, src []byte) (*Catalog, error) {
	var schema fileSchema
	if err := hclsimple.Decode(filename, src, nil, &schema); err != nil {
		return nil, apperrors.Wrap(apperrors.TypeConfig, "decode catalog "+filename, err)
	}
	return fromSchema(schema)
}

func fromSchema(s fileSchema) (*Catalog, error) {
	globals := Globals{
		Currency:        s.Currency,
		Rounding:        Rounding(s.Rounding),
		CityMultipliers: make(map[City]decimal.Decimal, len(s.CityMultipliers)),
	}
	for city, m := range s.CityMultipliers {
		globals.CityMultipliers[City(city)] = decimal.NewFromFloat(m)
	}

	var err error
	if s.Taxes != nil {
		if globals.GSTPercent, err = amountFromValue(s.Taxes.GSTPercent, "taxes.gst_percent"); err != nil {
			return nil, err
		}
	}
	if s.Fees != nil {
		if globals.DesignFee, err = feeFromBlock(s.Fees.DesignFee, "fees.design_fee"); err != nil {
			return nil, err
		}
		if globals.TransportInstall, err = feeFromBlock(s.Fees.TransportInstall, "fees.transport_install"); err != nil {
			return nil, err
		}
		if globals.ContingencyPercent, err = amountFromValue(s.Fees.ContingencyPercent, "fees.contingency_percent"); err != nil {
			return nil, err
		}
	}

	entries := make([]Entry, 0, len(s.Items))
	for _, item := range s.Items {
		rates, err := ratesFromValue(item.Rate, item.ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{
			ID:              item.ID,
			Label:           item.Label,
			Section:         Section(item.Section),
			Unit:            Unit(item.Unit),
			Rates:           rates,
			DefaultArea:     nullDecimal(item.DefaultArea),
			DefaultQuantity: nullDecimal(item.DefaultQuantity),
			DefaultEnabled:  item.DefaultEnabled,
			Notes:           item.Notes,
			Options:         item.Options,
			OptionsLabel:    item.OptionsLabel,
			Dimensions:      item.Dimensions,
		})
	}

	return New(globals, entries)
}

func feeFromBlock(b *feeBlock, field string) (Fee, error) {
	if b == nil {
		return Fee{Type: FeeNone}, nil
	}
	value, err := amountFromValue(b.Value, field+".value")
	if err != nil {
		return Fee{}, err
	}
	return Fee{Type: FeeType(b.Type), Value: value}, nil
}

func ratesFromValue(v cty.Value, itemID string) (Rates, error) {
	if v == cty.NilVal || v.IsNull() || !v.IsKnown() {
		return Rates{}, apperrors.Config("item %q: rate is required", itemID)
	}
	if !v.Type().IsObjectType() && !v.Type().IsMapType() {
		return Rates{}, apperrors.Config("item %q: rate must be an object keyed by package", itemID)
	}

	var rates Rates
	seen := make(map[Package]bool, len(Packages))
	for key, raw := range v.AsValueMap() {
		amount, err := amountFromValue(raw, fmt.Sprintf("item %q rate.%s", itemID, key))
		if err != nil {
			return Rates{}, err
		}
		switch Package(key) {
		case PackagePremium:
			rates.Premium = amount
		case PackageLuxury:
			rates.Luxury = amount
		default:
			return Rates{}, apperrors.Config("item %q: unknown package %q in rate", itemID, key)
		}
		seen[Package(key)] = true
	}
	for _, p := range Packages {
		if !seen[p] {
			return Rates{}, apperrors.Config("item %q: rate for package %q is missing", itemID, p)
		}
	}
	return rates, nil
}

// amountFromValue accepts a number, null, or the string "TBD".
func amountFromValue(v cty.Value, field string) (Amount, error) {
	if v == cty.NilVal || v.IsNull() {
		return TBD, nil
	}
	if !v.IsKnown() {
		return TBD, apperrors.Config("%s: value must be known", field)
	}

	switch v.Type() {
	case cty.Number:
		d, err := decimal.NewFromString(v.AsBigFloat().Text('f', -1))
		if err != nil {
			return TBD, apperrors.Wrap(apperrors.TypeConfig, field+": invalid number", err)
		}
		return NewAmount(d), nil
	case cty.String:
		if strings.EqualFold(strings.TrimSpace(v.AsString()), "TBD") {
			return TBD, nil
		}
		return TBD, apperrors.Config("%s: expected a number or \"TBD\", got %q", field, v.AsString())
	}
	return TBD, apperrors.Config("%s: expected a number or \"TBD\", got %s", field, v.Type().FriendlyName())
}

func nullDecimal(f *float64) decimal.NullDecimal {
	if f == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(*f))
}
