package main

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/Simplici0/interior-estimator/internal/catalog"
)

// catalogView is the form-building payload of GET /api/catalog.
type catalogView struct {
	Currency        string                   `json:"currency"`
	Rounding        catalog.Rounding         `json:"rounding"`
	Fingerprint     string                   `json:"fingerprint"`
	Packages        []catalog.Package        `json:"packages"`
	Cities          []catalog.City           `json:"cities"`
	CityMultipliers map[catalog.City]float64 `json:"cityMultipliers"`
	Taxes           taxesView                `json:"taxes"`
	Fees            feesView                 `json:"fees"`
	Sections        []sectionView            `json:"sections"`
}

type taxesView struct {
	GSTPercent catalog.Amount `json:"gstPercent"`
}

type feesView struct {
	DesignFee          catalog.Fee    `json:"designFee"`
	TransportInstall   catalog.Fee    `json:"transportInstall"`
	ContingencyPercent catalog.Amount `json:"contingencyPercent"`
}

type sectionView struct {
	ID    catalog.Section `json:"id"`
	Label string          `json:"label"`
	Items []itemView      `json:"items"`
}

type itemView struct {
	ID              string        `json:"id"`
	Label           string        `json:"label"`
	Unit            catalog.Unit  `json:"unit"`
	Rate            catalog.Rates `json:"rate"`
	DefaultArea     *float64      `json:"defaultAreaSqft,omitempty"`
	DefaultQuantity *float64      `json:"defaultQty,omitempty"`
	DefaultEnabled  bool          `json:"defaultEnabled"`
	Notes           string        `json:"notes,omitempty"`
	Options         []string      `json:"options,omitempty"`
	OptionsLabel    string        `json:"optionsLabel,omitempty"`
	Dimensions      []string      `json:"dimensions,omitempty"`
}

func newCatalogView(cat *catalog.Catalog) catalogView {
	g := cat.Globals()

	multipliers := make(map[catalog.City]float64, len(catalog.Cities))
	for _, city := range catalog.Cities {
		multipliers[city] = g.CityMultiplier(city).InexactFloat64()
	}

	return catalogView{
		Currency:        g.Currency,
		Rounding:        g.Rounding,
		Fingerprint:     cat.Fingerprint(),
		Packages:        catalog.Packages,
		Cities:          catalog.Cities,
		CityMultipliers: multipliers,
		Taxes:           taxesView{GSTPercent: g.GSTPercent},
		Fees: feesView{
			DesignFee:          g.DesignFee,
			TransportInstall:   g.TransportInstall,
			ContingencyPercent: g.ContingencyPercent,
		},
		Sections: lo.Map(catalog.Sections, func(section catalog.Section, _ int) sectionView {
			return sectionView{
				ID:    section,
				Label: section.Label(),
				Items: lo.Map(cat.Section(section), func(e catalog.Entry, _ int) itemView {
					return newItemView(e)
				}),
			}
		}),
	}
}

func newItemView(e catalog.Entry) itemView {
	return itemView{
		ID:              e.ID,
		Label:           e.Label,
		Unit:            e.Unit,
		Rate:            e.Rates,
		DefaultArea:     floatPtr(e.DefaultArea),
		DefaultQuantity: floatPtr(e.DefaultQuantity),
		DefaultEnabled:  e.DefaultEnabled,
		Notes:           e.Notes,
		Options:         e.Options,
		OptionsLabel:    e.OptionsLabel,
		Dimensions:      e.Dimensions,
	}
}

func floatPtr(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f := d.Decimal.InexactFloat64()
	return &f
}
