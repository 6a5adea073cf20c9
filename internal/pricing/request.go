package pricing

import "github.com/Simplici0/interior-estimator/internal/catalog"

// Request is the wire shape of a calculate call.
type Request struct {
	CarpetArea    float64              `json:"carpetArea"`
	City          catalog.City         `json:"city"`
	Model         catalog.Package      `json:"model"`
	Bedrooms      int                  `json:"bedrooms"`
	SelectedItems map[string]Selection `json:"selectedItems"`
}

// Params extracts the project parameters from r.
func (r Request) Params() Params {
	return Params{
		CarpetArea: r.CarpetArea,
		City:       r.City,
		Package:    r.Model,
		Bedrooms:   r.Bedrooms,
	}
}

// Estimate runs Calculate for r against cat.
func Estimate(cat *catalog.Catalog, r Request) (Breakdown, error) {
	return Calculate(cat, r.Params(), r.SelectedItems)
}
