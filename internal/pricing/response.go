package pricing

import "github.com/Simplici0/interior-estimator/internal/catalog"

// SubtotalsResponse is the per-section JSON block.
type SubtotalsResponse struct {
	SingleLine float64 `json:"singleLine"`
	Bedrooms   float64 `json:"bedrooms"`
	Living     float64 `json:"living"`
	Pooja      float64 `json:"pooja"`
	Kitchen    float64 `json:"kitchen"`
	Addons     float64 `json:"addons"`
}

// FeesResponse is the JSON block of surcharges.
type FeesResponse struct {
	DesignFee        float64 `json:"designFee"`
	TransportInstall float64 `json:"transportInstall"`
	Contingency      float64 `json:"contingency"`
	GST              float64 `json:"gst"`
}

// LineResponse is the JSON form of one priced item.
type LineResponse struct {
	ID        string          `json:"id"`
	Label     string          `json:"label"`
	Section   catalog.Section `json:"section"`
	Unit      catalog.Unit    `json:"unit"`
	Magnitude float64         `json:"magnitude"`

	// Rate is nil when the package rate is TBD.
	Rate    *float64 `json:"rate"`
	Amount  float64  `json:"amount"`
	Formula string   `json:"formula"`
}

// Response is the JSON body returned for a successful estimate.
type Response struct {
	Subtotals  SubtotalsResponse `json:"subtotals"`
	GrandTotal float64           `json:"grandTotal"`
	ItemCount  int               `json:"itemCount"`
	BaseTotal  float64           `json:"baseTotal"`
	Fees       FeesResponse      `json:"fees"`
	Currency   string            `json:"currency"`
	Lines      []LineResponse    `json:"lines"`
}

// NewResponse converts b to wire form. Amounts leave decimal arithmetic
// only here.
func NewResponse(b Breakdown) Response {
	resp := Response{
		Subtotals: SubtotalsResponse{
			SingleLine: b.Subtotals.SingleLine.InexactFloat64(),
			Bedrooms:   b.Subtotals.Bedrooms.InexactFloat64(),
			Living:     b.Subtotals.Living.InexactFloat64(),
			Pooja:      b.Subtotals.Pooja.InexactFloat64(),
			Kitchen:    b.Subtotals.Kitchen.InexactFloat64(),
			Addons:     b.Subtotals.Addons.InexactFloat64(),
		},
		GrandTotal: b.GrandTotal.InexactFloat64(),
		ItemCount:  b.ItemCount,
		BaseTotal:  b.BaseTotal.InexactFloat64(),
		Fees: FeesResponse{
			DesignFee:        b.Fees.DesignFee.InexactFloat64(),
			TransportInstall: b.Fees.TransportInstall.InexactFloat64(),
			Contingency:      b.Fees.Contingency.InexactFloat64(),
			GST:              b.Fees.GST.InexactFloat64(),
		},
		Currency: b.Currency,
		Lines:    make([]LineResponse, 0, len(b.Lines)),
	}

	for _, l := range b.Lines {
		lr := LineResponse{
			ID:        l.ID,
			Label:     l.Label,
			Section:   l.Section,
			Unit:      l.Unit,
			Magnitude: l.Magnitude.InexactFloat64(),
			Amount:    l.Amount.InexactFloat64(),
			Formula:   l.Formula,
		}
		if l.RateAvailable {
			rate := l.Rate.InexactFloat64()
			lr.Rate = &rate
		}
		resp.Lines = append(resp.Lines, lr)
	}

	return resp
}
