// Package pricing exposes the pricing calculator as an application service.
package pricing

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pricecraft/backend/internal/domain/pricing"
)

// Amount is a calculator form value. It accepts a JSON number or a
// string; blank or malformed input coerces to zero instead of failing
// the request.
type Amount struct {
	decimal.Decimal
}

// UnmarshalJSON never returns an error; anything that does not parse
// as a number becomes zero.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		a.Decimal = pricing.ParseAmount(s)
		return nil
	}
	a.Decimal = pricing.ParseAmount(strings.TrimSpace(string(data)))
	return nil
}

// QuoteRequest carries the calculator form fields.
type QuoteRequest struct {
	MaterialCost Amount `json:"material_cost"`
	LaborCost    Amount `json:"labor_cost"`
	OverheadCost Amount `json:"overhead_cost"`
	OtherCost    Amount `json:"other_cost"`
	ProfitMargin Amount `json:"profit_margin"`
}

// QuoteResponse is the full pricing breakdown
type QuoteResponse struct {
	MaterialCost        decimal.Decimal `json:"material_cost"`
	LaborCost           decimal.Decimal `json:"labor_cost"`
	OverheadCost        decimal.Decimal `json:"overhead_cost"`
	OtherCost           decimal.Decimal `json:"other_cost"`
	TotalCost           decimal.Decimal `json:"total_cost"`
	TotalCostDisplay    string          `json:"total_cost_display"`
	ProfitMargin        decimal.Decimal `json:"profit_margin"`
	MarginAmount        decimal.Decimal `json:"margin_amount"`
	SellingPrice        decimal.Decimal `json:"selling_price"`
	SellingPriceDisplay string          `json:"selling_price_display"`
	MarginOutOfRange    bool            `json:"margin_out_of_range"`
}

// QuoteService computes pricing quotes. It is stateless.
type QuoteService struct{}

// NewQuoteService creates a new QuoteService
func NewQuoteService() *QuoteService {
	return &QuoteService{}
}

// Quote computes the selling price breakdown for the given costs
func (s *QuoteService) Quote(req QuoteRequest) QuoteResponse {
	in := pricing.CostInput{
		MaterialCost: req.MaterialCost.Decimal,
		LaborCost:    req.LaborCost.Decimal,
		OverheadCost: req.OverheadCost.Decimal,
		OtherCost:    req.OtherCost.Decimal,
		ProfitMargin: req.ProfitMargin.Decimal,
	}

	quote := pricing.Calculate(in)

	return QuoteResponse{
		MaterialCost:        in.MaterialCost,
		LaborCost:           in.LaborCost,
		OverheadCost:        in.OverheadCost,
		OtherCost:           in.OtherCost,
		TotalCost:           quote.TotalCost,
		TotalCostDisplay:    pricing.FormatIDR(quote.TotalCost),
		ProfitMargin:        quote.ProfitMargin,
		MarginAmount:        quote.MarginAmount,
		SellingPrice:        quote.SellingPrice,
		SellingPriceDisplay: pricing.FormatIDR(quote.SellingPrice),
		MarginOutOfRange:    quote.MarginOutOfRange,
	}
}
