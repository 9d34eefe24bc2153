// Package pricing implements the cost-plus pricing calculator.
package pricing

import (
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// CostInput holds the cost components and target margin for a quote.
// All amounts are absolute monetary values; ProfitMargin is a percentage.
type CostInput struct {
	MaterialCost decimal.Decimal
	LaborCost    decimal.Decimal
	OverheadCost decimal.Decimal
	OtherCost    decimal.Decimal
	ProfitMargin decimal.Decimal
}

// Quote is the result of a pricing calculation.
type Quote struct {
	TotalCost    decimal.Decimal
	MarginAmount decimal.Decimal
	SellingPrice decimal.Decimal
	ProfitMargin decimal.Decimal

	// MarginOutOfRange is set when the requested margin falls outside
	// [0, 100]. The price is still computed; callers decide whether to
	// warn the user.
	MarginOutOfRange bool
}

// Calculate computes the selling price from cost components:
//
//	total_cost    = material + labor + overhead + other
//	selling_price = total_cost + total_cost * margin / 100
//
// A zero total cost yields a zero selling price regardless of margin.
func Calculate(in CostInput) Quote {
	totalCost := in.MaterialCost.
		Add(in.LaborCost).
		Add(in.OverheadCost).
		Add(in.OtherCost)

	marginAmount := totalCost.Mul(in.ProfitMargin).Div(oneHundred)

	return Quote{
		TotalCost:        totalCost,
		MarginAmount:     marginAmount,
		SellingPrice:     totalCost.Add(marginAmount),
		ProfitMargin:     in.ProfitMargin,
		MarginOutOfRange: in.ProfitMargin.IsNegative() || in.ProfitMargin.GreaterThan(oneHundred),
	}
}

// ParseAmount converts free-form user input to a decimal amount.
// Anything that does not parse as a number coerces to zero, matching
// the forgiving behavior of the calculator form.
func ParseAmount(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
