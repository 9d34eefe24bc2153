package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestCalculate(t *testing.T) {
	t.Run("computes selling price from all cost components", func(t *testing.T) {
		quote := Calculate(CostInput{
			MaterialCost: d("100000"),
			LaborCost:    d("50000"),
			OverheadCost: d("20000"),
			OtherCost:    d("5000"),
			ProfitMargin: d("20"),
		})

		assert.True(t, d("175000").Equal(quote.TotalCost), "total cost: %s", quote.TotalCost)
		assert.True(t, d("35000").Equal(quote.MarginAmount), "margin amount: %s", quote.MarginAmount)
		assert.True(t, d("210000").Equal(quote.SellingPrice), "selling price: %s", quote.SellingPrice)
		assert.False(t, quote.MarginOutOfRange)
	})

	t.Run("zero costs yield zero price regardless of margin", func(t *testing.T) {
		quote := Calculate(CostInput{ProfitMargin: d("50")})

		assert.True(t, quote.TotalCost.IsZero())
		assert.True(t, quote.SellingPrice.IsZero())
		assert.False(t, quote.MarginOutOfRange)
	})

	t.Run("zero margin sells at cost", func(t *testing.T) {
		quote := Calculate(CostInput{
			MaterialCost: d("75000"),
			LaborCost:    d("25000"),
		})

		assert.True(t, d("100000").Equal(quote.TotalCost))
		assert.True(t, quote.MarginAmount.IsZero())
		assert.True(t, d("100000").Equal(quote.SellingPrice))
	})

	t.Run("fractional margin keeps decimal precision", func(t *testing.T) {
		quote := Calculate(CostInput{
			MaterialCost: d("10000"),
			ProfitMargin: d("12.5"),
		})

		assert.True(t, d("11250").Equal(quote.SellingPrice), "selling price: %s", quote.SellingPrice)
	})

	t.Run("flags margin above 100 without rejecting it", func(t *testing.T) {
		quote := Calculate(CostInput{
			MaterialCost: d("1000"),
			ProfitMargin: d("150"),
		})

		assert.True(t, quote.MarginOutOfRange)
		assert.True(t, d("2500").Equal(quote.SellingPrice))
	})

	t.Run("flags negative margin without rejecting it", func(t *testing.T) {
		quote := Calculate(CostInput{
			MaterialCost: d("1000"),
			ProfitMargin: d("-10"),
		})

		assert.True(t, quote.MarginOutOfRange)
		assert.True(t, d("900").Equal(quote.SellingPrice))
	})

	t.Run("margin boundaries are in range", func(t *testing.T) {
		assert.False(t, Calculate(CostInput{ProfitMargin: d("0")}).MarginOutOfRange)
		assert.False(t, Calculate(CostInput{ProfitMargin: d("100")}).MarginOutOfRange)
	})
}

func TestParseAmount(t *testing.T) {
	t.Run("parses plain decimals", func(t *testing.T) {
		assert.True(t, d("12.5").Equal(ParseAmount("12.5")))
		assert.True(t, d("100000").Equal(ParseAmount("100000")))
		assert.True(t, d("-3").Equal(ParseAmount("-3")))
	})

	t.Run("coerces unparsable input to zero", func(t *testing.T) {
		assert.True(t, ParseAmount("").IsZero())
		assert.True(t, ParseAmount("abc").IsZero())
		assert.True(t, ParseAmount("12,5").IsZero())
		assert.True(t, ParseAmount("1e").IsZero())
	})
}

func TestFormatIDR(t *testing.T) {
	t.Run("rounds to whole rupiah", func(t *testing.T) {
		out := FormatIDR(d("210000.4"))
		require.NotEmpty(t, out)
		assert.Contains(t, out, "Rp")
	})

	t.Run("formats zero", func(t *testing.T) {
		assert.Contains(t, FormatIDR(decimal.Zero), "Rp")
	})
}
