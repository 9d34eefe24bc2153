package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricecraft/backend/internal/domain/pricing"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func sampleCosts() pricing.CostInput {
	return pricing.CostInput{
		MaterialCost: d("100000"),
		LaborCost:    d("50000"),
		OverheadCost: d("20000"),
		OtherCost:    d("5000"),
		ProfitMargin: d("20"),
	}
}

func TestNewProduct(t *testing.T) {
	ownerID := uuid.New()

	t.Run("creates product with derived selling price", func(t *testing.T) {
		product, err := NewProduct(ownerID, "BRD-001", "Banana Bread", sampleCosts())
		require.NoError(t, err)
		require.NotNil(t, product)

		assert.Equal(t, ownerID, product.OwnerID)
		assert.Equal(t, "BRD-001", product.ProductCode)
		assert.Equal(t, "Banana Bread", product.Name)
		assert.True(t, d("175000").Equal(product.TotalCost()))
		assert.True(t, d("210000").Equal(product.SellingPrice), "selling price: %s", product.SellingPrice)
		assert.NotEmpty(t, product.ID)
	})

	t.Run("converts code to uppercase", func(t *testing.T) {
		product, err := NewProduct(ownerID, "brd-001", "Banana Bread", sampleCosts())
		require.NoError(t, err)
		assert.Equal(t, "BRD-001", product.ProductCode)
	})

	t.Run("allows empty code", func(t *testing.T) {
		product, err := NewProduct(ownerID, "", "Banana Bread", sampleCosts())
		require.NoError(t, err)
		assert.Empty(t, product.ProductCode)
	})

	t.Run("fails with invalid code characters", func(t *testing.T) {
		_, err := NewProduct(ownerID, "BRD 001", "Banana Bread", sampleCosts())
		require.Error(t, err)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewProduct(ownerID, "BRD-001", "", sampleCosts())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})

	t.Run("fails with negative cost component", func(t *testing.T) {
		costs := sampleCosts()
		costs.LaborCost = d("-1")
		_, err := NewProduct(ownerID, "BRD-001", "Banana Bread", costs)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be negative")
	})

	t.Run("fails with negative margin", func(t *testing.T) {
		costs := sampleCosts()
		costs.ProfitMargin = d("-5")
		_, err := NewProduct(ownerID, "BRD-001", "Banana Bread", costs)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "margin cannot be negative")
	})
}

func TestProductSetCosts(t *testing.T) {
	ownerID := uuid.New()

	t.Run("recomputes selling price", func(t *testing.T) {
		product, err := NewProduct(ownerID, "BRD-001", "Banana Bread", sampleCosts())
		require.NoError(t, err)

		costs := sampleCosts()
		costs.MaterialCost = d("200000")
		require.NoError(t, product.SetCosts(costs))

		assert.True(t, d("275000").Equal(product.TotalCost()))
		assert.True(t, d("330000").Equal(product.SellingPrice), "selling price: %s", product.SellingPrice)
	})

	t.Run("zero costs zero the price", func(t *testing.T) {
		product, err := NewProduct(ownerID, "BRD-001", "Banana Bread", sampleCosts())
		require.NoError(t, err)

		require.NoError(t, product.SetCosts(pricing.CostInput{ProfitMargin: d("50")}))

		assert.True(t, product.SellingPrice.IsZero())
	})

	t.Run("rejects negative component", func(t *testing.T) {
		product, err := NewProduct(ownerID, "BRD-001", "Banana Bread", sampleCosts())
		require.NoError(t, err)

		costs := sampleCosts()
		costs.OtherCost = d("-100")
		require.Error(t, product.SetCosts(costs))
		assert.True(t, d("210000").Equal(product.SellingPrice), "price must be untouched on rejection")
	})

	t.Run("bumps version", func(t *testing.T) {
		product, err := NewProduct(ownerID, "BRD-001", "Banana Bread", sampleCosts())
		require.NoError(t, err)
		before := product.GetVersion()

		require.NoError(t, product.SetCosts(sampleCosts()))

		assert.Equal(t, before+1, product.GetVersion())
	})
}

func TestProductUpdate(t *testing.T) {
	ownerID := uuid.New()

	t.Run("updates name, description and specifications", func(t *testing.T) {
		product, err := NewProduct(ownerID, "BRD-001", "Banana Bread", sampleCosts())
		require.NoError(t, err)

		require.NoError(t, product.Update("Chocolate Bread", "with dark chocolate", "250g, vacuum packed"))
		assert.Equal(t, "Chocolate Bread", product.Name)
		assert.Equal(t, "with dark chocolate", product.Description)
		assert.Equal(t, "250g, vacuum packed", product.Specifications)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		product, err := NewProduct(ownerID, "BRD-001", "Banana Bread", sampleCosts())
		require.NoError(t, err)

		require.Error(t, product.Update("", "desc", ""))
	})
}

func TestProductSetImageURL(t *testing.T) {
	ownerID := uuid.New()

	t.Run("accepts object key", func(t *testing.T) {
		product, err := NewProduct(ownerID, "BRD-001", "Banana Bread", sampleCosts())
		require.NoError(t, err)

		require.NoError(t, product.SetImageURL("products/abc/1.png"))
		assert.Equal(t, "products/abc/1.png", product.ImageURL)
	})

	t.Run("rejects overlong URL", func(t *testing.T) {
		product, err := NewProduct(ownerID, "BRD-001", "Banana Bread", sampleCosts())
		require.NoError(t, err)

		long := make([]byte, 501)
		for i := range long {
			long[i] = 'a'
		}
		require.Error(t, product.SetImageURL(string(long)))
	})
}

func TestProductOwnership(t *testing.T) {
	ownerID := uuid.New()
	product, err := NewProduct(ownerID, "BRD-001", "Banana Bread", sampleCosts())
	require.NoError(t, err)

	assert.True(t, product.IsOwnedBy(ownerID))
	assert.False(t, product.IsOwnedBy(uuid.New()))
}
