package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	assert.Equal(t, "ASC", ValidateSortOrder("asc"))
	assert.Equal(t, "ASC", ValidateSortOrder("  ASC "))
	assert.Equal(t, "DESC", ValidateSortOrder("desc"))
	assert.Equal(t, "DESC", ValidateSortOrder(""))
	assert.Equal(t, "DESC", ValidateSortOrder("sideways"))
}

func TestValidateSortField(t *testing.T) {
	assert.Equal(t, "name", ValidateSortField("name", ProductSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("", ProductSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("1; DROP TABLE products", ProductSortFields, "created_at"))
	assert.Equal(t, "selling_price", ValidateSortField(" selling_price ", ProductSortFields, "created_at"))
}

func TestProductSortFieldsWhitelist(t *testing.T) {
	assert.True(t, ProductSortFields["selling_price"])
	assert.True(t, ProductSortFields["product_code"])
	assert.False(t, ProductSortFields["owner_id"])
}
