package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pricecraft/backend/internal/domain/catalog"
	"github.com/pricecraft/backend/internal/domain/pricing"
)

// CreateProductRequest represents a request to create a new product.
// The selling price is always derived server-side; there is deliberately
// no selling_price field here. The product code is optional.
type CreateProductRequest struct {
	ProductCode    string           `json:"product_code" binding:"omitempty,max=50"`
	Name           string           `json:"name" binding:"required,min=1,max=200"`
	Description    string           `json:"description" binding:"max=2000"`
	Specifications string           `json:"specifications" binding:"max=5000"`
	MaterialCost   *decimal.Decimal `json:"material_cost"`
	LaborCost      *decimal.Decimal `json:"labor_cost"`
	OverheadCost   *decimal.Decimal `json:"overhead_cost"`
	OtherCost      *decimal.Decimal `json:"other_cost"`
	ProfitMargin   *decimal.Decimal `json:"profit_margin"`
	ImageURL       string           `json:"image_url" binding:"max=500"`
}

// UpdateProductRequest represents a partial update to a product.
// Nil fields keep their current values. Owner and ID are taken from the
// authenticated context and the URL, never from the payload.
type UpdateProductRequest struct {
	ProductCode    *string          `json:"product_code" binding:"omitempty,max=50"`
	Name           *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description    *string          `json:"description" binding:"omitempty,max=2000"`
	Specifications *string          `json:"specifications" binding:"omitempty,max=5000"`
	MaterialCost   *decimal.Decimal `json:"material_cost"`
	LaborCost      *decimal.Decimal `json:"labor_cost"`
	OverheadCost   *decimal.Decimal `json:"overhead_cost"`
	OtherCost      *decimal.Decimal `json:"other_cost"`
	ProfitMargin   *decimal.Decimal `json:"profit_margin"`
	ImageURL       *string          `json:"image_url" binding:"omitempty,max=500"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID                  uuid.UUID       `json:"id"`
	OwnerID             uuid.UUID       `json:"owner_id"`
	ProductCode         string          `json:"product_code"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	Specifications      string          `json:"specifications"`
	MaterialCost        decimal.Decimal `json:"material_cost"`
	LaborCost           decimal.Decimal `json:"labor_cost"`
	OverheadCost        decimal.Decimal `json:"overhead_cost"`
	OtherCost           decimal.Decimal `json:"other_cost"`
	TotalCost           decimal.Decimal `json:"total_cost"`
	ProfitMargin        decimal.Decimal `json:"profit_margin"`
	SellingPrice        decimal.Decimal `json:"selling_price"`
	SellingPriceDisplay string          `json:"selling_price_display"`
	MarginOutOfRange    bool            `json:"margin_out_of_range"`
	ImageURL            string          `json:"image_url"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	Version             int             `json:"version"`
}

// ProductListResponse represents a list item for products
type ProductListResponse struct {
	ID                  uuid.UUID       `json:"id"`
	ProductCode         string          `json:"product_code"`
	Name                string          `json:"name"`
	TotalCost           decimal.Decimal `json:"total_cost"`
	ProfitMargin        decimal.Decimal `json:"profit_margin"`
	SellingPrice        decimal.Decimal `json:"selling_price"`
	SellingPriceDisplay string          `json:"selling_price_display"`
	ImageURL            string          `json:"image_url"`
	CreatedAt           time.Time       `json:"created_at"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=created_at name product_code selling_price"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductStatsResponse aggregates a user's catalog for the dashboard
type ProductStatsResponse struct {
	Count                  int64           `json:"count"`
	AvgSellingPrice        decimal.Decimal `json:"avg_selling_price"`
	AvgSellingPriceDisplay string          `json:"avg_selling_price_display"`
	AvgProfitMargin        decimal.Decimal `json:"avg_profit_margin"`
	TotalCatalogValue      decimal.Decimal `json:"total_catalog_value"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	quote := p.Quote()
	return ProductResponse{
		ID:                  p.ID,
		OwnerID:             p.OwnerID,
		ProductCode:         p.ProductCode,
		Name:                p.Name,
		Description:         p.Description,
		Specifications:      p.Specifications,
		MaterialCost:        p.MaterialCost,
		LaborCost:           p.LaborCost,
		OverheadCost:        p.OverheadCost,
		OtherCost:           p.OtherCost,
		TotalCost:           quote.TotalCost,
		ProfitMargin:        p.ProfitMargin,
		SellingPrice:        p.SellingPrice,
		SellingPriceDisplay: pricing.FormatIDR(p.SellingPrice),
		MarginOutOfRange:    quote.MarginOutOfRange,
		ImageURL:            p.ImageURL,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
		Version:             p.Version,
	}
}

// ToProductListResponse converts a domain Product to ProductListResponse
func ToProductListResponse(p *catalog.Product) ProductListResponse {
	return ProductListResponse{
		ID:                  p.ID,
		ProductCode:         p.ProductCode,
		Name:                p.Name,
		TotalCost:           p.TotalCost(),
		ProfitMargin:        p.ProfitMargin,
		SellingPrice:        p.SellingPrice,
		SellingPriceDisplay: pricing.FormatIDR(p.SellingPrice),
		ImageURL:            p.ImageURL,
		CreatedAt:           p.CreatedAt,
	}
}

// ToProductListResponses converts a slice of domain Products to ProductListResponses
func ToProductListResponses(products []catalog.Product) []ProductListResponse {
	responses := make([]ProductListResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductListResponse(&p)
	}
	return responses
}

// ToProductStatsResponse converts domain stats to the API shape
func ToProductStatsResponse(s *catalog.ProductStats) ProductStatsResponse {
	return ProductStatsResponse{
		Count:                  s.Count,
		AvgSellingPrice:        s.AvgSellingPrice,
		AvgSellingPriceDisplay: pricing.FormatIDR(s.AvgSellingPrice),
		AvgProfitMargin:        s.AvgProfitMargin,
		TotalCatalogValue:      s.TotalCatalogValue,
	}
}

func (r CreateProductRequest) costInput() pricing.CostInput {
	return pricing.CostInput{
		MaterialCost: valueOrZero(r.MaterialCost),
		LaborCost:    valueOrZero(r.LaborCost),
		OverheadCost: valueOrZero(r.OverheadCost),
		OtherCost:    valueOrZero(r.OtherCost),
		ProfitMargin: valueOrZero(r.ProfitMargin),
	}
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
