package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pricecraft/backend/internal/domain/pricing"
	"github.com/pricecraft/backend/internal/domain/shared"
)

// Product is a catalog entry owned by a single user. Its selling price
// is always derived from the cost components and profit margin; it is
// never accepted from outside.
type Product struct {
	shared.OwnedAggregateRoot
	ProductCode    string          `gorm:"type:varchar(50);not null"`
	Name           string          `gorm:"type:varchar(200);not null"`
	Description    string          `gorm:"type:text"`
	Specifications string          `gorm:"type:text"`
	MaterialCost   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LaborCost      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OverheadCost   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OtherCost      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ProfitMargin   decimal.Decimal `gorm:"type:decimal(9,4);not null;default:0"`
	SellingPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ImageURL       string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product for the given owner and derives its
// selling price from the supplied costs. The code is optional; when
// present it is normalized to uppercase.
func NewProduct(ownerID uuid.UUID, code, name string, costs pricing.CostInput) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}

	product := &Product{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		ProductCode:        strings.ToUpper(code),
		Name:               name,
	}
	if err := product.SetCosts(costs); err != nil {
		return nil, err
	}

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description, specifications string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.Specifications = specifications
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// UpdateCode updates the product's code. An empty code clears it.
func (p *Product) UpdateCode(code string) error {
	if err := validateProductCode(code); err != nil {
		return err
	}

	p.ProductCode = strings.ToUpper(code)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetCosts replaces the cost components and recomputes the selling price.
func (p *Product) SetCosts(costs pricing.CostInput) error {
	if err := validateCosts(costs); err != nil {
		return err
	}

	p.MaterialCost = costs.MaterialCost
	p.LaborCost = costs.LaborCost
	p.OverheadCost = costs.OverheadCost
	p.OtherCost = costs.OtherCost
	p.ProfitMargin = costs.ProfitMargin
	p.recalculate()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetImageURL sets the stored image object key or URL
func (p *Product) SetImageURL(url string) error {
	if len(url) > 500 {
		return shared.NewDomainError("INVALID_IMAGE_URL", "Image URL cannot exceed 500 characters")
	}

	p.ImageURL = url
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// CostInput returns the product's current cost components.
func (p *Product) CostInput() pricing.CostInput {
	return pricing.CostInput{
		MaterialCost: p.MaterialCost,
		LaborCost:    p.LaborCost,
		OverheadCost: p.OverheadCost,
		OtherCost:    p.OtherCost,
		ProfitMargin: p.ProfitMargin,
	}
}

// TotalCost returns the sum of all cost components.
func (p *Product) TotalCost() decimal.Decimal {
	return p.MaterialCost.Add(p.LaborCost).Add(p.OverheadCost).Add(p.OtherCost)
}

// Quote recomputes the full pricing breakdown from the stored costs.
func (p *Product) Quote() pricing.Quote {
	return pricing.Calculate(p.CostInput())
}

func (p *Product) recalculate() {
	p.SellingPrice = pricing.Calculate(p.CostInput()).SellingPrice
}

// validateProductCode validates the product code (SKU). The code is
// optional, so an empty value is valid.
func validateProductCode(code string) error {
	if code == "" {
		return nil
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	// Code should be alphanumeric with underscores and hyphens
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Product code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

// validateCosts rejects negative cost components and margins. A margin
// above 100 is allowed but flagged on the computed quote.
func validateCosts(costs pricing.CostInput) error {
	if costs.MaterialCost.IsNegative() || costs.LaborCost.IsNegative() ||
		costs.OverheadCost.IsNegative() || costs.OtherCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Cost components cannot be negative")
	}
	if costs.ProfitMargin.IsNegative() {
		return shared.NewDomainError("INVALID_MARGIN", "Profit margin cannot be negative")
	}
	return nil
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
