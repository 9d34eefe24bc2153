package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pricecraft/backend/internal/domain/shared"
)

// ProductStats aggregates a user's catalog for the dashboard.
type ProductStats struct {
	Count              int64
	AvgSellingPrice    decimal.Decimal
	AvgProfitMargin    decimal.Decimal
	TotalCatalogValue  decimal.Decimal
	LatestProductAtUTC *int64
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByIDForOwner finds a product by ID within an owner's catalog
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Product, error)

	// FindByCodeForOwner finds a product by its code within an owner's catalog
	FindByCodeForOwner(ctx context.Context, ownerID uuid.UUID, code string) (*Product, error)

	// FindAllForOwner finds all products for an owner matching the filter
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// DeleteForOwner deletes a product within an owner's catalog.
	// Deleting an absent product is not an error.
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error

	// CountForOwner counts products for an owner matching the filter
	CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByCode checks if a product with the given code exists in the owner's catalog
	ExistsByCode(ctx context.Context, ownerID uuid.UUID, code string) (bool, error)

	// ExistsByCodeExcluding checks for a code conflict ignoring one product,
	// used when updating a product's own code
	ExistsByCodeExcluding(ctx context.Context, ownerID uuid.UUID, code string, excludeID uuid.UUID) (bool, error)

	// StatsForOwner aggregates catalog statistics for an owner
	StatsForOwner(ctx context.Context, ownerID uuid.UUID) (*ProductStats, error)
}
