package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pricecraft/backend/internal/domain/catalog"
	"github.com/pricecraft/backend/internal/domain/shared"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByIDForOwner finds a product by ID within an owner's catalog
func (r *GormProductRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, shared.ErrBackingStore
	}
	return &product, nil
}

// FindByCodeForOwner finds a product by its code within an owner's catalog
func (r *GormProductRepository) FindByCodeForOwner(ctx context.Context, ownerID uuid.UUID, code string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND product_code = ?", ownerID, strings.ToUpper(code)).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, shared.ErrBackingStore
	}
	return &product, nil
}

// FindAllForOwner finds all products for an owner matching the filter
func (r *GormProductRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.applyFilter(ownerScope(r.db.WithContext(ctx), ownerID), filter)

	if err := query.Find(&products).Error; err != nil {
		return nil, shared.ErrBackingStore
	}
	return products, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return shared.ErrBackingStore
	}
	return nil
}

// DeleteForOwner deletes a product within an owner's catalog.
// Deleting an absent product is not an error.
func (r *GormProductRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Product{}, "owner_id = ? AND id = ?", ownerID, id)
	if result.Error != nil {
		return shared.ErrBackingStore
	}
	return nil
}

// CountForOwner counts products for an owner matching the filter
func (r *GormProductRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(ownerScope(r.db.WithContext(ctx), ownerID), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, shared.ErrBackingStore
	}
	return count, nil
}

// CountAll counts products across all catalogs, used for a telemetry gauge
func (r *GormProductRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.Product{}).Count(&count).Error; err != nil {
		return 0, shared.ErrBackingStore
	}
	return count, nil
}

// ExistsByCode checks if a product with the given code exists in the owner's catalog
func (r *GormProductRepository) ExistsByCode(ctx context.Context, ownerID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("owner_id = ? AND product_code = ?", ownerID, strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, shared.ErrBackingStore
	}
	return count > 0, nil
}

// ExistsByCodeExcluding checks for a code conflict ignoring one product
func (r *GormProductRepository) ExistsByCodeExcluding(ctx context.Context, ownerID uuid.UUID, code string, excludeID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("owner_id = ? AND product_code = ? AND id != ?", ownerID, strings.ToUpper(code), excludeID).
		Count(&count).Error; err != nil {
		return false, shared.ErrBackingStore
	}
	return count > 0, nil
}

// productStatsRow is the scan target for StatsForOwner aggregates
type productStatsRow struct {
	Count           int64
	AvgSellingPrice decimal.NullDecimal
	AvgProfitMargin decimal.NullDecimal
	TotalValue      decimal.NullDecimal
	LatestCreatedAt *time.Time
}

// StatsForOwner aggregates catalog statistics for an owner
func (r *GormProductRepository) StatsForOwner(ctx context.Context, ownerID uuid.UUID) (*catalog.ProductStats, error) {
	var row productStatsRow
	err := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Select("COUNT(*) AS count, " +
			"AVG(selling_price) AS avg_selling_price, " +
			"AVG(profit_margin) AS avg_profit_margin, " +
			"SUM(selling_price) AS total_value, " +
			"MAX(created_at) AS latest_created_at").
		Where("owner_id = ?", ownerID).
		Scan(&row).Error
	if err != nil {
		return nil, shared.ErrBackingStore
	}

	stats := &catalog.ProductStats{
		Count:             row.Count,
		AvgSellingPrice:   nullDecimalOrZero(row.AvgSellingPrice),
		AvgProfitMargin:   nullDecimalOrZero(row.AvgProfitMargin),
		TotalCatalogValue: nullDecimalOrZero(row.TotalValue),
	}
	if row.LatestCreatedAt != nil {
		latest := row.LatestCreatedAt.UTC().Unix()
		stats.LatestProductAtUTC = &latest
	}
	return stats, nil
}

func nullDecimalOrZero(d decimal.NullDecimal) decimal.Decimal {
	if d.Valid {
		return d.Decimal
	}
	return decimal.Zero
}

func ownerScope(db *gorm.DB, ownerID uuid.UUID) *gorm.DB {
	return db.Model(&catalog.Product{}).Where("owner_id = ?", ownerID)
}

// applyFilter applies search, ordering and pagination to the query
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	orderBy := ValidateSortField(filter.OrderBy, ProductSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}

// applySearch applies the case-insensitive search term.
// LOWER/LIKE keeps the query portable between Postgres and SQLite.
func (r *GormProductRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(product_code) LIKE ?", pattern, pattern)
	}
	return query
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
