package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/pricecraft/backend/internal/domain/catalog"
	"github.com/pricecraft/backend/internal/domain/shared"
)

// ProductService handles product-related business operations.
// Every operation is scoped to the owning user taken from the
// authenticated request context.
type ProductService struct {
	productRepo catalog.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
	}
}

// Create creates a new product for the owner. The selling price is
// always derived from the submitted costs. The code is optional; when
// present it must be unique within the owner's catalog.
func (s *ProductService) Create(ctx context.Context, ownerID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	if req.ProductCode != "" {
		exists, err := s.productRepo.ExistsByCode(ctx, ownerID, req.ProductCode)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this code already exists")
		}
	}

	product, err := catalog.NewProduct(ownerID, req.ProductCode, req.Name, req.costInput())
	if err != nil {
		return nil, err
	}

	if req.Description != "" || req.Specifications != "" {
		if err := product.Update(req.Name, req.Description, req.Specifications); err != nil {
			return nil, err
		}
	}

	if req.ImageURL != "" {
		if err := product.SetImageURL(req.ImageURL); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID within the owner's catalog.
// A product owned by someone else is reported as not found.
func (s *ProductService) GetByID(ctx context.Context, ownerID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForOwner(ctx, ownerID, productID)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByCode retrieves a product by code within the owner's catalog
func (s *ProductService) GetByCode(ctx context.Context, ownerID uuid.UUID, code string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByCodeForOwner(ctx, ownerID, code)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves the owner's products with filtering and pagination.
// Defaults to newest first.
func (s *ProductService) List(ctx context.Context, ownerID uuid.UUID, filter ProductListFilter) ([]ProductListResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	products, err := s.productRepo.FindAllForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.CountForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductListResponses(products), total, nil
}

// Update applies a partial update to a product and recomputes its
// selling price from the merged cost fields.
func (s *ProductService) Update(ctx context.Context, ownerID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForOwner(ctx, ownerID, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil || req.Specifications != nil {
		name := product.Name
		description := product.Description
		specifications := product.Specifications
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}
		if req.Specifications != nil {
			specifications = *req.Specifications
		}
		if err := product.Update(name, description, specifications); err != nil {
			return nil, err
		}
	}

	if req.ProductCode != nil && *req.ProductCode != product.ProductCode {
		if *req.ProductCode != "" {
			exists, err := s.productRepo.ExistsByCodeExcluding(ctx, ownerID, *req.ProductCode, productID)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this code already exists")
			}
		}
		if err := product.UpdateCode(*req.ProductCode); err != nil {
			return nil, err
		}
	}

	if req.MaterialCost != nil || req.LaborCost != nil || req.OverheadCost != nil ||
		req.OtherCost != nil || req.ProfitMargin != nil {
		costs := product.CostInput()
		if req.MaterialCost != nil {
			costs.MaterialCost = *req.MaterialCost
		}
		if req.LaborCost != nil {
			costs.LaborCost = *req.LaborCost
		}
		if req.OverheadCost != nil {
			costs.OverheadCost = *req.OverheadCost
		}
		if req.OtherCost != nil {
			costs.OtherCost = *req.OtherCost
		}
		if req.ProfitMargin != nil {
			costs.ProfitMargin = *req.ProfitMargin
		}
		if err := product.SetCosts(costs); err != nil {
			return nil, err
		}
	}

	if req.ImageURL != nil {
		if err := product.SetImageURL(*req.ImageURL); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product from the owner's catalog. Deleting a product
// that does not exist, or that belongs to someone else, is a no-op.
func (s *ProductService) Delete(ctx context.Context, ownerID, productID uuid.UUID) error {
	return s.productRepo.DeleteForOwner(ctx, ownerID, productID)
}

// Stats aggregates catalog statistics for the owner's dashboard
func (s *ProductService) Stats(ctx context.Context, ownerID uuid.UUID) (*ProductStatsResponse, error) {
	stats, err := s.productRepo.StatsForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	response := ToProductStatsResponse(stats)
	return &response, nil
}
