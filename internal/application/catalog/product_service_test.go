package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pricecraft/backend/internal/domain/catalog"
	"github.com/pricecraft/backend/internal/domain/pricing"
	"github.com/pricecraft/backend/internal/domain/shared"
)

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCodeForOwner(ctx context.Context, ownerID uuid.UUID, code string) (*catalog.Product, error) {
	args := m.Called(ctx, ownerID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockProductRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsByCode(ctx context.Context, ownerID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, ownerID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) ExistsByCodeExcluding(ctx context.Context, ownerID uuid.UUID, code string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, ownerID, code, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) StatsForOwner(ctx context.Context, ownerID uuid.UUID) (*catalog.ProductStats, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductStats), args.Error(1)
}

// Test helper functions
func newTestOwnerID() uuid.UUID {
	return uuid.MustParse("11111111-1111-1111-1111-111111111111")
}

func newTestProductID() uuid.UUID {
	return uuid.MustParse("22222222-2222-2222-2222-222222222222")
}

func dec(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func decPtr(s string) *decimal.Decimal {
	v := dec(s)
	return &v
}

func createTestProduct(ownerID uuid.UUID) *catalog.Product {
	product, _ := catalog.NewProduct(ownerID, "BRD-001", "Banana Bread", pricing.CostInput{
		MaterialCost: dec("100000"),
		LaborCost:    dec("50000"),
		OverheadCost: dec("20000"),
		OtherCost:    dec("5000"),
		ProfitMargin: dec("20"),
	})
	return product
}

// Tests for ProductService.Create

func TestProductService_Create_Success(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo)

	ctx := context.Background()
	ownerID := newTestOwnerID()
	req := CreateProductRequest{
		ProductCode:  "BRD-001",
		Name:         "Banana Bread",
		MaterialCost: decPtr("100000"),
		LaborCost:    decPtr("50000"),
		OverheadCost: decPtr("20000"),
		OtherCost:    decPtr("5000"),
		ProfitMargin: decPtr("20"),
	}

	mockRepo.On("ExistsByCode", ctx, ownerID, req.ProductCode).Return(false, nil)
	mockRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

	result, err := service.Create(ctx, ownerID, req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "BRD-001", result.ProductCode)
	assert.Equal(t, ownerID, result.OwnerID)
	assert.True(t, result.TotalCost.Equal(dec("175000")))
	assert.True(t, result.SellingPrice.Equal(dec("210000")), "selling price: %s", result.SellingPrice)
	mockRepo.AssertExpectations(t)
}

func TestProductService_Create_OmittedCostsDefaultToZero(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo)

	ctx := context.Background()
	ownerID := newTestOwnerID()
	req := CreateProductRequest{
		ProductCode:  "BRD-002",
		Name:         "Plain Bread",
		ProfitMargin: decPtr("50"),
	}

	mockRepo.On("ExistsByCode", ctx, ownerID, req.ProductCode).Return(false, nil)
	mockRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

	result, err := service.Create(ctx, ownerID, req)

	assert.NoError(t, err)
	assert.True(t, result.TotalCost.IsZero())
	assert.True(t, result.SellingPrice.IsZero())
	mockRepo.AssertExpectations(t)
}

func TestProductService_Create_WithoutCode(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo)

	ctx := context.Background()
	ownerID := newTestOwnerID()
	req := CreateProductRequest{
		Name:         "Keripik Singkong",
		MaterialCost: decPtr("10000"),
		ProfitMargin: decPtr("25"),
	}

	// No code means no uniqueness check.
	mockRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

	result, err := service.Create(ctx, ownerID, req)

	assert.NoError(t, err)
	assert.Empty(t, result.ProductCode)
	assert.True(t, result.SellingPrice.Equal(dec("12500")))
	mockRepo.AssertNotCalled(t, "ExistsByCode", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestProductService_Create_WithSpecifications(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo)

	ctx := context.Background()
	ownerID := newTestOwnerID()
	req := CreateProductRequest{
		ProductCode:    "KRP-001",
		Name:           "Keripik Singkong",
		Description:    "original flavor",
		Specifications: "200g per pack, 6 month shelf life",
	}

	mockRepo.On("ExistsByCode", ctx, ownerID, req.ProductCode).Return(false, nil)
	mockRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

	result, err := service.Create(ctx, ownerID, req)

	assert.NoError(t, err)
	assert.Equal(t, "original flavor", result.Description)
	assert.Equal(t, "200g per pack, 6 month shelf life", result.Specifications)
	mockRepo.AssertExpectations(t)
}

func TestProductService_Create_NegativeCost(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo)

	ctx := context.Background()
	ownerID := newTestOwnerID()
	req := CreateProductRequest{
		Name:         "Keripik Singkong",
		MaterialCost: decPtr("-100"),
	}

	result, err := service.Create(ctx, ownerID, req)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_COST", domainErr.Code)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductService_Create_DuplicateCode(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo)

	ctx := context.Background()
	ownerID := newTestOwnerID()
	req := CreateProductRequest{
		ProductCode: "EXISTING-001",
		Name:        "New Product",
	}

	mockRepo.On("ExistsByCode", ctx, ownerID, req.ProductCode).Return(true, nil)

	result, err := service.Create(ctx, ownerID, req)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	mockRepo.AssertExpectations(t)
}

func TestProductService_Create_RepositoryError(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo)

	ctx := context.Background()
	ownerID := newTestOwnerID()
	req := CreateProductRequest{ProductCode: "BRD-001", Name: "Banana Bread"}

	mockRepo.On("ExistsByCode", ctx, ownerID, req.ProductCode).Return(false, shared.ErrBackingStore)

	result, err := service.Create(ctx, ownerID, req)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "BACKING_STORE_FAILURE", domainErr.Code)
}

// Tests for ProductService.GetByID

func TestProductService_GetByID_Success(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo)

	ctx := context.Background()
	ownerID := newTestOwnerID()
	product := createTestProduct(ownerID)

	mockRepo.On("FindByIDForOwner", ctx, ownerID, product.ID).Return(product, nil)

	result, err := service.GetByID(ctx, ownerID, product.ID)

	assert.NoError(t, err)
	assert.Equal(t, product.ID, result.ID)
	assert.True(t, result.SellingPrice.Equal(dec("210000")))
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetByID_NotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo)

	ctx := context.Background()
	ownerID := newTestOwnerID()
	productID := newTestProductID()

	mockRepo.On("FindByIDForOwner", ctx, ownerID, productID).Return(nil, shared.ErrNotFound)

	result, err := service.GetByID(ctx, ownerID, productID)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

// Tests for ProductService.List

func TestProductService_List_DefaultsToNewestFirst(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo)

	ctx := context.Background()
	ownerID := newTestOwnerID()
	products := []catalog.Product{*createTestProduct(ownerID)}

	matchDefault := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 20 && f.OrderBy == "created_at" && f.OrderDir == "desc"
	})
	mockRepo.On("FindAllForOwner", ctx, ownerID, matchDefault).Return(products, nil)
	mockRepo.On("CountForOwner", ctx, ownerID, matchDefault).Return(int64(1), nil)

	result, total, err := service.List(ctx, ownerID, ProductListFilter{})

	assert.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, int64(1), total)
	mockRepo.AssertExpectations(t)
}

func TestProductService_List_PassesSearchTerm(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo)

	ctx := context.Background()
	ownerID := newTestOwnerID()

	matchSearch := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Search == "bread"
	})
	mockRepo.On("FindAllForOwner", ctx, ownerID, matchSearch).Return([]catalog.Product{}, nil)
	mockRepo.On("CountForOwner", ctx, ownerID, matchSearch).Return(int64(0), nil)

	result, total, err := service.List(ctx, ownerID, ProductListFilter{Search: "bread"})

	assert.NoError(t, err)
	assert.Empty(t, result)
	assert.Equal(t, int64(0), total)
	mockRepo.AssertExpectations(t)
}

// Tests for ProductService.Update

func TestProductService_Update_RecomputesSellingPrice(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo)

	ctx := context.Background()
	ownerID := newTestOwnerID()
	product := createTestProduct(ownerID)

	mockRepo.On("FindByIDForOwner", ctx, ownerID, product.ID).Return(product, nil)
	mockRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

	result, err := service.Update(ctx, ownerID, product.ID, UpdateProductRequest{
		MaterialCost: decPtr("200000"),
	})

	assert.NoError(t, err)
	// 200000 + 50000 + 20000 + 5000 = 275000, +20% = 330000
	assert.True(t, result.TotalCost.Equal(dec("275000")))
	assert.True(t, result.SellingPrice.Equal(dec("330000")), "selling price: %s", result.SellingPrice)
	mockRepo.AssertExpectations(t)
}

func TestProductService_Update_PartialMergeKeepsOtherFields(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo)

	ctx := context.Background()
	ownerID := newTestOwnerID()
	product := createTestProduct(ownerID)

	mockRepo.On("FindByIDForOwner", ctx, ownerID, product.ID).Return(product, nil)
	mockRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

	newName := "Chocolate Bread"
	result, err := service.Update(ctx, ownerID, product.ID, UpdateProductRequest{Name: &newName})

	assert.NoError(t, err)
	assert.Equal(t, "Chocolate Bread", result.Name)
	assert.Equal(t, "BRD-001", result.ProductCode)
	assert.True(t, result.SellingPrice.Equal(dec("210000")))
	assert.Equal(t, ownerID, result.OwnerID)
	mockRepo.AssertExpectations(t)
}

func TestProductService_Update_NotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo)

	ctx := context.Background()
	ownerID := newTestOwnerID()
	productID := newTestProductID()

	mockRepo.On("FindByIDForOwner", ctx, ownerID, productID).Return(nil, shared.ErrNotFound)

	newName := "Chocolate Bread"
	result, err := service.Update(ctx, ownerID, productID, UpdateProductRequest{Name: &newName})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestProductService_Update_CodeConflict(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo)

	ctx := context.Background()
	ownerID := newTestOwnerID()
	product := createTestProduct(ownerID)

	mockRepo.On("FindByIDForOwner", ctx, ownerID, product.ID).Return(product, nil)
	mockRepo.On("ExistsByCodeExcluding", ctx, ownerID, "TAKEN-001", product.ID).Return(true, nil)

	newCode := "TAKEN-001"
	result, err := service.Update(ctx, ownerID, product.ID, UpdateProductRequest{ProductCode: &newCode})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	mockRepo.AssertExpectations(t)
}

func TestProductService_Update_ClearingCodeSkipsUniquenessCheck(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo)

	ctx := context.Background()
	ownerID := newTestOwnerID()
	product := createTestProduct(ownerID)

	mockRepo.On("FindByIDForOwner", ctx, ownerID, product.ID).Return(product, nil)
	mockRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

	blank := ""
	result, err := service.Update(ctx, ownerID, product.ID, UpdateProductRequest{ProductCode: &blank})

	assert.NoError(t, err)
	assert.Empty(t, result.ProductCode)
	mockRepo.AssertNotCalled(t, "ExistsByCodeExcluding", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestProductService_Update_NegativeMargin(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo)

	ctx := context.Background()
	ownerID := newTestOwnerID()
	product := createTestProduct(ownerID)

	mockRepo.On("FindByIDForOwner", ctx, ownerID, product.ID).Return(product, nil)

	result, err := service.Update(ctx, ownerID, product.ID, UpdateProductRequest{
		ProfitMargin: decPtr("-10"),
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_MARGIN", domainErr.Code)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// Tests for ProductService.Delete

func TestProductService_Delete_Success(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo)

	ctx := context.Background()
	ownerID := newTestOwnerID()
	productID := newTestProductID()

	mockRepo.On("DeleteForOwner", ctx, ownerID, productID).Return(nil)

	err := service.Delete(ctx, ownerID, productID)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestProductService_Delete_AbsentProductIsNoError(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo)

	ctx := context.Background()
	ownerID := newTestOwnerID()
	productID := uuid.New()

	// The repository treats a zero-row delete as success.
	mockRepo.On("DeleteForOwner", ctx, ownerID, productID).Return(nil)

	assert.NoError(t, service.Delete(ctx, ownerID, productID))
}

func TestProductService_Delete_BackingStoreError(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo)

	ctx := context.Background()
	ownerID := newTestOwnerID()
	productID := newTestProductID()

	mockRepo.On("DeleteForOwner", ctx, ownerID, productID).Return(shared.ErrBackingStore)

	err := service.Delete(ctx, ownerID, productID)

	assert.Error(t, err)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "BACKING_STORE_FAILURE", domainErr.Code)
}

// Tests for ProductService.Stats

func TestProductService_Stats_Success(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo)

	ctx := context.Background()
	ownerID := newTestOwnerID()

	mockRepo.On("StatsForOwner", ctx, ownerID).Return(&catalog.ProductStats{
		Count:             3,
		AvgSellingPrice:   dec("150000"),
		AvgProfitMargin:   dec("25"),
		TotalCatalogValue: dec("450000"),
	}, nil)

	result, err := service.Stats(ctx, ownerID)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), result.Count)
	assert.True(t, result.AvgSellingPrice.Equal(dec("150000")))
	assert.NotEmpty(t, result.AvgSellingPriceDisplay)
	mockRepo.AssertExpectations(t)
}
