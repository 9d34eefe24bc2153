package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	catalogapp "github.com/pricecraft/backend/internal/application/catalog"
	"github.com/pricecraft/backend/internal/interfaces/http/dto"
)

// ProductHandler exposes the product catalog endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
	imageService   *catalogapp.ProductImageService
}

// NewProductHandler creates a ProductHandler
func NewProductHandler(
	productService *catalogapp.ProductService,
	imageService *catalogapp.ProductImageService,
	logger *zap.Logger,
) *ProductHandler {
	return &ProductHandler{
		BaseHandler:    NewBaseHandler(logger),
		productService: productService,
		imageService:   imageService,
	}
}

// RegisterRoutes registers the product endpoints on the given group
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.POST("", h.Create)
		products.GET("", h.List)
		products.GET("/stats", h.Stats)
		products.GET("/by-code/:code", h.GetByCode)
		products.GET("/:id", h.GetByID)
		products.PUT("/:id", h.Update)
		products.DELETE("/:id", h.Delete)

		products.POST("/:id/image/upload-url", h.RequestImageUpload)
		products.POST("/:id/image/confirm", h.ConfirmImageUpload)
		products.GET("/:id/image", h.GetImageURL)
		products.DELETE("/:id/image", h.RemoveImage)
	}
}

func (h *ProductHandler) bindProductID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid product ID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return uuid.Nil, false
	}
	return id, true
}

// Create adds a product to the caller's catalog
// @Summary Create a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body catalogapp.CreateProductRequest true "Product payload"
// @Success 201 {object} dto.Response
// @Router /api/v1/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	ownerID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// List returns a page of the caller's products
// @Summary List products
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param search query string false "Name or code substring"
// @Success 200 {object} dto.Response
// @Router /api/v1/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	ownerID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var filter catalogapp.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	products, total, err := h.productService.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// Stats returns aggregate figures for the caller's catalog
// @Summary Catalog statistics
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Response
// @Router /api/v1/products/stats [get]
func (h *ProductHandler) Stats(c *gin.Context) {
	ownerID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	stats, err := h.productService.Stats(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

// GetByID returns a single product
// @Summary Get a product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} dto.Response
// @Router /api/v1/products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	ownerID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	productID, ok := h.bindProductID(c)
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), ownerID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// GetByCode returns a single product looked up by its code
// @Summary Get a product by code
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param code path string true "Product code"
// @Success 200 {object} dto.Response
// @Router /api/v1/products/by-code/{code} [get]
func (h *ProductHandler) GetByCode(c *gin.Context) {
	ownerID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Product code is required")
		return
	}

	product, err := h.productService.GetByCode(c.Request.Context(), ownerID, code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Update modifies a product
// @Summary Update a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body catalogapp.UpdateProductRequest true "Fields to update"
// @Success 200 {object} dto.Response
// @Router /api/v1/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	ownerID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	productID, ok := h.bindProductID(c)
	if !ok {
		return
	}

	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.Update(c.Request.Context(), ownerID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete removes a product from the catalog
// @Summary Delete a product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 204
// @Router /api/v1/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	ownerID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	productID, ok := h.bindProductID(c)
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), ownerID, productID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RequestImageUpload issues a presigned upload URL for a product image
// @Summary Request an image upload URL
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body catalogapp.ImageUploadRequest true "Upload request"
// @Success 200 {object} dto.Response
// @Router /api/v1/products/{id}/image/upload-url [post]
func (h *ProductHandler) RequestImageUpload(c *gin.Context) {
	ownerID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	productID, ok := h.bindProductID(c)
	if !ok {
		return
	}

	var req catalogapp.ImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.imageService.RequestUploadURL(c.Request.Context(), ownerID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ConfirmImageUpload attaches an uploaded image to the product
// @Summary Confirm an image upload
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body catalogapp.ImageConfirmRequest true "Confirmation payload"
// @Success 200 {object} dto.Response
// @Router /api/v1/products/{id}/image/confirm [post]
func (h *ProductHandler) ConfirmImageUpload(c *gin.Context) {
	ownerID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	productID, ok := h.bindProductID(c)
	if !ok {
		return
	}

	var req catalogapp.ImageConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.imageService.ConfirmUpload(c.Request.Context(), ownerID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// GetImageURL issues a presigned download URL for the product's image
// @Summary Get an image download URL
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} dto.Response
// @Router /api/v1/products/{id}/image [get]
func (h *ProductHandler) GetImageURL(c *gin.Context) {
	ownerID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	productID, ok := h.bindProductID(c)
	if !ok {
		return
	}

	resp, err := h.imageService.GetDownloadURL(c.Request.Context(), ownerID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// RemoveImage detaches and deletes the product's image
// @Summary Remove a product image
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 204
// @Router /api/v1/products/{id}/image [delete]
func (h *ProductHandler) RemoveImage(c *gin.Context) {
	ownerID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	productID, ok := h.bindProductID(c)
	if !ok {
		return
	}

	if err := h.imageService.RemoveImage(c.Request.Context(), ownerID, productID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
