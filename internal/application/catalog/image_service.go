package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pricecraft/backend/internal/domain/catalog"
	"github.com/pricecraft/backend/internal/domain/shared"
)

// AllowedImageContentTypes whitelists upload content types and maps them
// to object key extensions. SVG is excluded because it can carry scripts.
var AllowedImageContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ObjectStorageService defines the interface for object storage operations.
// It is implemented by the infrastructure layer (S3-compatible storage or
// a local stub).
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// ImageServiceConfig holds configuration for the product image service
type ImageServiceConfig struct {
	UploadURLExpiry   time.Duration
	DownloadURLExpiry time.Duration
}

// DefaultImageServiceConfig returns the default configuration
func DefaultImageServiceConfig() ImageServiceConfig {
	return ImageServiceConfig{
		UploadURLExpiry:   15 * time.Minute,
		DownloadURLExpiry: 1 * time.Hour,
	}
}

// ImageUploadRequest asks for a presigned upload slot for a product image
type ImageUploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// ImageUploadResponse carries the presigned upload URL and the object key
// the client must confirm after uploading
type ImageUploadResponse struct {
	StorageKey string    `json:"storage_key"`
	UploadURL  string    `json:"upload_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ImageConfirmRequest confirms a completed upload
type ImageConfirmRequest struct {
	StorageKey string `json:"storage_key" binding:"required,max=500"`
}

// ImageDownloadResponse carries a presigned download URL
type ImageDownloadResponse struct {
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ProductImageService manages product images in object storage
type ProductImageService struct {
	productRepo catalog.ProductRepository
	storage     ObjectStorageService
	config      ImageServiceConfig
	logger      *zap.Logger
}

// NewProductImageService creates a new ProductImageService
func NewProductImageService(
	productRepo catalog.ProductRepository,
	storage ObjectStorageService,
	config ImageServiceConfig,
	logger *zap.Logger,
) *ProductImageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductImageService{
		productRepo: productRepo,
		storage:     storage,
		config:      config,
		logger:      logger,
	}
}

// RequestUploadURL issues a presigned upload URL for a product image.
// The product must already exist in the owner's catalog.
func (s *ProductImageService) RequestUploadURL(
	ctx context.Context,
	ownerID, productID uuid.UUID,
	req ImageUploadRequest,
) (*ImageUploadResponse, error) {
	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	ext, ok := AllowedImageContentTypes[contentType]
	if !ok {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unsupported image content type")
	}

	if _, err := s.productRepo.FindByIDForOwner(ctx, ownerID, productID); err != nil {
		return nil, err
	}

	storageKey := s.storageKey(ownerID, ext)
	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, storageKey, contentType, s.config.UploadURLExpiry)
	if err != nil {
		s.logger.Error("Failed to generate image upload URL",
			zap.String("storage_key", storageKey),
			zap.Error(err),
		)
		return nil, shared.NewDomainError("BACKING_STORE_FAILURE", "Failed to generate upload URL")
	}

	return &ImageUploadResponse{
		StorageKey: storageKey,
		UploadURL:  uploadURL,
		ExpiresAt:  expiresAt,
	}, nil
}

// ConfirmUpload verifies the object was uploaded and attaches it to the
// product, replacing and removing any previous image.
func (s *ProductImageService) ConfirmUpload(
	ctx context.Context,
	ownerID, productID uuid.UUID,
	req ImageConfirmRequest,
) (*ProductResponse, error) {
	if !strings.HasPrefix(req.StorageKey, s.keyPrefix(ownerID)) {
		return nil, shared.NewDomainError("FORBIDDEN", "Storage key does not belong to this user")
	}

	product, err := s.productRepo.FindByIDForOwner(ctx, ownerID, productID)
	if err != nil {
		return nil, err
	}

	exists, err := s.storage.ObjectExists(ctx, req.StorageKey)
	if err != nil {
		return nil, shared.NewDomainError("BACKING_STORE_FAILURE", "Failed to verify uploaded image")
	}
	if !exists {
		return nil, shared.NewDomainError("INVALID_STATE", "Image has not been uploaded yet")
	}

	previousKey := product.ImageURL
	if err := product.SetImageURL(req.StorageKey); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	if previousKey != "" && previousKey != req.StorageKey {
		if err := s.storage.DeleteObject(ctx, previousKey); err != nil {
			// The new image is already attached; a stale object is not fatal.
			s.logger.Warn("Failed to delete replaced product image",
				zap.String("storage_key", previousKey),
				zap.Error(err),
			)
		}
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetDownloadURL issues a presigned download URL for the product's image
func (s *ProductImageService) GetDownloadURL(
	ctx context.Context,
	ownerID, productID uuid.UUID,
) (*ImageDownloadResponse, error) {
	product, err := s.productRepo.FindByIDForOwner(ctx, ownerID, productID)
	if err != nil {
		return nil, err
	}

	if product.ImageURL == "" {
		return nil, shared.NewDomainError("NOT_FOUND", "Product has no image")
	}

	downloadURL, expiresAt, err := s.storage.GenerateDownloadURL(ctx, product.ImageURL, s.config.DownloadURLExpiry)
	if err != nil {
		return nil, shared.NewDomainError("BACKING_STORE_FAILURE", "Failed to generate download URL")
	}

	return &ImageDownloadResponse{
		DownloadURL: downloadURL,
		ExpiresAt:   expiresAt,
	}, nil
}

// RemoveImage detaches and deletes the product's image. Removing an
// image from a product that has none is a no-op.
func (s *ProductImageService) RemoveImage(ctx context.Context, ownerID, productID uuid.UUID) error {
	product, err := s.productRepo.FindByIDForOwner(ctx, ownerID, productID)
	if err != nil {
		return err
	}

	if product.ImageURL == "" {
		return nil
	}

	storageKey := product.ImageURL
	if err := product.SetImageURL(""); err != nil {
		return err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return err
	}

	if err := s.storage.DeleteObject(ctx, storageKey); err != nil {
		s.logger.Warn("Failed to delete detached product image",
			zap.String("storage_key", storageKey),
			zap.Error(err),
		)
	}

	return nil
}

func (s *ProductImageService) keyPrefix(ownerID uuid.UUID) string {
	return fmt.Sprintf("products/%s/", ownerID)
}

func (s *ProductImageService) storageKey(ownerID uuid.UUID, ext string) string {
	return fmt.Sprintf("products/%s/%s%s", ownerID, uuid.New(), ext)
}
