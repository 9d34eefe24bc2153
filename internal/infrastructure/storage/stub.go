package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	catalogapp "github.com/pricecraft/backend/internal/application/catalog"
)

// Ensure StubObjectStorage implements ObjectStorageService
var _ catalogapp.ObjectStorageService = (*StubObjectStorage)(nil)

// StubObjectStorage is an in-memory placeholder used when no real object
// storage is configured. URLs it returns are not usable for actual
// uploads; it exists so development environments work without S3.
type StubObjectStorage struct {
	BaseURL string
}

// NewStubObjectStorage creates a stub storage service
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{
		BaseURL: "https://storage.example.com",
	}
}

// GenerateUploadURL returns a fake upload URL
func (s *StubObjectStorage) GenerateUploadURL(
	_ context.Context,
	storageKey, _ string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	expiresAt := time.Now().Add(expiresIn)
	uploadURL := fmt.Sprintf("%s/upload/%s?expires=%s", s.BaseURL, storageKey, expiresAt.Format(time.RFC3339))
	return uploadURL, expiresAt, nil
}

// GenerateDownloadURL returns a fake download URL
func (s *StubObjectStorage) GenerateDownloadURL(
	_ context.Context,
	storageKey string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	expiresAt := time.Now().Add(expiresIn)
	downloadURL := fmt.Sprintf("%s/download/%s?expires=%s", s.BaseURL, storageKey, expiresAt.Format(time.RFC3339))
	return downloadURL, expiresAt, nil
}

// DeleteObject is a no-op for the stub
func (s *StubObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	return nil
}

// ObjectExists always reports true for the stub
func (s *StubObjectStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}
	return true, nil
}
