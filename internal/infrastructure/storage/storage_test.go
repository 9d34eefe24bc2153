package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraconfig "github.com/pricecraft/backend/internal/infrastructure/config"
)

func TestNewS3ObjectStorageValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *infraconfig.StorageConfig
		wantErr string
	}{
		{
			name:    "nil config",
			cfg:     nil,
			wantErr: "configuration is required",
		},
		{
			name:    "missing bucket",
			cfg:     &infraconfig.StorageConfig{AccessKeyID: "key", SecretAccessKey: "secret"},
			wantErr: "bucket is required",
		},
		{
			name:    "missing access key",
			cfg:     &infraconfig.StorageConfig{Bucket: "images", SecretAccessKey: "secret"},
			wantErr: "access key is required",
		},
		{
			name:    "missing secret key",
			cfg:     &infraconfig.StorageConfig{Bucket: "images", AccessKeyID: "key"},
			wantErr: "secret key is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewS3ObjectStorage(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewS3ObjectStorageDefaults(t *testing.T) {
	cfg := &infraconfig.StorageConfig{
		Bucket:          "pricecraft-images",
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
		Endpoint:        "localhost:9000",
		UsePathStyle:    true,
	}

	s, err := NewS3ObjectStorage(cfg)
	require.NoError(t, err)
	assert.Equal(t, "pricecraft-images", s.GetBucket())
	assert.Equal(t, 15*time.Minute, s.presignExpiration)
}

func TestNewS3ObjectStorageWithOptions(t *testing.T) {
	cfg := &infraconfig.StorageConfig{
		Bucket:          "pricecraft-images",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		UploadExpiry:    5 * time.Minute,
	}

	s, err := NewS3ObjectStorage(cfg, WithPresignExpiration(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, s.presignExpiration)
}

func TestS3ObjectStorageEmptyKey(t *testing.T) {
	cfg := &infraconfig.StorageConfig{
		Bucket:          "pricecraft-images",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
	}
	s, err := NewS3ObjectStorage(cfg)
	require.NoError(t, err)

	ctx := context.Background()

	_, _, err = s.GenerateUploadURL(ctx, "", "image/png", time.Minute)
	assert.Error(t, err)

	_, _, err = s.GenerateDownloadURL(ctx, "", time.Minute)
	assert.Error(t, err)

	err = s.DeleteObject(ctx, "")
	assert.Error(t, err)

	_, err = s.ObjectExists(ctx, "")
	assert.Error(t, err)
}

func TestStubObjectStorageUploadURL(t *testing.T) {
	s := NewStubObjectStorage()
	ctx := context.Background()

	uploadURL, expiresAt, err := s.GenerateUploadURL(ctx, "products/abc/kue.png", "image/png", 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uploadURL, "https://storage.example.com/upload/products/abc/kue.png"))
	assert.Contains(t, uploadURL, "expires=")
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), expiresAt, 2*time.Second)
}

func TestStubObjectStorageDownloadURL(t *testing.T) {
	s := NewStubObjectStorage()

	downloadURL, _, err := s.GenerateDownloadURL(context.Background(), "products/abc/kue.png", time.Hour)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(downloadURL, "https://storage.example.com/download/products/abc/kue.png"))
}

func TestStubObjectStorageEmptyKey(t *testing.T) {
	s := NewStubObjectStorage()
	ctx := context.Background()

	_, _, err := s.GenerateUploadURL(ctx, "", "image/png", time.Minute)
	assert.Error(t, err)

	_, _, err = s.GenerateDownloadURL(ctx, "", time.Minute)
	assert.Error(t, err)

	assert.Error(t, s.DeleteObject(ctx, ""))

	_, err = s.ObjectExists(ctx, "")
	assert.Error(t, err)
}

func TestStubObjectStorageExistsAndDelete(t *testing.T) {
	s := NewStubObjectStorage()
	ctx := context.Background()

	exists, err := s.ObjectExists(ctx, "products/abc/kue.png")
	require.NoError(t, err)
	assert.True(t, exists)

	assert.NoError(t, s.DeleteObject(ctx, "products/abc/kue.png"))
}
