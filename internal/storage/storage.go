// Package storage uploads user-supplied assets to an object store.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"promptly/internal/config"
)

// ObjectStorage is the asset host. Keys are bucket-relative object names.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL returns the public address of key.
	URL(key string) string
	Bucket() string
	Name() string
}

// New builds the backend selected by ASSET_BACKEND. It returns nil, nil when assets are
// disabled.
func New(ctx context.Context, cfg *config.Config) (ObjectStorage, error) {
	switch cfg.AssetBackend {
	case "", "none":
		return nil, nil
	case "minio":
		return NewMinioClient(MinioConfig{
			Endpoint:      cfg.MinioEndpoint,
			AccessKey:     cfg.MinioAccessKey,
			SecretKey:     cfg.MinioSecretKey,
			UseSSL:        cfg.MinioUseSSL,
			Bucket:        cfg.AssetBucket,
			PublicBaseURL: cfg.AssetPublicBaseURL,
		})
	case "gcs":
		return NewGCSClient(ctx, GCSConfig{
			Bucket:          cfg.AssetBucket,
			CredentialsFile: cfg.GCSCredentialsFile,
			PublicBaseURL:   cfg.AssetPublicBaseURL,
		})
	default:
		return nil, fmt.Errorf("unsupported asset backend %q", cfg.AssetBackend)
	}
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
