package storage

import (
	"fmt"
	"strings"

	"github.com/mbela/lookbook/internal/config"
)

// New creates an ObjectStorage instance based on the configuration.
// Parameters:
//   - cfg: storage configuration including type, endpoint, and credentials.
// Returns:
//   - ObjectStorage: initialized storage implementation.
//   - error: non-nil if the storage client cannot be created.
func New(cfg *config.StorageConfig) (ObjectStorage, error) {
	storageType := cfg.Type
	if storageType == "" {
		storageType = detectStorageType(cfg.Endpoint)
	}

	switch storageType {
	case "local":
		return NewLocalStorage(cfg.LocalDir)
	case "minio":
		return NewMinIOStorage(&MinIOConfig{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			UseSSL:    cfg.UseSSL,
			Bucket:    cfg.Bucket,
		})
	case "s3":
		return NewS3Storage(&S3Config{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			UseSSL:    cfg.UseSSL,
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			PublicURL: cfg.PublicURL,
		})
	default:
		return nil, fmt.Errorf("unknown storage type %q", storageType)
	}
}

// detectStorageType guesses the storage backend from the endpoint.
func detectStorageType(endpoint string) string {
	endpoint = strings.ToLower(endpoint)

	switch {
	case endpoint == "":
		return "local"
	case strings.Contains(endpoint, "amazonaws.com"):
		return "s3"
	default:
		return "minio"
	}
}
