package storage

import (
	"context"
	"io"
)

// ObjectStorage stores uploaded product images. Keys are the relative image
// paths persisted on products (leading slash stripped), so the same key backs
// both the database record and the served /uploads path.
type ObjectStorage interface {
	// EnsureBucket prepares the backing bucket or directory
	EnsureBucket(ctx context.Context) error

	// Upload stores an object under key
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Download opens an object for reading
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes an object
	Delete(ctx context.Context, key string) error

	// Exists checks if an object exists
	Exists(ctx context.Context, key string) (bool, error)
}
