package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage implements ObjectStorage on the local filesystem. It is the
// default backend for development, mirroring the upload directory layout the
// API serves under /uploads.
type LocalStorage struct {
	dir string
}

// NewLocalStorage creates a filesystem-backed storage rooted at dir.
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if dir == "" {
		return nil, fmt.Errorf("local storage directory is required")
	}
	return &LocalStorage{dir: dir}, nil
}

// EnsureBucket creates the root directory if it doesn't exist.
func (s *LocalStorage) EnsureBucket(_ context.Context) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	return nil
}

// path resolves a key inside the root, rejecting traversal outside it.
func (s *LocalStorage) path(key string) (string, error) {
	clean := filepath.Join(s.dir, filepath.FromSlash(strings.TrimPrefix(key, "/")))
	root, err := filepath.Abs(s.dir)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(clean)
	if err != nil {
		return "", err
	}
	if abs != root && !strings.HasPrefix(abs, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("key %q escapes storage root", key)
	}
	return clean, nil
}

// Upload writes an object to disk.
func (s *LocalStorage) Upload(_ context.Context, key string, reader io.Reader, _ int64, _ string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}

	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("failed to create object file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, reader); err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}
	return nil
}

// Download opens an object from disk.
func (s *LocalStorage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("failed to open object: %w", err)
	}
	return f, nil
}

// Delete removes an object from disk.
func (s *LocalStorage) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// Exists checks if an object exists on disk.
func (s *LocalStorage) Exists(_ context.Context, key string) (bool, error) {
	p, err := s.path(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
