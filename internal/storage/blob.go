package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// BlobStore persists uploaded binary content and returns a relative path
// suitable for storing on a catalog record.
type BlobStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	Remove(ctx context.Context, relPath string) error
}

// DiskStore writes blobs under a public static directory.
type DiskStore struct {
	root    string
	maxSize int64
}

// NewDiskStore creates the directory if needed.
func NewDiskStore(root string, maxSize int64) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{root: root, maxSize: maxSize}, nil
}

// Save writes the content under a generated key, keeping the original
// extension. Content larger than the configured limit is rejected.
func (s *DiskStore) Save(_ context.Context, originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	key := uuid.NewString() + ext
	dest := filepath.Join(s.root, key)

	f, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer f.Close()

	limited := io.LimitReader(r, s.maxSize+1)
	written, err := io.Copy(f, limited)
	if err != nil {
		_ = os.Remove(dest)
		return "", err
	}
	if written > s.maxSize {
		_ = os.Remove(dest)
		return "", fmt.Errorf("file exceeds %d bytes", s.maxSize)
	}
	return filepath.ToSlash(filepath.Join(filepath.Base(s.root), key)), nil
}

// Remove deletes a previously saved blob. Missing files are not an error.
func (s *DiskStore) Remove(_ context.Context, relPath string) error {
	if relPath == "" {
		return nil
	}
	full := filepath.Join(filepath.Dir(s.root), filepath.FromSlash(relPath))
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
