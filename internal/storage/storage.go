// Package storage holds the blob stores that keep uploaded recipe images.
// Recipes only ever store the URL a store hands back.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ErrInvalidKey is returned for keys that would escape the store
var ErrInvalidKey = errors.New("invalid object key")

// BlobStore persists binary content and returns a retrievable URL for it
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// LocalBlobStore writes blobs into a directory served over HTTP
type LocalBlobStore struct {
	dir     string
	baseURL string
	logger  *zap.Logger
}

// NewLocalBlobStore creates the directory if needed. baseURL is the path the
// directory is mounted at, such as /uploads.
func NewLocalBlobStore(dir, baseURL string, logger *zap.Logger) (*LocalBlobStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalBlobStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}, nil
}

// Dir returns the directory blobs are written to
func (s *LocalBlobStore) Dir() string {
	return s.dir
}

// Put writes data under key. Writing the same key twice replaces the content.
func (s *LocalBlobStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, key)
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to close blob: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to set blob permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to store blob: %w", err)
	}

	s.logger.Debug("Stored blob",
		zap.String("key", key),
		zap.String("content_type", contentType),
		zap.Int("size", len(data)),
	)
	return s.baseURL + "/" + key, nil
}

func validateKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
