package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/pageza/nutrifit/backend/internal/storage"
	apperrors "github.com/pageza/nutrifit/backend/pkg/errors"
)

// DefaultMaxUploadBytes is the upload size limit when none is configured
const DefaultMaxUploadBytes int64 = 5 * 1024 * 1024

var allowedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
}

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// UploadService validates uploaded images and hands them to a blob store
type UploadService struct {
	store    storage.BlobStore
	maxBytes int64
	logger   *zap.Logger
}

// NewUploadService creates a new UploadService instance
func NewUploadService(store storage.BlobStore, maxBytes int64, logger *zap.Logger) *UploadService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadService{store: store, maxBytes: maxBytes, logger: logger}
}

var _ IUploadService = (*UploadService)(nil)

// MaxBytes returns the upload size limit
func (s *UploadService) MaxBytes() int64 {
	return s.maxBytes
}

// Store checks the declared extension, the size and the sniffed content type,
// then stores the bytes under a content-addressed key and returns its URL.
func (s *UploadService) Store(ctx context.Context, r io.Reader, declaredName string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(declaredName), "."))
	if !allowedExtensions[ext] {
		return "", apperrors.NewUnsupportedMediaError(fmt.Sprintf("extension %q is not allowed", ext))
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", apperrors.NewBadRequestError("Failed to read uploaded file").WithCause(err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", apperrors.NewPayloadTooLargeError(s.maxBytes)
	}
	if len(data) == 0 {
		return "", apperrors.NewBadRequestError("Uploaded file is empty")
	}

	contentType := http.DetectContentType(data)
	if !allowedContentTypes[contentType] {
		return "", apperrors.NewUnsupportedMediaError(fmt.Sprintf("content type %q is not allowed", contentType))
	}

	key := objectKey(data, ext)
	url, err := s.store.Put(ctx, key, contentType, data)
	if err != nil {
		s.logger.Error("Failed to store upload", zap.String("key", key), zap.Error(err))
		return "", apperrors.NewStorageError("store upload", err)
	}

	s.logger.Info("Upload stored",
		zap.String("key", key),
		zap.String("content_type", contentType),
		zap.Int("size", len(data)),
	)
	return url, nil
}

// objectKey names content by its digest so repeated uploads share one object
func objectKey(data []byte, ext string) string {
	sum := blake2b.Sum256(data)
	return "file-" + hex.EncodeToString(sum[:16]) + "." + ext
}
