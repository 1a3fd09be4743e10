package api

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/nutrifit/backend/internal/mocks"
	"github.com/pageza/nutrifit/backend/internal/service"
	"github.com/pageza/nutrifit/backend/internal/storage"
	"github.com/pageza/nutrifit/backend/internal/types"
	apperrors "github.com/pageza/nutrifit/backend/pkg/errors"
)

var pngData = append([]byte("\x89PNG\x0D\x0A\x1A\x0A"), bytes.Repeat([]byte{0}, 24)...)

func multipartRequest(t *testing.T, field, filename string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file here"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUpload_StoresLocally(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocalBlobStore(dir, "/uploads", zap.NewNop())
	require.NoError(t, err)
	router := newTestRouter(new(mocks.MockRecipeService), service.NewUploadService(store, 1024, nil), 1024)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, "file", "photo.png", pngData))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[types.UploadResponse](t, w)
	assert.True(t, strings.HasPrefix(resp.URL, "/uploads/file-"))
	assert.True(t, strings.HasSuffix(resp.URL, ".png"))

	stored, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(resp.URL, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, pngData, stored)
}

func TestUpload_Rejections(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocalBlobStore(dir, "/uploads", nil)
	require.NoError(t, err)
	router := newTestRouter(new(mocks.MockRecipeService), service.NewUploadService(store, 64, nil), 64)

	tests := []struct {
		name   string
		req    *http.Request
		status int
		code   string
	}{
		{"missing file", multipartRequest(t, "", "", nil), http.StatusBadRequest, "BAD_REQUEST"},
		{"wrong field", multipartRequest(t, "image", "photo.png", pngData), http.StatusBadRequest, "BAD_REQUEST"},
		{"bad extension", multipartRequest(t, "file", "notes.txt", pngData), http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA"},
		{"not an image", multipartRequest(t, "file", "fake.png", []byte("hello world")), http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA"},
		{"too large", multipartRequest(t, "file", "big.png", append(append([]byte{}, pngData...), make([]byte, 100)...)), http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, tt.req)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, decode[types.ErrorResponse](t, w).Code)
		})
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpload_StorageFailure(t *testing.T) {
	uploads := new(mocks.MockUploadService)
	uploads.On("Store", mock.Anything, pngData, "photo.png").
		Return("", apperrors.NewStorageError("store upload", errors.New("bucket missing")))
	router := newTestRouter(new(mocks.MockRecipeService), uploads, 1024)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, "file", "photo.png", pngData))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "STORAGE_ERROR", decode[types.ErrorResponse](t, w).Code)
	uploads.AssertExpectations(t)
}
