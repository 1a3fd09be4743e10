package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pageza/nutrifit/backend/internal/service"
	"github.com/pageza/nutrifit/backend/internal/testhelpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter mounts the handlers the same way the production router does
func newTestRouter(recipes service.IRecipeService, uploads service.IUploadService, maxUpload int64) *gin.Engine {
	router := gin.New()
	apiGroup := router.Group("/api")
	NewRecipeHandler(recipes).RegisterRoutes(apiGroup)
	if uploads != nil {
		NewUploadHandler(uploads, maxUpload).RegisterRoutes(apiGroup)
	}
	return router
}

// setupRecipeTestRouter wires a real service over in-memory sqlite
func setupRecipeTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testhelpers.SetupSQLiteDB(t)
	return newTestRouter(service.NewRecipeService(db), nil, 0), db
}

// PerformRequest sends body as JSON when non-nil
func PerformRequest(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(testhelpers.JSONMarshal(t, body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decode unmarshals a response body or fails the test
func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return v
}
