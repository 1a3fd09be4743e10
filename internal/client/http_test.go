package client

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/nutrifit/backend/internal/router"
	"github.com/pageza/nutrifit/backend/internal/service"
	"github.com/pageza/nutrifit/backend/internal/storage"
	"github.com/pageza/nutrifit/backend/internal/testhelpers"
	"github.com/pageza/nutrifit/backend/internal/types"
	apperrors "github.com/pageza/nutrifit/backend/pkg/errors"
)

func fastBackOff() backoff.BackOff {
	return backoff.NewConstantBackOff(time.Millisecond)
}

// newAPIServer runs the full route table over in-memory sqlite
func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	db := testhelpers.SetupSQLiteDB(t)
	dir := t.TempDir()
	blobs, err := storage.NewLocalBlobStore(dir, "/uploads", zap.NewNop())
	require.NoError(t, err)

	engine := router.SetupRouter(router.Dependencies{
		Recipes:   service.NewRecipeService(db),
		Uploads:   service.NewUploadService(blobs, 0, nil),
		Health:    pinger{},
		UploadDir: dir,
	})
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return srv
}

type pinger struct{}

func (pinger) Ping(context.Context) error { return nil }

func TestHTTPRepository_EndToEnd(t *testing.T) {
	srv := newAPIServer(t)
	repo := NewHTTPRepository(srv.URL+"/api", WithBackOff(fastBackOff))
	ctx := context.Background()

	created, err := repo.CreateRecipe(ctx, testhelpers.OmeleteDraft())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	recipes, err := repo.ListRecipes(ctx)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Omelete", recipes[0].Name)
	assert.Equal(t, created.ID, recipes[0].ID)

	comment, err := repo.AddComment(ctx, created.ID, types.CreateCommentRequest{Text: "great", Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, created.ID, comment.RecipeID)

	comments, err := repo.ListComments(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)

	updated, err := repo.UpdateRecipe(ctx, created.ID, types.RecipePatch{Name: types.StringPtr("Omelete Simples")})
	require.NoError(t, err)
	assert.Equal(t, "Omelete Simples", updated.Name)

	require.NoError(t, repo.DeleteRecipe(ctx, created.ID))
	recipes, err = repo.ListRecipes(ctx)
	require.NoError(t, err)
	assert.Empty(t, recipes)

	err = repo.DeleteRecipe(ctx, created.ID)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = repo.AddComment(ctx, "missing", types.CreateCommentRequest{Text: "great", Rating: 6})
	assert.True(t, apperrors.IsValidation(err))
}

func TestHTTPRepository_Upload(t *testing.T) {
	srv := newAPIServer(t)
	repo := NewHTTPRepository(srv.URL + "/api")

	png := append([]byte("\x89PNG\x0D\x0A\x1A\x0A"), make([]byte, 16)...)
	url, err := repo.Upload(context.Background(), "photo.png", bytes.NewReader(png))
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + url)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, err = repo.Upload(context.Background(), "notes.txt", bytes.NewReader([]byte("hello")))
	assert.Equal(t, apperrors.CodeUnsupportedMedia, apperrors.CodeOf(err))
}

func TestHTTPRepository_StoreIntegration(t *testing.T) {
	srv := newAPIServer(t)
	repo := NewHTTPRepository(srv.URL + "/api")
	store := NewStore(repo)
	ctx := context.Background()

	store.Load(ctx)
	require.NoError(t, store.LoadError())
	assert.Empty(t, store.Recipes())

	created, err := store.Add(ctx, testhelpers.OmeleteDraft())
	require.NoError(t, err)
	_, err = store.AddComment(ctx, created.ID, "bom", 4)
	require.NoError(t, err)

	before, _ := store.Get(created.ID)
	_, err = store.Update(ctx, created.ID, types.RecipePatch{Name: types.StringPtr(" ")})
	assert.True(t, apperrors.IsValidation(err))
	after, _ := store.Get(created.ID)
	assert.Equal(t, before, after)
	assert.Equal(t, 4.0, after.AvgRating)

	assert.Len(t, store.Search("EGGS"), 1)
	require.NoError(t, store.Remove(ctx, created.ID))
	assert.Empty(t, store.Recipes())
}

func TestHTTPRepository_RetriesIdempotentReads(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"r1","name":"Sopa","ingredients":null,"steps":["ferva"],"nutrition":{"calories":"abc"},"createdAt":1,"updatedAt":1}]`))
	}))
	defer srv.Close()

	repo := NewHTTPRepository(srv.URL, WithBackOff(fastBackOff), WithRetries(3))
	recipes, err := repo.ListRecipes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	require.Len(t, recipes, 1)
	assert.Equal(t, []string{}, recipes[0].Ingredients)
	assert.Equal(t, 0.0, recipes[0].Nutrition.Calories)
}

func TestHTTPRepository_GivesUpAfterRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Database operation failed","code":"DATABASE_ERROR"}`))
	}))
	defer srv.Close()

	repo := NewHTTPRepository(srv.URL, WithBackOff(fastBackOff), WithRetries(2))
	_, err := repo.ListRecipes(context.Background())
	assert.True(t, apperrors.IsPersistence(err))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestHTTPRepository_NeverRetriesWrites(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	repo := NewHTTPRepository(srv.URL, WithBackOff(fastBackOff))
	_, err := repo.CreateRecipe(context.Background(), types.RecipeDraft{Name: "x"})
	assert.Equal(t, apperrors.CodeServiceUnavailable, apperrors.CodeOf(err))
	_, err = repo.AddComment(context.Background(), "r1", types.CreateCommentRequest{Text: "x", Rating: 3})
	assert.Error(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestHTTPRepository_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	repo := NewHTTPRepository(srv.URL, WithBackOff(fastBackOff))
	_, err := repo.ListComments(context.Background(), "gone")
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestHTTPRepository_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	repo := NewHTTPRepository(addr, WithBackOff(fastBackOff), WithRetries(1), WithTimeout(time.Second))
	_, err := repo.ListRecipes(context.Background())
	assert.Equal(t, apperrors.CodeServiceUnavailable, apperrors.CodeOf(err))
}

func TestDecodeError(t *testing.T) {
	tests := []struct {
		status int
		body   string
		code   apperrors.ErrorCode
	}{
		{404, `{"error":"Recipe not found","code":"RECIPE_NOT_FOUND"}`, apperrors.CodeRecipeNotFound},
		{404, ``, apperrors.CodeNotFound},
		{413, `<html>`, apperrors.CodePayloadTooLarge},
		{415, ``, apperrors.CodeUnsupportedMedia},
		{400, `{"error":"bad"}`, apperrors.CodeBadRequest},
		{502, ``, apperrors.CodeDatabaseError},
	}
	for _, tt := range tests {
		err := decodeError(tt.status, []byte(tt.body))
		assert.Equal(t, tt.code, apperrors.CodeOf(err), "status %d body %q", tt.status, tt.body)
	}
}

func TestNewHTTPRepository_DoesNotModifyGivenClient(t *testing.T) {
	shared := &http.Client{Timeout: 30 * time.Second}

	repo := NewHTTPRepository("http://localhost/api", WithHTTPClient(shared), WithTimeout(time.Second))
	assert.Equal(t, 30*time.Second, shared.Timeout)
	assert.Equal(t, time.Second, repo.httpClient.Timeout)
	assert.NotSame(t, shared, repo.httpClient)

	before := http.DefaultClient.Timeout
	repo = NewHTTPRepository("http://localhost/api", WithHTTPClient(http.DefaultClient), WithTimeout(2*time.Second))
	assert.Equal(t, before, http.DefaultClient.Timeout)
	assert.Equal(t, 2*time.Second, repo.httpClient.Timeout)

	repo = NewHTTPRepository("http://localhost/api", WithHTTPClient(shared))
	assert.Equal(t, 30*time.Second, repo.httpClient.Timeout, "client timeout kept without WithTimeout")

	repo = NewHTTPRepository("http://localhost/api")
	assert.Equal(t, defaultTimeout, repo.httpClient.Timeout)
}
