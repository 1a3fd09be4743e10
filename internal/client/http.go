package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/pageza/nutrifit/backend/internal/types"
	apperrors "github.com/pageza/nutrifit/backend/pkg/errors"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultMaxRetries = 3
)

// HTTPRepository talks to the recipe REST API
type HTTPRepository struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	maxRetries uint64
	backoff    func() backoff.BackOff
	logger     *zap.Logger
}

// HTTPOption configures an HTTPRepository
type HTTPOption func(*HTTPRepository)

// WithHTTPClient replaces the underlying http.Client. The client is copied,
// never modified.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(r *HTTPRepository) { r.httpClient = c }
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) HTTPOption {
	return func(r *HTTPRepository) { r.timeout = d }
}

// WithRetries sets how often idempotent reads are retried
func WithRetries(n uint64) HTTPOption {
	return func(r *HTTPRepository) { r.maxRetries = n }
}

// WithBackOff replaces the retry schedule
func WithBackOff(newBackOff func() backoff.BackOff) HTTPOption {
	return func(r *HTTPRepository) { r.backoff = newBackOff }
}

// WithClientLogger sets the logger
func WithClientLogger(l *zap.Logger) HTTPOption {
	return func(r *HTTPRepository) { r.logger = l }
}

// NewHTTPRepository creates a client for the API rooted at baseURL,
// e.g. http://localhost:8083/api
func NewHTTPRepository(baseURL string, opts ...HTTPOption) *HTTPRepository {
	r := &HTTPRepository{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		maxRetries: defaultMaxRetries,
		backoff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxInterval = 2 * time.Second
			return b
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	client := *r.httpClient
	if r.timeout > 0 {
		client.Timeout = r.timeout
	}
	r.httpClient = &client
	return r
}

var _ Repository = (*HTTPRepository)(nil)

// ListRecipes fetches the full collection, retrying transient failures
func (r *HTTPRepository) ListRecipes(ctx context.Context) ([]types.Recipe, error) {
	var recipes []types.Recipe
	err := r.retry(ctx, "list recipes", func() error {
		return r.do(ctx, http.MethodGet, "/recipes", nil, "", &recipes)
	})
	if err != nil {
		return nil, err
	}
	for i := range recipes {
		recipes[i].Normalize()
	}
	if recipes == nil {
		recipes = []types.Recipe{}
	}
	return recipes, nil
}

// CreateRecipe is never retried so a lost response cannot create duplicates
func (r *HTTPRepository) CreateRecipe(ctx context.Context, draft types.RecipeDraft) (*types.Recipe, error) {
	var recipe types.Recipe
	if err := r.doJSON(ctx, http.MethodPost, "/recipes", draft, &recipe); err != nil {
		return nil, err
	}
	recipe.Normalize()
	return &recipe, nil
}

func (r *HTTPRepository) UpdateRecipe(ctx context.Context, id string, patch types.RecipePatch) (*types.Recipe, error) {
	var recipe types.Recipe
	if err := r.doJSON(ctx, http.MethodPut, "/recipes/"+url.PathEscape(id), patch, &recipe); err != nil {
		return nil, err
	}
	recipe.Normalize()
	return &recipe, nil
}

func (r *HTTPRepository) DeleteRecipe(ctx context.Context, id string) error {
	var msg types.MessageResponse
	return r.do(ctx, http.MethodDelete, "/recipes/"+url.PathEscape(id), nil, "", &msg)
}

// AddComment is never retried
func (r *HTTPRepository) AddComment(ctx context.Context, recipeID string, req types.CreateCommentRequest) (*types.Comment, error) {
	var comment types.Comment
	if err := r.doJSON(ctx, http.MethodPost, "/recipes/"+url.PathEscape(recipeID)+"/comments", req, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *HTTPRepository) ListComments(ctx context.Context, recipeID string) ([]types.Comment, error) {
	var comments []types.Comment
	err := r.retry(ctx, "list comments", func() error {
		return r.do(ctx, http.MethodGet, "/recipes/"+url.PathEscape(recipeID)+"/comments", nil, "", &comments)
	})
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []types.Comment{}
	}
	return comments, nil
}

// Upload sends the content as multipart field "file" and returns its URL
func (r *HTTPRepository) Upload(ctx context.Context, name string, content io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	var resp types.UploadResponse
	if err := r.do(ctx, http.MethodPost, "/upload", &buf, mw.FormDataContentType(), &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

func (r *HTTPRepository) doJSON(ctx context.Context, method, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	return r.do(ctx, method, path, bytes.NewReader(body), "application/json", out)
}

func (r *HTTPRepository) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return &transportError{err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &transportError{err: err}
	}
	if resp.StatusCode >= 400 {
		return decodeError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.NewInternalError("Malformed response from server").WithCause(err)
	}
	return nil
}

// retry runs op with exponential backoff. Only transport failures and 5xx
// responses are retried.
func (r *HTTPRepository) retry(ctx context.Context, op string, fn func() error) error {
	b := backoff.WithContext(backoff.WithMaxRetries(r.backoff(), r.maxRetries), ctx)
	var last error
	err := backoff.RetryNotify(func() error {
		err := fn()
		last = err
		if err == nil || retryable(err) {
			return err
		}
		return backoff.Permanent(err)
	}, b, func(err error, wait time.Duration) {
		r.logger.Warn("Retrying request", zap.String("operation", op), zap.Duration("wait", wait), zap.Error(err))
	})
	if err == nil {
		return nil
	}
	if last != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return unwrapTransport(last)
	}
	return unwrapTransport(err)
}

type transportError struct {
	err error
}

func (e *transportError) Error() string { return "request failed: " + e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

func retryable(err error) bool {
	var te *transportError
	if errors.As(err, &te) {
		return true
	}
	return apperrors.StatusCode(err) >= 500 && apperrors.CodeOf(err) != apperrors.CodeInternal
}

func unwrapTransport(err error) error {
	var te *transportError
	if errors.As(err, &te) {
		return apperrors.NewAppError(apperrors.CodeServiceUnavailable, "Server unreachable", te.err.Error()).WithCause(te.err)
	}
	return err
}

// decodeError maps an error response back into the error taxonomy, trusting
// the server's code when present and the status otherwise
func decodeError(status int, data []byte) error {
	var body types.ErrorResponse
	_ = json.Unmarshal(data, &body)

	details := ""
	if s, ok := body.Details.(string); ok {
		details = s
	}
	message := body.Error
	if message == "" {
		message = http.StatusText(status)
	}
	if body.Code != "" {
		return apperrors.NewAppError(apperrors.ErrorCode(body.Code), message, details)
	}

	var code apperrors.ErrorCode
	switch {
	case status == http.StatusNotFound:
		code = apperrors.CodeNotFound
	case status == http.StatusRequestEntityTooLarge:
		code = apperrors.CodePayloadTooLarge
	case status == http.StatusUnsupportedMediaType:
		code = apperrors.CodeUnsupportedMedia
	case status == http.StatusTooManyRequests:
		code = apperrors.CodeTooManyRequests
	case status == http.StatusServiceUnavailable:
		code = apperrors.CodeServiceUnavailable
	case status >= 500:
		code = apperrors.CodeDatabaseError
	default:
		code = apperrors.CodeBadRequest
	}
	return apperrors.NewAppError(code, message, details)
}
