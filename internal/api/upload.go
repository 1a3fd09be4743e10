package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutrifit/backend/internal/service"
	"github.com/pageza/nutrifit/backend/internal/types"
	apperrors "github.com/pageza/nutrifit/backend/pkg/errors"
)

// multipartOverhead covers form boundaries and headers around the file part
const multipartOverhead = 1 << 20

// UploadHandler accepts image uploads as multipart form field "file"
type UploadHandler struct {
	uploads  service.IUploadService
	maxBytes int64
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploads service.IUploadService, maxBytes int64) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = service.DefaultMaxUploadBytes
	}
	return &UploadHandler{uploads: uploads, maxBytes: maxBytes}
}

func (h *UploadHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/upload", h.Upload)
}

func (h *UploadHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, apperrors.NewPayloadTooLargeError(h.maxBytes))
			return
		}
		respondError(c, apperrors.NewBadRequestError("No file uploaded").WithCause(err))
		return
	}
	if header.Size > h.maxBytes {
		respondError(c, apperrors.NewPayloadTooLargeError(h.maxBytes))
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, apperrors.NewBadRequestError("Failed to read uploaded file").WithCause(err))
		return
	}
	defer file.Close()

	url, err := h.uploads.Store(c.Request.Context(), file, header.Filename)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.UploadResponse{URL: url})
}
