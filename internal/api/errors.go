package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/nutrifit/backend/internal/types"
	apperrors "github.com/pageza/nutrifit/backend/pkg/errors"
	"github.com/pageza/nutrifit/backend/pkg/logger"
)

// respondError renders err as the standard error body. Untyped errors are
// reported as internal errors without leaking their text.
func respondError(c *gin.Context, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.NewInternalError("").WithCause(err)
	}

	status := appErr.StatusCode()
	if status >= 500 {
		logger.FromGin(c).Error("Request failed",
			zap.String("code", string(appErr.Code)),
			zap.Error(err),
		)
	}
	_ = c.Error(err)

	body := types.ErrorResponse{
		Error: appErr.Message,
		Code:  string(appErr.Code),
	}
	if appErr.Details != "" {
		body.Details = appErr.Details
	}
	c.AbortWithStatusJSON(status, body)
}

// bindJSON decodes the request body, rendering a 400 on malformed input
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		appErr := apperrors.NewBadRequestError("Invalid request body")
		appErr.Details = err.Error()
		respondError(c, appErr.WithCause(err))
		return false
	}
	return true
}
