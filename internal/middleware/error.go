package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutrifit/backend/internal/types"
	apperrors "github.com/pageza/nutrifit/backend/pkg/errors"
)

// NoRoute answers unknown paths with the standard JSON error body
func NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusNotFound, types.ErrorResponse{
			Error: "Route not found",
			Code:  string(apperrors.CodeNotFound),
		})
	}
}

// NoMethod answers a known path hit with the wrong verb
func NoMethod() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusMethodNotAllowed, types.ErrorResponse{
			Error: "Method not allowed",
			Code:  string(apperrors.CodeBadRequest),
		})
	}
}

// Timeout bounds the request context. Handlers observe the deadline through
// their context-aware service calls.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
