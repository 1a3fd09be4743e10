package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/nutrifit/backend/internal/service"
	"github.com/pageza/nutrifit/backend/internal/types"
	"github.com/pageza/nutrifit/backend/pkg/logger"
)

const healthTimeout = 2 * time.Second

// HealthHandler reports service and database health
type HealthHandler struct {
	db service.HealthChecker
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db service.HealthChecker) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/health", h.Health)
}

// Health returns 200 while the database answers pings and 503 otherwise
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		logger.FromGin(c).Warn("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, types.HealthResponse{Status: "unavailable", Database: "down"})
		return
	}
	c.JSON(http.StatusOK, types.HealthResponse{Status: "ok", Database: "up"})
}
