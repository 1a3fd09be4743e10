package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/nutrifit/backend/internal/api"
	"github.com/pageza/nutrifit/backend/internal/middleware"
	"github.com/pageza/nutrifit/backend/internal/service"
	"github.com/pageza/nutrifit/backend/pkg/logger"
)

// Dependencies carries everything the route table needs. Limiter, Metrics
// and UploadDir are optional.
type Dependencies struct {
	Recipes        service.IRecipeService
	Uploads        service.IUploadService
	Health         service.HealthChecker
	Limiter        middleware.Limiter
	Metrics        *middleware.Metrics
	Logger         *zap.Logger
	AllowOrigins   []string
	UploadDir      string
	MaxUploadBytes int64
	RequestTimeout time.Duration
}

// SetupRouter configures the application routes
func SetupRouter(deps Dependencies) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	router.Use(logger.Recovery(log))
	router.Use(logger.GinMiddleware(log))
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
	router.Use(middleware.CORS(deps.AllowOrigins))
	router.Use(middleware.SecurityHeaders())

	api.NewHealthHandler(deps.Health).RegisterRoutes(router)

	if deps.UploadDir != "" {
		router.Static("/uploads", deps.UploadDir)
	}

	apiGroup := router.Group("/api")
	apiGroup.Use(middleware.Timeout(deps.RequestTimeout))
	if deps.Limiter != nil {
		apiGroup.Use(middleware.RateLimit(deps.Limiter, log))
	}
	api.NewRecipeHandler(deps.Recipes).RegisterRoutes(apiGroup)
	api.NewUploadHandler(deps.Uploads, deps.MaxUploadBytes).RegisterRoutes(apiGroup)

	return router
}
