package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/nutrifit/backend/config"
	"github.com/pageza/nutrifit/backend/internal/database"
	"github.com/pageza/nutrifit/backend/internal/middleware"
	"github.com/pageza/nutrifit/backend/internal/router"
	"github.com/pageza/nutrifit/backend/internal/server"
	"github.com/pageza/nutrifit/backend/internal/service"
	"github.com/pageza/nutrifit/backend/internal/storage"
	"github.com/pageza/nutrifit/backend/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() { _ = log.Sync() }()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("Failed to close database", zap.Error(err))
		}
	}()

	if err := database.RunMigrations(db.DB, cfg.Database.MigrationsDir, log); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	blobs, uploadDir, err := newBlobStore(ctx, cfg.Storage, log)
	if err != nil {
		return err
	}

	limiter, closeLimiter, err := newLimiter(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeLimiter()

	handler := router.SetupRouter(router.Dependencies{
		Recipes:        service.NewRecipeService(db.DB, service.WithLogger(log)),
		Uploads:        service.NewUploadService(blobs, cfg.Storage.MaxUploadBytes, log),
		Health:         db,
		Limiter:        limiter,
		Metrics:        middleware.NewMetrics(),
		Logger:         log,
		AllowOrigins:   cfg.CORS.AllowOrigins,
		UploadDir:      uploadDir,
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	log.Info("Starting server",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("env", string(cfg.Env)),
		zap.String("storage", cfg.Storage.Backend),
	)
	if err := server.NewServer(cfg.Server, handler, log).Run(ctx); err != nil {
		return err
	}
	log.Info("Server stopped")
	return nil
}

// newBlobStore returns the configured image store and, for the local
// backend, the directory to serve under /uploads.
func newBlobStore(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (storage.BlobStore, string, error) {
	switch cfg.Backend {
	case "s3":
		client, err := config.NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, "", err
		}
		log.Info("Using S3 image storage", zap.String("bucket", cfg.S3.Bucket))
		return storage.NewS3BlobStore(client, cfg.S3.Bucket, cfg.S3.ObjectURL, log), "", nil
	default:
		store, err := storage.NewLocalBlobStore(cfg.UploadDir, cfg.PublicBaseURL, log)
		if err != nil {
			return nil, "", err
		}
		log.Info("Using local image storage", zap.String("dir", store.Dir()))
		return store, store.Dir(), nil
	}
}

// newLimiter prefers the shared Redis window and falls back to an in-process
// limiter when Redis is not configured.
func newLimiter(ctx context.Context, cfg *config.Config, log *zap.Logger) (middleware.Limiter, func(), error) {
	noop := func() {}
	if !cfg.RateLimit.Enabled {
		return nil, noop, nil
	}
	limits := middleware.RateLimitConfig{
		Window: cfg.RateLimit.Window,
		Limit:  cfg.RateLimit.Requests,
	}
	if !cfg.Redis.Enabled() {
		log.Info("Using in-process rate limiter", zap.Int("limit", limits.Limit), zap.Duration("window", limits.Window))
		return middleware.NewLocalLimiter(limits), noop, nil
	}

	client, err := database.NewRedisClient(ctx, cfg.Redis, log)
	if err != nil {
		return nil, noop, err
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			log.Warn("Failed to close Redis client", zap.Error(err))
		}
	}
	return middleware.NewRedisLimiter(client, limits), closeFn, nil
}
