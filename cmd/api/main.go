package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/servana/servana-backend/internal/config"
	"github.com/servana/servana-backend/internal/handler"
	"github.com/servana/servana-backend/internal/middleware"
	"github.com/servana/servana-backend/internal/repository/postgres"
	"github.com/servana/servana-backend/internal/repository/storage"
	"github.com/servana/servana-backend/internal/service"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Run database migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	recordRepo := postgres.NewServiceRecordRepository(pool)
	goalRepo := postgres.NewGoalRepository(pool)
	providerRepo := postgres.NewProviderRepository(pool)

	// Initialize services
	earningsService := service.NewEarningsService(recordRepo)
	goalService := service.NewGoalService(goalRepo, earningsService)
	exportService := service.NewExportService(earningsService, cfg.ExportMaxRangeDays)

	// Optional S3 archive for generated exports
	var exportArchive storage.ExportArchive
	if cfg.ExportArchiveEnabled {
		archive, err := storage.NewS3ExportArchive(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize export archive")
		}
		exportArchive = archive
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Export archive enabled")
	}

	// Create provider directory adapter for auth middleware
	providerDirectory := &providerDirectoryAdapter{providerRepo: providerRepo}

	// Initialize auth middleware
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience, providerDirectory)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()

	// Initialize handlers
	earningsHandler := handler.NewEarningsHandler(earningsService)
	goalHandler := handler.NewGoalHandler(goalService)
	exportHandler := handler.NewExportHandler(exportService, exportArchive)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, rateLimiter, earningsHandler, goalHandler, exportHandler)

	// Hourly sweep deactivating goals past their end date
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@hourly", goalService.ExpireGoals); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule goal expiry sweep")
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// providerDirectoryAdapter adapts ProviderRepository to middleware.ProviderDirectory
type providerDirectoryAdapter struct {
	providerRepo *postgres.ProviderRepository
}

// GetProviderByAuthID implements middleware.ProviderDirectory
func (a *providerDirectoryAdapter) GetProviderByAuthID(authID string) (uuid.UUID, error) {
	provider, err := a.providerRepo.GetByAuthID(authID)
	if err != nil {
		return uuid.Nil, err
	}
	return provider.ID, nil
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
