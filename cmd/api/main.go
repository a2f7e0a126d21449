package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"masterspeak/internal/analyzer"
	"masterspeak/internal/config"
	"masterspeak/internal/database"
	"masterspeak/internal/database/migration"
	handlers "masterspeak/internal/http/handler"
	"masterspeak/internal/http/middleware"
	"masterspeak/internal/otel"
	"masterspeak/internal/repository/postgres"
	"masterspeak/internal/service"
	"masterspeak/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx, time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	scorer := analyzer.NewOpenAIScorer(cfg.OpenAI)
	clock := service.SystemClock{}

	analysisRepo := postgres.NewAnalysisPostgres(db)
	tokenRepo := postgres.NewShareTokenPostgres(db)

	svcs := handlers.Services{
		Analyses: service.NewAnalysisService(analysisRepo, objStore, scorer, clock),
	}
	svcs.Shares = service.NewShareService(tokenRepo, analysisRepo, "http://"+cfg.AppHost, cfg.Features.ShareLinksEnabled, clock)
	svcs.Exports = service.NewExportService(svcs.Analyses, cfg.Features.ExportEnabled)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())

	registry := prometheus.NewRegistry()
	promMW, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	limiter := middleware.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate)
	app.Use(limiter.RateLimit())

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, cfg.JWTSecret, svcs)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
