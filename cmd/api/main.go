package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/horvbalint/recet/config"
	"github.com/horvbalint/recet/internal/api"
	"github.com/horvbalint/recet/internal/database"
	"github.com/horvbalint/recet/internal/extraction"
	"github.com/horvbalint/recet/internal/metrics"
	"github.com/horvbalint/recet/internal/middleware"
	"github.com/horvbalint/recet/internal/server"
	"github.com/horvbalint/recet/internal/service"
)

func main() {
	logger := config.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer func() { _ = redisClient.Close() }()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	finder := service.NewReferenceService(db.DB, cfg.MatchThreshold, logger)
	resolver := extraction.NewResolver(finder, logger, collector, cfg.ResolveConcurrency)
	pipeline := extraction.NewPipeline(
		config.NewCompletionSource(),
		service.NewPageFetcher(nil),
		service.NewHTMLTextExtractor(logger),
		service.NewCompletionService(nil),
		resolver,
		extraction.Options{
			Logger:        logger,
			Observer:      collector,
			SchemaRetries: cfg.SchemaRetries,
		},
	)

	deps := api.Dependencies{
		Extractor:      pipeline,
		Drafts:         service.NewDraftService(redisClient),
		Auth:           service.NewAuthService(cfg.JWTSecret),
		ExtractLimiter: middleware.NewExtractionRateLimiter(redisClient, cfg.ExtractRateLimit, logger),
		Checks: map[string]api.HealthChecker{
			"database": db,
			"redis":    database.RedisChecker{Client: redisClient},
		},
		Logger: logger,
	}

	// Image normalization is optional; without AWS credentials the route is not served.
	if s3Config, err := config.NewS3Config(ctx, cfg); err != nil {
		logger.Warn("image normalization disabled", "error", err)
	} else {
		if cfg.S3PublicRead {
			if err := s3Config.SetupBucketPolicy(ctx); err != nil {
				logger.Error("failed to make recipe images public", "bucket", s3Config.BucketName, "error", err)
				os.Exit(1)
			}
		}
		deps.Images = service.NewImageService(s3Config, nil, logger)
	}

	srv := server.New(cfg, deps, registry, logger)
	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
