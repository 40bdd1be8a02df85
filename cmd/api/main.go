package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/tricityrealty/leadhub/internal/api/router"
	"github.com/tricityrealty/leadhub/internal/buyers"
	appconfig "github.com/tricityrealty/leadhub/internal/config"
	"github.com/tricityrealty/leadhub/internal/importer"
	"github.com/tricityrealty/leadhub/internal/importlog"
	"github.com/tricityrealty/leadhub/internal/observability/metrics"
	"github.com/tricityrealty/leadhub/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting leadhub API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Storage: Postgres when configured, in-memory otherwise (dev only).
	var repo buyers.Repository
	var runLog *importlog.Store
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Error("failed to ping database", "error", err)
			os.Exit(1)
		}
		repo = buyers.NewPostgresRepository(pool)

		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open sql db", "error", err)
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()
		runLog = importlog.NewStore(db)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory storage")
		repo = buyers.NewInMemoryRepository()
	}

	// Stats cache is optional.
	var statsCache *buyers.StatsCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer func() { _ = redisClient.Close() }()
		statsCache = buyers.NewStatsCache(redisClient, cfg.StatsCacheTTL)
	}

	registry := prometheus.NewRegistry()
	importMetrics := metrics.NewImportMetrics(registry)

	buyersHandler := buyers.NewHandler(repo, statsCache, logger)
	imp := importer.New(repo, logger, importMetrics, cfg.ImportMaxRows)
	importHandler := importer.NewHandler(imp, runLog, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		BuyersHandler:      buyersHandler,
		ImportHandler:      importHandler,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		AuthSecret:         cfg.AuthJWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
