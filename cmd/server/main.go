package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/V4T54L/journalview/internal/adapter/api"
	"github.com/V4T54L/journalview/internal/adapter/api/handler"
	"github.com/V4T54L/journalview/internal/adapter/journal"
	"github.com/V4T54L/journalview/internal/adapter/metrics"
	"github.com/V4T54L/journalview/internal/adapter/redact"
	"github.com/V4T54L/journalview/internal/adapter/repository/postgres"
	redisrepo "github.com/V4T54L/journalview/internal/adapter/repository/redis"
	"github.com/V4T54L/journalview/internal/adapter/systemd"
	"github.com/V4T54L/journalview/internal/domain"
	"github.com/V4T54L/journalview/internal/pkg/config"
	"github.com/V4T54L/journalview/internal/pkg/logger"
	"github.com/V4T54L/journalview/internal/usecase"

	_ "github.com/lib/pq" // Keep for postgres driver
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logger.New(cfg.LogLevel)
	slog.SetDefault(logger)

	m := metrics.NewQueryMetrics(prometheus.DefaultRegisterer)

	// --- Start Metrics Server ---
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())

	metricsServer := &http.Server{
		Addr:    cfg.MetricsAddr,
		Handler: metricsMux,
	}

	go func() {
		logger.Info("starting metrics server", "addr", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	// --- Graceful Shutdown Context ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Journal ---
	opts := cfg.OpenOptions()
	store, err := journal.Open(opts)
	if err != nil {
		logger.Error("failed to open journal", "error", err)
		os.Exit(1)
	}

	// --- Optional Redis entry cache ---
	var cache domain.EntryCache
	if cfg.RedisAddr != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisAddr)
		if err != nil {
			redisOpts = &redis.Options{Addr: cfg.RedisAddr}
		}
		redisClient := redis.NewClient(redisOpts)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("could not connect to redis, entries will be read from the journal", "error", err)
		}
		entryCache := redisrepo.NewEntryCache(redisClient, cfg.EntryCacheTTL, logger)
		go entryCache.StartHealthCheck(ctx, 5*time.Second)
		cache = entryCache
	}

	// --- Optional Postgres for API keys and query audit ---
	var (
		apiKeys domain.APIKeyRepository
		audit   domain.QueryAuditRepository
	)
	if cfg.PostgresURL != "" {
		db, err := sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			logger.Error("failed to prepare postgres schema", "error", err)
			os.Exit(1)
		}
		apiKeys = postgres.NewAPIKeyRepository(db, logger, cfg.APIKeyCacheTTL, m)
		audit = postgres.NewQueryAuditRepository(db, logger)
	} else {
		logger.Warn("POSTGRES_URL not set, API key authentication and query audit are disabled")
	}

	// --- Initialize Use Cases ---
	logsUseCase := usecase.NewQueryLogsUseCase(store, logger, m, audit)
	defer logsUseCase.Close()
	entryUseCase := usecase.NewFetchEntryUseCase(journal.Open, opts, cache, logger, m)
	summaryUseCase := usecase.NewSummaryUseCase(journal.Open, opts, usecase.SummaryConfig{
		Window:          cfg.SummaryWindow,
		Limit:           cfg.SummaryLimit,
		UpperBoundSlack: cfg.UpperBoundSlack,
	}, logger, m, audit)
	catalog := usecase.NewServiceCatalog(systemd.NewUnitLister(logger), systemd.NewBootLister(nil, logger))

	translator := usecase.NewRequestTranslator(cfg.MaxQueryLimit, cfg.UpperBoundSlack)
	redactor := redact.NewRedactor(cfg.RedactFields, logger)
	if redactor.Enabled() {
		logger.Info("response redaction enabled", "fields", strings.Join(cfg.RedactFields, ","))
	}

	// --- Initialize API Server ---
	journalHandler := handler.NewJournalHandler(logsUseCase, entryUseCase, summaryUseCase, catalog, translator, redactor, logger)
	router := api.NewRouter(journalHandler, api.RouterOptions{
		APIKeys: apiKeys,
		Limiter: rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		Metrics: m,
	}, logger)

	apiServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting api server", "addr", apiServer.Addr)
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("api server failed", "error", err)
			stop() // Trigger shutdown on server error
		}
	}()

	// --- Wait for shutdown signal ---
	<-ctx.Done()
	logger.Info("shutting down servers...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown failed", "error", err)
	}
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("api server shutdown failed", "error", err)
	}

	logger.Info("servers shut down gracefully")
}
