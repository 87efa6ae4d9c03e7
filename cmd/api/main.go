package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/hmori-dev/capsearch/internal/api/handler"
	"github.com/hmori-dev/capsearch/internal/api/middleware"
	"github.com/hmori-dev/capsearch/internal/config"
	"github.com/hmori-dev/capsearch/internal/infrastructure/auth"
	"github.com/hmori-dev/capsearch/internal/infrastructure/cache"
	"github.com/hmori-dev/capsearch/internal/infrastructure/postgres"
	"github.com/hmori-dev/capsearch/internal/infrastructure/queue"
	"github.com/hmori-dev/capsearch/internal/infrastructure/youtube"
	"github.com/hmori-dev/capsearch/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Initialize infrastructure clients
	if err := postgres.Migrate(cfg.Database.DSN()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("database migrations applied")

	pgClient, err := postgres.NewClient(ctx, postgres.DefaultClientConfig(cfg.Database.DSN()))
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pgClient.Close()
	logger.Info("connected to PostgreSQL")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logger.Info("connected to Redis")

	queueClient, err := queue.NewClient(ctx, queue.DefaultClientConfig(cfg.RabbitMQ.URL()))
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer queueClient.Close()
	logger.Info("connected to RabbitMQ")

	verifierCfg := auth.DefaultVerifierConfig(cfg.Auth.JWKSURL)
	verifierCfg.Issuer = cfg.Auth.Issuer
	verifierCfg.RefreshInterval = cfg.Auth.RefreshInterval
	verifierCfg.Leeway = cfg.Auth.Leeway
	verifier, err := auth.NewJWKSVerifier(verifierCfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize token verifier: %w", err)
	}

	// Initialize repositories and services
	usageRepo := postgres.NewUsageRepository(pgClient.Pool())
	transcriptCache := cache.NewRedisTranscriptCache(redisClient)
	fetcher := youtube.NewClient(youtube.ClientConfig{
		APIKey:  cfg.YouTube.APIKey,
		BaseURL: cfg.YouTube.BaseURL,
		Timeout: cfg.YouTube.Timeout,
	})

	searchSvc := usecase.NewSearchService(usageRepo, transcriptCache, fetcher, queueClient, usecase.SearchServiceConfig{
		DailyLimit:     cfg.Search.DailyLimit,
		CacheTTL:       cfg.Search.CacheTTL,
		ParseCacheSize: cfg.Search.ParseCacheSize,
	})

	r := setupRouter(logger, verifier, searchSvc, cfg.Search.DailyLimit)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func setupRouter(logger *slog.Logger, verifier *auth.JWKSVerifier, searchSvc usecase.SearchService, dailyLimit int) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	r.Get("/health", handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	searchHandler := handler.NewSearchHandler(searchSvc, dailyLimit)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(verifier, logger))
		r.Post("/search", searchHandler.Search)
	})

	return r
}
