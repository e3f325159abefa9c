package main

import (
	"context"
	"courier-delivery-service/internal/adapters/cache"
	"courier-delivery-service/internal/adapters/distance"
	"courier-delivery-service/internal/adapters/repositories"
	"courier-delivery-service/internal/api"
	"courier-delivery-service/internal/config"
	"courier-delivery-service/internal/platform/db"
	"courier-delivery-service/internal/platform/logging"
	"courier-delivery-service/internal/platform/metrics"
	"courier-delivery-service/internal/ports"
	"courier-delivery-service/internal/services"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires concrete adapters (Postgres or memory, ORS, Redis) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Config{
		Level:       cfg.Log.Level,
		ServiceName: "courier-delivery-service",
		Environment: cfg.Log.Environment,
		Version:     cfg.Log.Version,
	})
	slog.SetDefault(logger)
	metrics.RegisterDefault()

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, sqlDB, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if sqlDB != nil {
		defer sqlDB.Close()
	}

	estimator, closeCache, err := buildEstimator(ctx, cfg, sqlDB, logger)
	if err != nil {
		return err
	}
	defer closeCache.Close()

	ledger := services.NewCapacityLedger(store, store)
	validator := services.NewFeasibilityValidator(store, ledger, estimator,
		services.WithLocation(cfg.Location()))

	router := api.NewRouter(api.Services{
		Deliveries: services.NewDeliveryService(store, store, validator, cfg.EditWindowDays, logger),
		Generator:  services.NewGenerator(store, store, store, validator, logger),
		Calculator: services.NewRouteCalculator(nil),
		Couriers:   services.NewCourierDeliveries(store, store, store, ledger),
		Catalog:    services.NewCatalogService(store, store, logger),
	}, logger)

	// Timeouts are tuned for cold-cache distance lookups (external API latency).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore returns the Postgres store when DATABASE_URL is set and an
// in-memory store seeded from SEED_PATH otherwise.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.Store, *sql.DB, error) {
	if cfg.DatabaseURL == "" {
		store := repositories.NewMemoryStore()
		data, err := repositories.LoadSeed(cfg.SeedPath)
		switch {
		case err == nil:
			store.Load(data)
			logger.Info("using in-memory store", "seed", cfg.SeedPath,
				"users", len(data.Users), "vehicles", len(data.Vehicles), "products", len(data.Products))
		case errors.Is(err, os.ErrNotExist):
			logger.Warn("using empty in-memory store, seed file not found", "seed", cfg.SeedPath)
		default:
			return nil, nil, err
		}
		return store, nil, nil
	}

	sqlDB, err := db.Open(ctx, cfg.DatabaseURL, db.DefaultPool)
	if err != nil {
		return nil, nil, err
	}
	if err := repositories.InitSchema(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, nil, err
	}
	logger.Info("using postgres store")
	return repositories.NewPostgresStore(sqlDB), sqlDB, nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// buildEstimator assembles cache -> breaker-guarded ORS -> great-circle fallback.
// Without an ORS key the estimator is great-circle only.
func buildEstimator(
	ctx context.Context,
	cfg *config.Config,
	sqlDB *sql.DB,
	logger *slog.Logger,
) (ports.DistanceEstimator, io.Closer, error) {
	noop := closerFunc(func() error { return nil })

	if cfg.Distance.ORSAPIKey == "" {
		logger.Warn("ORS_API_KEY not set, distances use the great-circle estimate")
		return distance.NewFallbackEstimator(nil, logger), noop, nil
	}

	provider, err := distance.NewORSDistanceProvider(cfg.Distance.ORSAPIKey, distance.ORSOptions{
		BaseURL:   cfg.Distance.ORSBaseURL,
		Profile:   cfg.Distance.ORSProfile,
		RateLimit: cfg.Distance.RateLimit,
		Burst:     cfg.Distance.RateBurst,
		Client:    &http.Client{Timeout: cfg.Distance.Timeout},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build estimator: %w", err)
	}

	var closer io.Closer = noop
	var redisCache, sqlCache ports.DistanceCache
	if cfg.RedisURL != "" {
		rdb, err := cache.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("build estimator: %w", err)
		}
		closer = rdb
		redisCache = cache.NewRedisDistanceCache(rdb, cfg.Distance.CacheTTL)
	}
	if sqlDB != nil {
		sqlCache = cache.NewSQLDistanceCache(sqlDB, cfg.Distance.CacheTTL)
	}

	opts := []distance.EstimatorOption{distance.WithTimeout(cfg.Distance.Timeout)}
	if tiered := cache.NewTiered(redisCache, sqlCache); tiered.Len() > 0 {
		opts = append(opts, distance.WithCache(tiered))
	}

	breakerCfg := distance.DefaultBreakerConfig()
	if cfg.Distance.BreakerFailures > 0 {
		breakerCfg.FailureThreshold = cfg.Distance.BreakerFailures
	}
	if cfg.Distance.BreakerOpenTimeout > 0 {
		breakerCfg.OpenTimeout = cfg.Distance.BreakerOpenTimeout
	}
	opts = append(opts, distance.WithBreaker(distance.NewBreaker(breakerCfg, logger)))

	return distance.NewFallbackEstimator(provider, logger, opts...), closer, nil
}
