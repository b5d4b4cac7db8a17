package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/ReviewsGo/internal/cache"
	"github.com/utafrali/ReviewsGo/internal/config"
	"github.com/utafrali/ReviewsGo/internal/event"
	"github.com/utafrali/ReviewsGo/internal/fetch"
	handlerhttp "github.com/utafrali/ReviewsGo/internal/handler/http"
	"github.com/utafrali/ReviewsGo/internal/pipeline"
	"github.com/utafrali/ReviewsGo/internal/repository/postgres"
	"github.com/utafrali/ReviewsGo/internal/service"
	"github.com/utafrali/ReviewsGo/pkg/database"
	"github.com/utafrali/ReviewsGo/pkg/health"
	pkgkafka "github.com/utafrali/ReviewsGo/pkg/kafka"
	"github.com/utafrali/ReviewsGo/pkg/tracing"
)

// App owns the service's long-lived resources and its HTTP server.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	pool        *pgxpool.Pool
	redisClient *redis.Client
	producer    *pkgkafka.Producer
	server      *http.Server

	shutdownTracing func(context.Context) error
}

// New wires the application: database, cache, event producer, fetch adapters,
// pipeline, service, and HTTP router. Redis and Kafka are optional
// dependencies; the service runs degraded without them.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	shutdownTracing, err := tracing.InitTracer(ctx, cfg.TracingClientConfig())
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	pgCfg := cfg.PostgresPoolConfig()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := database.RunMigrations(ctx, pool, postgres.Migrations, postgres.MigrationsDir, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	database.RegisterPoolMetrics(pool, config.ServiceName)
	database.SetSlowQueryLogging(cfg.Postgres.SlowQueryThreshold, logger)

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = database.NewRedisClient(ctx, cfg.RedisClientConfig())
		if err != nil {
			logger.Warn("redis unavailable, result caching disabled", slog.String("error", err.Error()))
			redisClient = nil
		}
	}

	var producer *pkgkafka.Producer
	var events *event.Producer
	if cfg.Kafka.Enabled {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.Kafka.Brokers), logger)
		events = event.NewProducer(producer, logger)
	}

	repo := postgres.NewBatchRepository(pool)
	processor := pipeline.NewProcessor(logger)
	fetchers := fetch.NewRegistry(cfg.PlatformFetchConfig(), cfg.FetchClientConfig(), logger)
	resultCache := cache.NewResultCache(redisClient, cfg.Cache.TTL, logger)
	reviewService := service.NewReviewService(repo, processor, fetchers, resultCache, events, logger)

	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if redisClient != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	if producer != nil {
		healthHandler.Register("kafka", producer.Ping)
	}

	reviewHandler := handlerhttp.NewReviewHandler(reviewService, logger, cfg.HTTP.MaxBodyBytes)
	router := handlerhttp.NewRouter(reviewHandler, healthHandler, logger, cfg.CORS.AllowedOrigins, cfg.Environment)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		pool:            pool,
		redisClient:     redisClient,
		producer:        producer,
		server:          server,
		shutdownTracing: shutdownTracing,
	}, nil
}

// Run starts the HTTP server and blocks until SIGINT/SIGTERM or a server
// failure, then shuts down gracefully.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-sigCh:
		a.logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return a.Shutdown(ctx)
}

// Shutdown stops the HTTP server and releases all resources.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error

	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("kafka close: %w", err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	a.pool.Close()

	if a.shutdownTracing != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.shutdownTracing(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("tracing shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	a.logger.Info("shutdown complete")
	return nil
}
