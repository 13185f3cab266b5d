package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/cehpoint-official/bolpur-mart/internal/config"
	"github.com/cehpoint-official/bolpur-mart/internal/event"
	handlerhttp "github.com/cehpoint-official/bolpur-mart/internal/handler/http"
	"github.com/cehpoint-official/bolpur-mart/internal/repository/postgres"
	"github.com/cehpoint-official/bolpur-mart/internal/repository/rediscache"
	"github.com/cehpoint-official/bolpur-mart/internal/service"
	"github.com/cehpoint-official/bolpur-mart/migrations"
	"github.com/cehpoint-official/bolpur-mart/pkg/database"
	"github.com/cehpoint-official/bolpur-mart/pkg/health"
	"github.com/cehpoint-official/bolpur-mart/pkg/kafka"
	"github.com/cehpoint-official/bolpur-mart/pkg/middleware"
)

// App wires together all components of the catalog service.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	pool     *pgxpool.Pool
	redis    *redis.Client
	producer *kafka.Producer
	server   *http.Server
}

// NewApp initializes the catalog service: database pool, redis client,
// kafka producer, repositories, services and the HTTP server.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	pool, err := database.NewPostgresPool(ctx, &database.PostgresConfig{
		Host:            cfg.PostgresHost,
		Port:            cfg.PostgresPort,
		User:            cfg.PostgresUser,
		Password:        cfg.PostgresPass,
		DBName:          cfg.PostgresDB,
		SSLMode:         cfg.PostgresSSL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: time.Duration(cfg.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(cfg.DBMaxConnIdleTimeMins) * time.Minute,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	redisClient, err := database.NewRedisClient(ctx, database.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	kafkaProducer := kafka.NewProducer(kafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
	eventProducer := event.NewProducer(kafkaProducer, logger)

	// Repositories, with redis snapshot caches in front of the hot
	// storefront reads.
	productRepo := rediscache.NewProductCache(
		postgres.NewProductRepository(pool), redisClient, cfg.CatalogCacheTTL(), logger)
	ruleRepo := rediscache.NewTimeRuleCache(
		postgres.NewTimeRuleRepository(pool), redisClient, cfg.RuleCacheTTL(), logger)

	catalogSvc := service.NewCatalogService(productRepo, ruleRepo, logger, nil)
	productSvc := service.NewProductService(productRepo, eventProducer, logger)
	ruleSvc := service.NewTimeRuleService(ruleRepo, eventProducer, logger)

	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", kafkaProducer.Ping)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.Environment = cfg.Environment

	router := handlerhttp.NewRouter(handlerhttp.RouterConfig{
		Catalog:     catalogSvc,
		Products:    productSvc,
		TimeRules:   ruleSvc,
		Health:      healthHandler,
		Logger:      logger,
		CORS:        corsCfg,
		CacheMaxAge: cfg.HTTPCacheMaxAge,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:      cfg,
		logger:   logger,
		pool:     pool,
		redis:    redisClient,
		producer: kafkaProducer,
		server:   server,
	}, nil
}

// Run starts the HTTP server and blocks until the context is cancelled or
// the server fails.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
		return a.Shutdown()
	}
}

// Shutdown gracefully stops the HTTP server and closes all connections.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("http server shutdown", slog.String("error", err.Error()))
	}
	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close", slog.String("error", err.Error()))
	}
	if err := a.redis.Close(); err != nil {
		a.logger.Error("redis close", slog.String("error", err.Error()))
	}
	a.pool.Close()

	a.logger.Info("catalog service stopped")
	return nil
}
