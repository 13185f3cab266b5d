package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/cehpoint-official/bolpur-mart/pkg/config"
)

// Config holds all configuration for the catalog service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"CATALOG_HTTP_PORT" envDefault:"8001"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"bolpurmart"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"bolpurmart_secret"`
	PostgresDB   string `env:"CATALOG_DB_NAME" envDefault:"catalog_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Database pool
	DBMaxConns            int32 `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns            int32 `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetimeMins int   `env:"DB_MAX_CONN_LIFETIME_MINUTES" envDefault:"60"`
	DBMaxConnIdleTimeMins int   `env:"DB_MAX_CONN_IDLE_TIME_MINUTES" envDefault:"30"`

	// Redis snapshot cache
	RedisHost        string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort        int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass        string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB          int    `env:"REDIS_DB" envDefault:"0"`
	CatalogCacheSecs int    `env:"CATALOG_CACHE_TTL_SECONDS" envDefault:"15"`
	RuleCacheSecs    int    `env:"TIME_RULE_CACHE_TTL_SECONDS" envDefault:"30"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// HTTP response caching hint for storefront reads (seconds, 0 disables)
	HTTPCacheMaxAge int `env:"HTTP_CACHE_MAX_AGE_SECONDS" envDefault:"30"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load catalog config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}
	if cfg.PostgresHost == "" {
		return nil, fmt.Errorf("POSTGRES_HOST is required")
	}
	if cfg.PostgresUser == "" {
		return nil, fmt.Errorf("POSTGRES_USER is required")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS is required")
	}
	if cfg.CatalogCacheSecs < 0 || cfg.RuleCacheSecs < 0 {
		return nil, fmt.Errorf("cache TTLs must not be negative")
	}
	return cfg, nil
}

// CatalogCacheTTL returns the catalog snapshot cache TTL.
func (c *Config) CatalogCacheTTL() time.Duration {
	return time.Duration(c.CatalogCacheSecs) * time.Second
}

// RuleCacheTTL returns the time-rule snapshot cache TTL.
func (c *Config) RuleCacheTTL() time.Duration {
	return time.Duration(c.RuleCacheSecs) * time.Second
}
