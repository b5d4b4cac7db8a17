package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/utafrali/ReviewsGo/internal/fetch"
	pkgconfig "github.com/utafrali/ReviewsGo/pkg/config"
	"github.com/utafrali/ReviewsGo/pkg/database"
	"github.com/utafrali/ReviewsGo/pkg/httpclient"
	"github.com/utafrali/ReviewsGo/pkg/tracing"
)

// ServiceName identifies this service in logs, metrics, and traces.
const ServiceName = "reviews-service"

// Config is the full runtime configuration, populated from environment
// variables.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	HTTP     HTTPConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Tracing  TracingConfig
	Platform PlatformConfig
	Fetch    FetchConfig
	Cache    CacheConfig
	CORS     CORSConfig
}

type HTTPConfig struct {
	Port            int           `env:"HTTP_PORT" envDefault:"8083"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"20s"`
	MaxBodyBytes    int64         `env:"HTTP_MAX_BODY_BYTES" envDefault:"5242880"`
}

type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER" envDefault:"reviews"`
	Password string `env:"POSTGRES_PASSWORD" envDefault:"reviews_secret"`
	DBName   string `env:"POSTGRES_DB" envDefault:"reviews_db"`
	SSLMode  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
	MaxConns int32  `env:"POSTGRES_MAX_CONNS" envDefault:"25"`
	MinConns int32  `env:"POSTGRES_MIN_CONNS" envDefault:"5"`

	SlowQueryThreshold time.Duration `env:"POSTGRES_SLOW_QUERY_THRESHOLD" envDefault:"200ms"`
}

type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	Enabled  bool   `env:"REDIS_ENABLED" envDefault:"true"`
}

type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Enabled bool     `env:"KAFKA_ENABLED" envDefault:"true"`
}

type TracingConfig struct {
	Enabled      bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTLPEndpoint string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	SampleRate   float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// PlatformConfig carries the external review platform credentials. All are
// optional; a sync request for an unconfigured platform fails fast with a
// clear error instead of an opaque upstream 401.
type PlatformConfig struct {
	StoreDomain       string `env:"SHOPIFY_STORE_DOMAIN" envDefault:""`
	ShopifyAdminToken string `env:"SHOPIFY_ADMIN_TOKEN" envDefault:""`
	JudgeMeToken      string `env:"JUDGEME_API_TOKEN" envDefault:""`
	LooxAPIKey        string `env:"LOOX_API_KEY" envDefault:""`
	YotpoAppKey       string `env:"YOTPO_APP_KEY" envDefault:""`
	StampedPublicKey  string `env:"STAMPED_PUBLIC_KEY" envDefault:""`
	StampedStoreHash  string `env:"STAMPED_STORE_HASH" envDefault:""`
	RivyoShopToken    string `env:"RIVYO_SHOP_TOKEN" envDefault:""`
}

type FetchConfig struct {
	Timeout    time.Duration `env:"FETCH_TIMEOUT" envDefault:"15s"`
	MaxRetries int           `env:"FETCH_MAX_RETRIES" envDefault:"3"`
}

type CacheConfig struct {
	TTL time.Duration `env:"CACHE_TTL" envDefault:"5m"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid HTTP port %d", c.HTTP.Port)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka enabled but no brokers configured")
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("invalid trace sample rate %f", c.Tracing.SampleRate)
	}
	return nil
}

// PostgresPoolConfig translates the env-backed settings into the database
// package's pool configuration.
func (c *Config) PostgresPoolConfig() database.PostgresConfig {
	pg := database.DefaultPostgresConfig()
	pg.Host = c.Postgres.Host
	pg.Port = c.Postgres.Port
	pg.User = c.Postgres.User
	pg.Password = c.Postgres.Password
	pg.DBName = c.Postgres.DBName
	pg.SSLMode = c.Postgres.SSLMode
	pg.MaxConns = c.Postgres.MaxConns
	pg.MinConns = c.Postgres.MinConns
	return pg
}

func (c *Config) RedisClientConfig() database.RedisConfig {
	return database.RedisConfig{
		Host:     c.Redis.Host,
		Port:     c.Redis.Port,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
	}
}

func (c *Config) TracingClientConfig() tracing.Config {
	tc := tracing.DefaultConfig(ServiceName)
	tc.Environment = c.Environment
	tc.Enabled = c.Tracing.Enabled
	tc.OTLPEndpoint = c.Tracing.OTLPEndpoint
	tc.SampleRate = c.Tracing.SampleRate
	return tc
}

func (c *Config) FetchClientConfig() httpclient.Config {
	hc := httpclient.DefaultConfig()
	hc.Timeout = c.Fetch.Timeout
	hc.MaxRetries = c.Fetch.MaxRetries
	return hc
}

func (c *Config) PlatformFetchConfig() fetch.Config {
	return fetch.Config{
		StoreDomain:       c.Platform.StoreDomain,
		ShopifyAdminToken: c.Platform.ShopifyAdminToken,
		JudgeMeToken:      c.Platform.JudgeMeToken,
		LooxAPIKey:        c.Platform.LooxAPIKey,
		YotpoAppKey:       c.Platform.YotpoAppKey,
		StampedPublicKey:  c.Platform.StampedPublicKey,
		StampedStoreHash:  c.Platform.StampedStoreHash,
		RivyoShopToken:    c.Platform.RivyoShopToken,
	}
}
