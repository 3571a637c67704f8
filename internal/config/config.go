package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "CART"

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

type Config struct {
	App      AppConfig
	Storage  StorageConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Events   EventsConfig
	Metrics  MetricsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMemory:
	case StoragePostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("CART_POSTGRES_DSN is required for storage driver %q", c.Storage.Driver)
		}
	case StorageRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			return fmt.Errorf("CART_REDIS_URL or CART_REDIS_ADDR is required for storage driver %q", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Events.Enabled && c.Events.RabbitMQURL == "" {
		return fmt.Errorf("CART_RABBITMQ_URL is required when events are enabled")
	}

	return nil
}

type AppConfig struct {
	Port            string        `envconfig:"CART_APP_PORT" default:"3000"`
	LogLevel        string        `envconfig:"CART_LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"CART_LOG_FORMAT" default:"json"`
	RequestTimeout  time.Duration `envconfig:"CART_REQUEST_TIMEOUT" default:"3s"`
	ShutdownTimeout time.Duration `envconfig:"CART_SHUTDOWN_TIMEOUT" default:"10s"`
}

func (a AppConfig) Addr() string {
	if strings.HasPrefix(a.Port, ":") {
		return a.Port
	}
	return ":" + a.Port
}

type StorageConfig struct {
	Driver string `envconfig:"CART_STORAGE_DRIVER" default:"memory"`
}

type PostgresConfig struct {
	DSN         string `envconfig:"CART_POSTGRES_DSN"`
	MaxConns    int32  `envconfig:"CART_POSTGRES_MAX_CONNS" default:"10"`
	AutoMigrate bool   `envconfig:"CART_POSTGRES_AUTO_MIGRATE" default:"true"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CART_REDIS_URL"`
	Address      string        `envconfig:"CART_REDIS_ADDR"`
	Password     string        `envconfig:"CART_REDIS_PASSWORD"`
	DB           int           `envconfig:"CART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CART_REDIS_POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"CART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CART_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"CART_REDIS_WRITE_TIMEOUT" default:"3s"`
	CartTTL      time.Duration `envconfig:"CART_REDIS_CART_TTL" default:"0"`
}

type EventsConfig struct {
	Enabled     bool   `envconfig:"CART_EVENTS_ENABLED" default:"false"`
	RabbitMQURL string `envconfig:"CART_RABBITMQ_URL"`
	Exchange    string `envconfig:"CART_EVENTS_EXCHANGE" default:"cart.events"`
}

type MetricsConfig struct {
	Enabled bool `envconfig:"CART_METRICS_ENABLED" default:"true"`
}
