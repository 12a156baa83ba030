package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config represents the complete service configuration
type Config struct {
	Port     int `env:"PORT" envDefault:"8080"`
	Database DatabaseConfig
	Redis    RedisConfig `envPrefix:"REDIS_"`
	Loader   LoaderConfig
}

// DatabaseConfig contains the relational store settings
type DatabaseConfig struct {
	URL string `env:"DATABASE_URL,required,notEmpty"`
}

// RedisConfig contains the order page cache settings
type RedisConfig struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// LoaderConfig contains order aggregate loading settings
type LoaderConfig struct {
	ItemBatchSize    int           `env:"ORDER_ITEM_BATCH_SIZE" envDefault:"100"`
	QueryTimeout     time.Duration `env:"QUERY_TIMEOUT" envDefault:"5s"`
	CacheTTL         time.Duration `env:"ORDER_CACHE_TTL" envDefault:"30s"`
	DefaultPageLimit int           `env:"DEFAULT_PAGE_LIMIT" envDefault:"100"`
	// Zero disables the background cache warmer.
	CacheWarmInterval time.Duration `env:"ORDER_CACHE_WARM_INTERVAL" envDefault:"0s"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Loader.ItemBatchSize <= 0 {
		return fmt.Errorf("ORDER_ITEM_BATCH_SIZE must be positive, got %d", c.Loader.ItemBatchSize)
	}
	if c.Loader.QueryTimeout <= 0 {
		return fmt.Errorf("QUERY_TIMEOUT must be positive, got %s", c.Loader.QueryTimeout)
	}
	if c.Loader.CacheTTL < 0 {
		return fmt.Errorf("ORDER_CACHE_TTL must not be negative, got %s", c.Loader.CacheTTL)
	}
	if c.Loader.CacheWarmInterval < 0 {
		return fmt.Errorf("ORDER_CACHE_WARM_INTERVAL must not be negative, got %s", c.Loader.CacheWarmInterval)
	}
	if c.Loader.DefaultPageLimit <= 0 {
		return fmt.Errorf("DEFAULT_PAGE_LIMIT must be positive, got %d", c.Loader.DefaultPageLimit)
	}
	return nil
}
