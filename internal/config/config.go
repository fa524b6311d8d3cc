package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application.
type Config struct {
	Server  ServerConfig
	Redis   RedisConfig
	Catalog CatalogConfig
	Cart    CartConfig
	Log     LogConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port            string `envconfig:"SERVER_PORT" default:"3000"`
	ShutdownTimeout int    `envconfig:"SHUTDOWN_TIMEOUT" default:"30"` // seconds
	StaticDir       string `envconfig:"STATIC_DIR" default:"./web/dist"`
}

// RedisConfig holds configuration for the persistent cart store.
type RedisConfig struct {
	Host         string `envconfig:"REDIS_HOST" default:"localhost"`
	Port         int    `envconfig:"REDIS_PORT" default:"6379"`
	Password     string `envconfig:"REDIS_PASSWORD" default:""`
	DB           int    `envconfig:"REDIS_DB" default:"0"`
	PoolSize     int    `envconfig:"REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int    `envconfig:"REDIS_MIN_IDLE_CONNS" default:"5"`
}

// Addr returns the host:port address of the Redis server.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CatalogConfig holds configuration for the upstream Catalog Source.
type CatalogConfig struct {
	URL     string `envconfig:"CATALOG_URL" default:"http://localhost:3001/api/products"`
	Timeout int    `envconfig:"CATALOG_TIMEOUT" default:"10"` // seconds
}

// CartConfig holds configuration for cart persistence.
// A TTL of 0 keeps snapshots until overwritten, matching the original
// storefront where the cart lived in browser storage indefinitely.
type CartConfig struct {
	KeyPrefix string `envconfig:"CART_KEY_PREFIX" default:"dulcefe_cart"`
	TTLHours  int    `envconfig:"CART_TTL_HOURS" default:"0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Pretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// Load parses environment variables into the Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
