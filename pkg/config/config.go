// Package config loads the application configuration from the environment,
// with optional .env file support.
package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/go-shop-catalog/pkg/cache"
	"github.com/Sternrassler/go-shop-catalog/pkg/logging"
	"github.com/Sternrassler/go-shop-catalog/pkg/store"
)

// Prefix is the environment variable prefix, e.g. SHOP_SERVER_PORT.
const Prefix = "SHOP"

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Port string `envconfig:"PORT" default:"8080"`

	// CORSOrigins lists the allowed origins. "*" allows any.
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
}

// Addr returns the "host:port" listen address.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// LogConfig holds the logging settings.
type LogConfig struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Pretty bool   `envconfig:"PRETTY" default:"false"`
}

// PaginationConfig holds the product listing page limits.
type PaginationConfig struct {
	DefaultPageSize int `envconfig:"DEFAULT_PAGE_SIZE" default:"20"`
	MaxPageSize     int `envconfig:"MAX_PAGE_SIZE" default:"100"`
}

// Config is the application configuration, filled from SHOP_* environment
// variables.
type Config struct {
	Server     ServerConfig     `envconfig:"SERVER"`
	DB         store.Config     `envconfig:"DB"`
	Redis      cache.Config     `envconfig:"REDIS"`
	Log        LogConfig        `envconfig:"LOG"`
	Pagination PaginationConfig `envconfig:"PAGINATION"`
}

// LoggingConfig converts the env settings into the logging package's config.
func (c *Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.LogLevel(c.Log.Level)
	cfg.Pretty = c.Log.Pretty
	return cfg
}

// Load reads .env when present, then fills the config from the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file, using environment")
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
