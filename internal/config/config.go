package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Supported values for STORE_DRIVER.
const (
	DriverMongo    = "mongo"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort      string        `env:"PORT" envDefault:"8080"`
	StoreDriver     string        `env:"STORE_DRIVER" envDefault:"mongo"`
	ConnectionURI   string        `env:"CONNECTION_URI"`
	MongoDatabase   string        `env:"MONGO_DATABASE" envDefault:"moonflix"`
	StoreTimeout    time.Duration `env:"STORE_TIMEOUT" envDefault:"5s"`
	JWTSecret       string        `env:"JWT_SECRET"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:8080" envSeparator:","`
	NATSURL         string        `env:"NATS_URL"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFile         string        `env:"LOG_FILE"`
	SwaggerHost     string        `env:"SWAGGER_HOST"`
	PublicDir       string        `env:"PUBLIC_DIR" envDefault:"public"`
	SeedFile        string        `env:"SEED_FILE"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads an optional .env file, builds Config from the environment and validates it.
func Load() (*Config, error) {
	// .env is optional outside of local development
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures all required configuration is present.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	switch c.StoreDriver {
	case DriverMemory:
	case DriverMongo, DriverMySQL, DriverPostgres, DriverSQLite:
		if c.ConnectionURI == "" {
			return fmt.Errorf("%w for driver %q", ErrMissingConnectionURI, c.StoreDriver)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStoreDriver, c.StoreDriver)
	}
	if c.StoreTimeout <= 0 {
		return ErrInvalidStoreTimeout
	}
	return nil
}
