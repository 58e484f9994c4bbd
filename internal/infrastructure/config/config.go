package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// JWTSecret signs every issued token. Required: the process must not
	// start with an empty signing key.
	JWTSecret string `env:"JWT_SECRET, required"`

	// SeedDemoData additionally creates demo accounts at startup.
	SeedDemoData bool `env:"SEED_DEMO_DATA, default=false"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=conta_ledger"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
