package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {

	// Application configuration
	AppConfig struct {
		Port           int      `envconfig:"CATALOG_PORT" default:"8080"`
		Address        string   `envconfig:"CATALOG_ADDRESS" default:"0.0.0.0"`
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`
	}

	// API token configuration
	JWTConfig struct {
		ApiSecret   string `envconfig:"API_SECRET"`
		ExpireDelta int    `envconfig:"EXPIRE_DELTA" default:"7"`
	}

	// Database configuration
	DatabaseConfig struct {
		DatabaseHost                      string `envconfig:"DB_HOST"`
		DatabaseUser                      string `envconfig:"DB_USER"`
		DatabasePassword                  string `envconfig:"DB_PASSWORD"`
		DatabaseName                      string `envconfig:"DB_NAME"`
		DatabasePort                      int32  `envconfig:"DB_PORT" default:"5432"`
		DatabasePoolMaxConnections        int32  `envconfig:"DB_MAX_CON" default:"10"`
		DatabasePoolMinConnections        int32  `envconfig:"DB_POOL_MIN_CON" default:"2"`
		DatabasePoolMaxConnectionLifetime int    `envconfig:"DB_POOL_MAX_LIFETIME" default:"1"`
	}

	// Redis configuration. Leaving the address empty disables the
	// count cache entirely.
	RedisConfig struct {
		Address       string `envconfig:"REDIS_ADDRESS"`
		Password      string `envconfig:"REDIS_PASSWORD"`
		DB            int    `envconfig:"REDIS_DB" default:"0"`
		CountCacheTTL int    `envconfig:"COUNT_CACHE_TTL_SECONDS" default:"30"`
	}

	// RabbitMQ configuration
	RabbitMQConfig struct {
		RabbitMQUser    string `envconfig:"RABBITMQ_USER"`
		RabbitMQPass    string `envconfig:"RABBITMQ_PASSWORD"`
		RabbitMQAddress string `envconfig:"RABBITMQ_ADDRESS"`
		RabbitMQPort    int    `envconfig:"RABBITMQ_PORT" default:"5672"`
		Exchange        string `envconfig:"RABBITMQ_EXCHANGE" default:"catalog.events"`
	}
}

// LoadConfig reads the optional .env file and the process environment and
// returns a populated configuration.
func LoadConfig() (*Config, error) {
	cfg := Config{}

	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return &cfg, nil
}
