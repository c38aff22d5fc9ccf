package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config stores all the configuration of the application.
// Values are loaded from environment variables with optional
// loading from a .env file via godotenv.
type Config struct {
	// Database settings. DATABASE_URL wins when set; otherwise the
	// discrete variables are composed into a DSN.
	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST" envDefault:"localhost"`
	DBPort      string `env:"DB_PORT" envDefault:"5432"`
	DBUser      string `env:"DB_USER" envDefault:"postgres"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBName      string `env:"DB_NAME" envDefault:"postgres"`
	DBSSLMode   string `env:"DB_SSLMODE" envDefault:"disable"`

	// Connection pool settings
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"25"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`

	// Server settings
	Port         string        `env:"PORT" envDefault:"8080"`
	ChatURL      string        `env:"CHAT_URL"`
	QueryTimeout time.Duration `env:"QUERY_TIMEOUT" envDefault:"5s"`
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadConfig reads configuration from environment variables and an optional
// .env file. It returns the loaded configuration or an error when required
// values are missing or malformed.
func LoadConfig() (*Config, error) {
	// Try to load .env file, but proceed even if it doesn't exist
	if err := godotenv.Load(); err != nil {
		if os.IsNotExist(err) {
			log.Info().Msg("No .env file found, using environment variables only")
		} else {
			log.Warn().Err(err).Msg("Failed to load .env file")
		}
	} else {
		log.Info().Msg("Environment loaded from .env file")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration values are set and logs
// warnings for values that are usable but suspicious.
func (c *Config) Validate() error {
	var missingEnvs []string

	// CHAT_URL is the single allow-listed browser origin; without it every
	// API request would be rejected.
	if c.ChatURL == "" {
		missingEnvs = append(missingEnvs, "CHAT_URL")
	}

	if len(missingEnvs) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missingEnvs, ", "))
	}

	if c.DatabaseURL == "" && c.DBPassword == "" {
		log.Warn().Msg("DB_PASSWORD is not set, connecting with an empty password")
	}

	if c.DBMaxOpenConns < 1 {
		return errors.New("DB_MAX_OPEN_CONNS must be at least 1")
	}
	if c.QueryTimeout <= 0 {
		return errors.New("QUERY_TIMEOUT must be positive")
	}

	return nil
}

// GetDSN returns the PostgreSQL data source name (connection string).
func (c *Config) GetDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}
