// Package config loads process configuration from environment variables. A
// .env file in the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config holds the settings shared by every service binary. Fields a given
// binary does not use are simply ignored by it.
type Config struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	Port     string `env:"APP_PORT"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Version  string `env:"APP_VERSION" envDefault:"1.0.0"`

	DBUser string `env:"DB_USER" envDefault:"root"`
	DBPass string `env:"DB_PASS"`
	DBHost string `env:"DB_HOST" envDefault:"localhost"`
	DBPort string `env:"DB_PORT" envDefault:"3306"`
	DBName string `env:"DB_NAME" envDefault:"siren"`

	// Token issuance (oauth-server)
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"1h"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"24h"`
	BcryptCost      int           `env:"BCRYPT_COST" envDefault:"10"`
	CredentialsFile string        `env:"CREDENTIALS_FILE" envDefault:"configs/credentials.yaml"`

	// Remote verification (company-api, stats-api)
	OAuthURL      string        `env:"OAUTH2_URL" envDefault:"http://localhost:3000"`
	VerifyTimeout time.Duration `env:"VERIFY_TIMEOUT" envDefault:"5s"`

	// Token events. An empty AMQP_URL disables publishing.
	AMQPURL      string `env:"AMQP_URL"`
	AuditLogPath string `env:"AUDIT_LOG_PATH" envDefault:"logs/oauth.log"`
}

// Load reads the configuration. defaultPort is used when APP_PORT is unset
// so each binary keeps its own well-known port.
func Load(defaultPort string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{Port: defaultPort}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port == "" {
		return errors.New("APP_PORT is required")
	}
	if c.AccessTokenTTL < 0 || c.RefreshTokenTTL < 0 {
		return errors.New("token TTLs must not be negative")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.VerifyTimeout <= 0 {
		return errors.New("VERIFY_TIMEOUT must be positive")
	}
	return nil
}

// Production reports whether the process runs in a production environment.
func (c *Config) Production() bool {
	return c.Env == "production" || c.Env == "prod"
}
