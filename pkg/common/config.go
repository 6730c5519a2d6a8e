package common

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process configuration, read from the environment (and .env in development).
type Config struct {
	DBType string `env:"SEC_DB_TYPE" envDefault:"file"`
	DBPath string `env:"SEC_DB_PATH" envDefault:"security.db"`

	HttpHostPort string `env:"SEC_HTTP_HOST_PORT" envDefault:":1080"`
	GrpcHostPort string `env:"SEC_GRPC_HOST_PORT"`

	DefaultRate  float64 `env:"SEC_DEFAULT_RATE" envDefault:"20"`
	DefaultBurst int     `env:"SEC_DEFAULT_BURST" envDefault:"40"`

	JwtSecret   string        `env:"SEC_JWT_SECRET"`
	SessionTTL  time.Duration `env:"SEC_SESSION_TTL" envDefault:"24h"`
	AdminEmails []string      `env:"SEC_ADMIN_EMAILS" envSeparator:","`

	SampleInterval  time.Duration `env:"SEC_SAMPLE_INTERVAL" envDefault:"1s"`
	DetectionConfig string        `env:"SEC_DETECTION_CONFIG"`
	SeedCameras     bool          `env:"SEC_SEED_CAMERAS" envDefault:"true"`
}

// LoadConfig loads .env (when present) and parses the environment into a Config.
// A missing .env is only an error in development.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && IsDevelopment() {
		return nil, fmt.Errorf("error loading .env file, copy .env.example to .env first if in development: %w", err)
	}

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
	switch c.DBType {
	case "file", "memory":
	default:
		return fmt.Errorf("unknown SEC_DB_TYPE: %q", c.DBType)
	}
	if c.DefaultRate < 0 {
		return fmt.Errorf("invalid SEC_DEFAULT_RATE %v, should be >= 0", c.DefaultRate)
	}
	if c.DefaultBurst < 0 {
		return fmt.Errorf("invalid SEC_DEFAULT_BURST %v, should be >= 0", c.DefaultBurst)
	}
	if c.SampleInterval <= 0 {
		return fmt.Errorf("invalid SEC_SAMPLE_INTERVAL %v, should be positive", c.SampleInterval)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("invalid SEC_SESSION_TTL %v, should be positive", c.SessionTTL)
	}
	if c.JwtSecret == "" {
		if IsProduction() {
			return fmt.Errorf("SEC_JWT_SECRET must be set in production")
		}
		c.JwtSecret = "dev-only-secret"
	}
	return nil
}
