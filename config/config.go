package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all runtime settings. Values come from the environment
// (optionally primed from a .env file by the entrypoints).
type Config struct {
	Port        string `env:"SERVER_PORT" env-default:"8080"`
	GinMode     string `env:"GIN_MODE" env-default:"debug"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	Database DatabaseConfig
	JWT      JWTConfig
	Orcid    OrcidConfig
	SMTP     SMTPConfig
	Log      LogConfig
}

// DatabaseConfig selects the SQL dialect and its connection settings.
type DatabaseConfig struct {
	Driver   string `env:"DB_DRIVER" env-default:"mysql"`
	Host     string `env:"DB_HOST" env-default:"localhost"`
	Port     string `env:"DB_PORT" env-default:"3306"`
	Name     string `env:"DB_DATABASE" env-default:"academic"`
	User     string `env:"DB_USERNAME" env-default:"root"`
	Password string `env:"DB_PASSWORD"`
	SSLMode  string `env:"DB_SSLMODE" env-default:"disable"`
	// Path is only used by the sqlite driver.
	Path     string `env:"DB_PATH" env-default:"academic.db"`
	DebugSQL bool   `env:"DEBUG_SQL" env-default:"false"`
}

type JWTConfig struct {
	Secret     string        `env:"JWT_SECRET"`
	AccessTTL  time.Duration `env:"JWT_ACCESS_TTL" env-default:"1h"`
	RefreshTTL time.Duration `env:"JWT_REFRESH_TTL" env-default:"720h"`
}

type OrcidConfig struct {
	BaseURL   string        `env:"ORCID_BASE_URL" env-default:"https://pub.orcid.org/v3.0"`
	Timeout   time.Duration `env:"ORCID_TIMEOUT" env-default:"10s"`
	RateLimit float64       `env:"ORCID_RATE_LIMIT" env-default:"8"`
}

type SMTPConfig struct {
	Host          string `env:"SMTP_HOST"`
	Port          int    `env:"SMTP_PORT" env-default:"587"`
	User          string `env:"SMTP_USER"`
	Pass          string `env:"SMTP_PASS"`
	From          string `env:"SMTP_FROM"` // e.g. "Research Office <no-reply@your.org>"
	SkipTLSVerify bool   `env:"SMTP_SKIP_TLS_VERIFY" env-default:"false"`
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL" env-default:"info"`
	File  string `env:"LOG_FILE" env-default:"logs/academic-api.log"`
}

// App is the configuration loaded by Load.
var App = &Config{}

// Load reads the configuration from the environment into App.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	App = cfg
	return cfg, nil
}

// IsProduction reports whether ENVIRONMENT is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Database.Driver) {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (expected mysql, postgres or sqlite)", c.Database.Driver)
	}
	if c.IsProduction() && c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return fmt.Errorf("JWT lifetimes must be positive")
	}
	return nil
}
