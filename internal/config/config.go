package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBDriver     string `env:"DB_DRIVER" envDefault:"postgres"`
	DBHost       string `env:"DB_HOST" envDefault:"localhost"`
	DBPort       string `env:"DB_PORT" envDefault:"5432"`
	DBUser       string `env:"DB_USER" envDefault:"postgres"`
	DBPassword   string `env:"DB_PASSWORD"`
	DBName       string `env:"DB_NAME" envDefault:"nutriquest"`
	DBSSLMode    string `env:"DB_SSLMODE" envDefault:"disable"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"nutriquest.db"`

	// Tokens are issued by the identity provider; we only verify them.
	JWTSecret string `env:"JWT_SECRET"`

	// Server
	Port            string        `env:"PORT" envDefault:"8080"`
	CORSOrigins     string        `env:"CORS_ORIGINS" envDefault:"*"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	RateLimitPerMin int           `env:"RATE_LIMIT_PER_MIN" envDefault:"120"`

	// Domain
	DefaultTimezone  string `env:"DEFAULT_TIMEZONE" envDefault:"UTC"`
	DefaultDailyGoal int    `env:"DEFAULT_DAILY_CALORIE_GOAL" envDefault:"2500"`

	// Observability
	SentryDSN        string `env:"SENTRY_DSN"`
	AppEnv           string `env:"APP_ENV" envDefault:"development"`
	LogRetentionDays int    `env:"LOG_RETENTION_DAYS" envDefault:"30"`
	LogCleanupSpec   string `env:"LOG_CLEANUP_SCHEDULE" envDefault:"@daily"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded .env file")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DefaultDailyGoal <= 0 {
		return nil, fmt.Errorf("DEFAULT_DAILY_CALORIE_GOAL must be positive, got %d", cfg.DefaultDailyGoal)
	}
	return cfg, nil
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// Location resolves DefaultTimezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
