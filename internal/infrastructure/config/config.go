package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,       default=8080"`
	Env       string        `env:"ENV,        default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=24h"`

	// BcryptCost outside bcrypt's accepted range falls back to its default.
	BcryptCost int `env:"BCRYPT_COST, default=10"`

	Log       LogConfig
	DB        DBConfig
	Redis     RedisConfig
	Mongo     MongoConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Seed      SeedConfig
}

type LogConfig struct {
	Level      string `env:"LOG_LEVEL,         default=info"`
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB,   default=100"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS,   default=3"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS,  default=28"`
}

type DBConfig struct {
	Driver string `env:"DB_DRIVER, default=sqlite"`
	DSN    string `env:"DB_DSN,    default=file:space.db"`
}

// RedisConfig is optional: an empty Addr disables idempotent replay.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// MongoConfig is optional: an empty URI disables the audit trail.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=space_api"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS, default=*"`
}

type RateLimitConfig struct {
	Enabled bool    `env:"RATE_LIMIT_ENABLED, default=true"`
	RPS     float64 `env:"RATE_LIMIT_RPS,     default=20"`
	Burst   int     `env:"RATE_LIMIT_BURST,   default=40"`
}

// SeedConfig drives the startup seed. Users without a password are skipped.
type SeedConfig struct {
	Enabled         bool   `env:"SEED_ENABLED,          default=true"`
	AdminPassword   string `env:"SEED_ADMIN_PASSWORD"`
	StaffPassword   string `env:"SEED_STAFF_PASSWORD"`
	StudentPassword string `env:"SEED_STUDENT_PASSWORD"`
}

// IsDevelopment reports whether the process runs in development mode.
func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// LoadDotEnv reads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
