package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if cfg.Port != "8080" || cfg.DB.Driver != "sqlite" || cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Redis.Addr != "" || cfg.Mongo.URI != "" {
		t.Fatalf("redis and mongo must be disabled by default")
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORS.AllowedOrigins)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORT":                 "9000",
		"DB_DRIVER":            "postgres",
		"DB_DSN":               "postgres://u:p@localhost/space",
		"TOKEN_TTL":            "15m",
		"CORS_ALLOWED_ORIGINS": "https://a.example,https://b.example",
		"RATE_LIMIT_RPS":       "2.5",
		"SEED_ADMIN_PASSWORD":  "s3cret",
	}))
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if cfg.Port != "9000" || cfg.DB.Driver != "postgres" || cfg.TokenTTL != 15*time.Minute {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Fatalf("expected two origins, got %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.RateLimit.RPS != 2.5 || cfg.Seed.AdminPassword != "s3cret" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{"TOKEN_TTL": "forever"}))
	if err == nil {
		t.Fatalf("expected error for bad duration")
	}
}

func TestLoadDotEnv(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("missing file must be ignored: %v", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("SPACE_API_TEST_KEY=from-file\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("SPACE_API_TEST_KEY", "")
	os.Unsetenv("SPACE_API_TEST_KEY")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("SPACE_API_TEST_KEY"); got != "from-file" {
		t.Fatalf("expected value from file, got %q", got)
	}
}
