package config_test

import (
	"testing"
	"time"

	"github.com/iho/fintech/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STORAGE_BACKEND", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.StorageBackend != config.StoragePostgres {
		t.Fatalf("expected postgres backend by default, got %q", cfg.StorageBackend)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.TransactionTimeout != 10*time.Second {
		t.Fatalf("expected 10s transaction timeout, got %s", cfg.TransactionTimeout)
	}

	if cfg.RateLimitRPS != 0 {
		t.Fatalf("expected rate limiting disabled by default, got %v", cfg.RateLimitRPS)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("TRANSACTION_TIMEOUT", "2s")
	t.Setenv("RETRY_MAX_ATTEMPTS", "7")
	t.Setenv("RATE_LIMIT_RPS", "12.5")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.StorageBackend != config.StorageMemory {
		t.Fatalf("expected memory backend, got %s", cfg.StorageBackend)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.TransactionTimeout != 2*time.Second || cfg.RetryMaxAttempts != 7 {
		t.Fatalf("expected ledger overrides, got timeout=%s attempts=%d", cfg.TransactionTimeout, cfg.RetryMaxAttempts)
	}

	if cfg.RateLimitRPS != 12.5 {
		t.Fatalf("expected rate limit override, got %v", cfg.RateLimitRPS)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestValidate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			StorageBackend:     config.StorageMemory,
			TransactionTimeout: time.Second,
			RetryMaxAttempts:   1,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{"valid memory", func(*config.Config) {}, false},
		{"unknown backend", func(c *config.Config) { c.StorageBackend = "sqlite" }, true},
		{"postgres without url", func(c *config.Config) { c.StorageBackend = config.StoragePostgres }, true},
		{"zero timeout", func(c *config.Config) { c.TransactionTimeout = 0 }, true},
		{"zero attempts", func(c *config.Config) { c.RetryMaxAttempts = 0 }, true},
		{"negative rate", func(c *config.Config) { c.RateLimitRPS = -1 }, true},
		{"rate without burst", func(c *config.Config) { c.RateLimitRPS = 5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
