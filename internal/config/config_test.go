package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("expected default session TTL 2h, got %s", cfg.SessionTTL)
	}
	if cfg.RateLimitRPS != 20 || cfg.RateLimitBurst != 40 {
		t.Errorf("unexpected rate limit defaults: %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.BodyLimit != "256K" {
		t.Errorf("expected default body limit 256K, got %s", cfg.BodyLimit)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("unexpected CORS origins: %v", cfg.CORSOrigins)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %s", cfg.LogLevel)
	}
	if !cfg.IsDev() {
		t.Error("expected development by default")
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TTL", "45m")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("RATE_LIMIT_RPS", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.SessionTTL != 45*time.Minute {
		t.Errorf("expected 45m, got %s", cfg.SessionTTL)
	}
	if cfg.RedisURL != "redis://localhost:6379/1" {
		t.Errorf("unexpected redis url %q", cfg.RedisURL)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("unexpected CORS origins: %q", cfg.CORSOrigins)
	}
	if cfg.RateLimitRPS != 5 {
		t.Errorf("expected rps 5, got %v", cfg.RateLimitRPS)
	}
}

func validConfig() *Config {
	return &Config{
		Env:            "development",
		SessionTTL:     2 * time.Hour,
		RateLimitRPS:   20,
		RateLimitBurst: 40,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"dev without key", func(c *Config) {}, ""},
		{"production without key", func(c *Config) { c.Env = "production" }, "SESSION_SIGNING_KEY is required"},
		{"production with key", func(c *Config) {
			c.Env = "production"
			c.SessionSigningKey = strings.Repeat("k", MinSigningKeyLen)
		}, ""},
		{"short key", func(c *Config) { c.SessionSigningKey = "short" }, "too short"},
		{"zero ttl", func(c *Config) { c.SessionTTL = 0 }, "SESSION_TTL"},
		{"zero burst", func(c *Config) { c.RateLimitBurst = 0 }, "RATE_LIMIT"},
		{"tls without cert", func(c *Config) { c.TLSEnabled = true }, "TLS_CERT_FILE"},
		{"tls without key", func(c *Config) { c.TLSEnabled = true; c.TLSCertFile = "cert.pem" }, "TLS_KEY_FILE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestConfig_IsDev(t *testing.T) {
	c := &Config{Env: "development"}
	if !c.IsDev() {
		t.Error("expected IsDev() to return true for development")
	}

	c.Env = "production"
	if c.IsDev() || !c.IsProduction() {
		t.Error("expected production mode")
	}
}
