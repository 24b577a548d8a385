package config

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = goerr.New("invalid configuration")

// MinSigningKeyLen is the shortest accepted HS256 session signing key.
const MinSigningKeyLen = 32

type Config struct {
	Port              string        `mapstructure:"PORT"`
	Env               string        `mapstructure:"ENV"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	SessionTTL        time.Duration `mapstructure:"SESSION_TTL"`
	SessionSigningKey string        `mapstructure:"SESSION_SIGNING_KEY"`
	RedisURL          string        `mapstructure:"REDIS_URL"`
	CatalogFile       string        `mapstructure:"CATALOG_FILE"`
	CORSOrigins       []string      `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS      float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst    int           `mapstructure:"RATE_LIMIT_BURST"`
	BodyLimit         string        `mapstructure:"BODY_LIMIT"`
	TLSEnabled        bool          `mapstructure:"TLS_ENABLED"`
	TLSCertFile       string        `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile        string        `mapstructure:"TLS_KEY_FILE"`
}

var keys = []string{
	"PORT",
	"ENV",
	"LOG_LEVEL",
	"SESSION_TTL",
	"SESSION_SIGNING_KEY",
	"REDIS_URL",
	"CATALOG_FILE",
	"CORS_ORIGINS",
	"RATE_LIMIT_RPS",
	"RATE_LIMIT_BURST",
	"BODY_LIMIT",
	"TLS_ENABLED",
	"TLS_CERT_FILE",
	"TLS_KEY_FILE",
}

// Load reads configuration from the environment and an optional .env file
// in the working directory.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SESSION_TTL", "2h")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("BODY_LIMIT", "256K")

	// Bind env vars explicitly so Unmarshal picks them up
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, goerr.Wrap(err, "failed to bind env", goerr.V("key", k))
		}
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal config")
	}

	if len(cfg.CORSOrigins) == 0 {
		if origins := v.GetString("CORS_ORIGINS"); origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}
	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Production needs
// a session signing key of at least MinSigningKeyLen bytes; a key that is
// set in any mode must meet the same length.
func (c *Config) Validate() error {
	if c.SessionTTL <= 0 {
		return goerr.Wrap(ErrInvalidConfig, "SESSION_TTL must be positive", goerr.V("session_ttl", c.SessionTTL))
	}
	if c.IsProduction() && c.SessionSigningKey == "" {
		return goerr.Wrap(ErrInvalidConfig, "SESSION_SIGNING_KEY is required in production")
	}
	if c.SessionSigningKey != "" && len(c.SessionSigningKey) < MinSigningKeyLen {
		return goerr.Wrap(ErrInvalidConfig, "SESSION_SIGNING_KEY is too short",
			goerr.V("min_bytes", MinSigningKeyLen), goerr.V("bytes", len(c.SessionSigningKey)))
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return goerr.Wrap(ErrInvalidConfig, "RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive",
			goerr.V("rps", c.RateLimitRPS), goerr.V("burst", c.RateLimitBurst))
	}

	// TLS validation: when TLS is enabled, cert and key files must be specified.
	if c.TLSEnabled {
		if c.TLSCertFile == "" {
			return goerr.Wrap(ErrInvalidConfig, "TLS_CERT_FILE is required when TLS_ENABLED is true")
		}
		if c.TLSKeyFile == "" {
			return goerr.Wrap(ErrInvalidConfig, "TLS_KEY_FILE is required when TLS_ENABLED is true")
		}
	}

	return nil
}
