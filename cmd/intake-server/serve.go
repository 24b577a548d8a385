package main

import (
	"context"
	crypto_rand "crypto/rand"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/rs/zerolog"

	"github.com/tcm/intake/internal/config"
	"github.com/tcm/intake/internal/domain/assessment"
	"github.com/tcm/intake/internal/domain/catalog"
	"github.com/tcm/intake/internal/platform/fhir"
	"github.com/tcm/intake/internal/platform/kv"
	"github.com/tcm/intake/internal/platform/middleware"
	"github.com/tcm/intake/internal/platform/session"
)

func newLogger(cfg *config.Config) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	return logger.Level(level)
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogFile != "" {
		return catalog.LoadFile(cfg.CatalogFile)
	}
	return catalog.Load()
}

// resolveSigningKey returns SESSION_SIGNING_KEY or a random 32-byte key.
// The second return value is true when a random key was generated.
func resolveSigningKey(envValue string) ([]byte, bool, error) {
	if envValue != "" {
		return []byte(envValue), false, nil
	}
	key := make([]byte, config.MinSigningKeyLen)
	if _, err := crypto_rand.Read(key); err != nil {
		return nil, false, goerr.Wrap(err, "failed to generate random session signing key")
	}
	return key, true, nil
}

// newServer builds the echo instance with every route mounted. client may
// be nil, in which case sessions live in process memory.
func newServer(cfg *config.Config, logger zerolog.Logger, cat *catalog.Catalog, client *redis.Client, signingKey []byte) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = fhir.ErrorHandler(logger)

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders(cfg.TLSEnabled || cfg.IsProduction()))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  cfg.CORSOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders:  []string{echo.HeaderAuthorization, echo.HeaderContentType, middleware.RequestIDHeader},
		ExposeHeaders: []string{echo.HeaderContentDisposition, middleware.RequestIDHeader},
	}))

	var repo assessment.SessionRepository
	if client != nil {
		repo = assessment.NewRedisRepository(client, assessment.DefaultKeyPrefix)
	} else {
		repo = assessment.NewMemoryRepository()
	}
	svc := assessment.NewService(cat, repo, cfg.SessionTTL)
	signer := session.NewSigner(signingKey)

	apiV1 := e.Group("/api/v1")
	fhirGroup := e.Group("/fhir")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 || rateLimitCfg.BurstSize <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}

	// Anonymous routes are limited per IP; session routes are limited per
	// session once the token has been verified.
	handler := assessment.NewHandler(svc, signer, logger)
	handler.RegisterRoutes(apiV1, fhirGroup, assessment.RouteMiddleware{
		Public:  []echo.MiddlewareFunc{middleware.RateLimit(rateLimitCfg)},
		Session: []echo.MiddlewareFunc{session.Middleware(signer), middleware.RateLimit(rateLimitCfg)},
	})

	e.GET("/health", kv.HealthHandler(client))
	return e
}

func runServer(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	if err := cfg.Validate(); err != nil {
		ev := logger.Error().Err(err)
		var ge *goerr.Error
		if errors.As(err, &ge) {
			ev = ev.Interface("values", ge.Values())
		}
		ev.Msg("invalid configuration")
		return err
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load catalog")
		return err
	}

	signingKey, generated, err := resolveSigningKey(cfg.SessionSigningKey)
	if err != nil {
		return err
	}
	if generated {
		logger.Warn().Msg("SESSION_SIGNING_KEY not set; using a random key, tokens will not survive a restart")
	}

	var client *redis.Client
	if cfg.RedisURL != "" {
		if ctx == nil {
			ctx = context.Background()
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		client, err = kv.NewClient(pingCtx, cfg.RedisURL)
		cancel()
		if err != nil {
			logger.Error().Err(err).Msg("failed to connect to redis")
			return err
		}
		defer client.Close()
		logger.Info().Msg("connected to redis")
	} else {
		logger.Info().Msg("REDIS_URL not set; sessions are kept in memory")
	}

	e := newServer(cfg, logger, cat, client, signingKey)

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Bool("tls", cfg.TLSEnabled).Msg("starting server")
		var err error
		if cfg.TLSEnabled {
			err = e.StartTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = e.Start(addr)
		}
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error")
		return err
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
