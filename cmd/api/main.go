// Command api serves the planets and moons catalogue over REST and GraphQL.
//
// @title                       Space API
// @version                     1.0
// @description                 Planets and moons catalogue with role-based access.
// @BasePath                    /
// @securityDefinitions.basic   BasicAuth
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	_ "github.com/spaceapp/space-api/docs"
	"github.com/spaceapp/space-api/internal/api"
	"github.com/spaceapp/space-api/internal/api/handler"
	"github.com/spaceapp/space-api/internal/api/middleware"
	"github.com/spaceapp/space-api/internal/core/authz"
	"github.com/spaceapp/space-api/internal/core/service"
	"github.com/spaceapp/space-api/internal/infrastructure/config"
	mongostore "github.com/spaceapp/space-api/internal/infrastructure/db/mongo"
	redisstore "github.com/spaceapp/space-api/internal/infrastructure/db/redis"
	"github.com/spaceapp/space-api/internal/infrastructure/db/sqlstore"
	"github.com/spaceapp/space-api/internal/infrastructure/queue"
	"github.com/spaceapp/space-api/pkg/logger"
)

const (
	shutdownTimeout   = 10 * time.Second
	limiterSweepEvery = time.Minute
	startupTimeout    = 30 * time.Second
	developmentDotEnv = ".env"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "space-api: %v\n", err)
		os.Exit(1)
	}
}

func run() (err error) {
	if err := config.LoadDotEnv(developmentDotEnv); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:  cfg.Log.Level,
		Pretty: cfg.IsDevelopment(),
		File: logger.FileOptions{
			Path:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
		},
	})

	var closers []func() error
	defer func() {
		var result *multierror.Error
		for i := len(closers) - 1; i >= 0; i-- {
			if cerr := closers[i](); cerr != nil {
				result = multierror.Append(result, cerr)
			}
		}
		if cerr := logger.Close(); cerr != nil {
			result = multierror.Append(result, cerr)
		}
		if rerr := result.ErrorOrNil(); rerr != nil {
			err = errors.Join(err, rerr)
		}
	}()

	secret, err := jwtSecret(cfg, log)
	if err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	// --- Relational store ---
	db, err := sqlstore.Open(startCtx, sqlstore.Config{Driver: cfg.DB.Driver, DSN: cfg.DB.DSN})
	if err != nil {
		return err
	}
	closers = append(closers, db.Close)
	if err := sqlstore.Migrate(startCtx, db, log); err != nil {
		return err
	}
	log.Info().Str("driver", db.Driver()).Msg("database ready")

	checks := map[string]handler.Check{"database": db.PingContext}
	var opts []service.Option

	// --- Optional idempotency store ---
	if rc := (redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}); rc.Enabled() {
		client, err := redisstore.Connect(startCtx, rc)
		if err != nil {
			return err
		}
		closers = append(closers, client.Close)
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		opts = append(opts, service.WithIdempotencyStore(redisstore.NewIdempotencyStore(client, 0)))
		log.Info().Str("addr", rc.Addr).Msg("idempotency store enabled")
	}

	// --- Optional audit trail ---
	if mc := (mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database}); mc.Enabled() {
		client, mdb, err := mongostore.Connect(startCtx, mc)
		if err != nil {
			return err
		}
		closers = append(closers, func() error { return client.Disconnect(context.Background()) })
		checks["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }

		audit := mongostore.NewAuditRepository(mdb)
		if err := audit.EnsureIndexes(startCtx); err != nil {
			log.Warn().Err(err).Msg("audit indexes not created")
		}
		dispatcher := queue.NewDispatcher(0, audit, log)
		dispatcher.Start(context.Background())
		closers = append(closers, dispatcher.Close)
		opts = append(opts, service.WithAuditRecorder(dispatcher))
		log.Info().Str("database", mdb.Name()).Msg("audit trail enabled")
	}

	// --- Services ---
	tx := sqlstore.NewTransactor(db)
	planetRepo := sqlstore.NewPlanetRepository(db)
	moonRepo := sqlstore.NewMoonRepository(db)
	userRepo := sqlstore.NewUserRepository(db)

	planets := service.NewLoggingPlanetService(service.NewPlanetService(planetRepo, moonRepo, tx, log, opts...), log)
	moons := service.NewLoggingMoonService(service.NewMoonService(moonRepo, planetRepo, tx, log, opts...), log)
	users := service.NewLoggingUserService(service.NewUserService(userRepo, tx, cfg.BcryptCost, log, opts...), log)
	auth := service.NewAuthService(userRepo, secret, cfg.TokenTTL)

	if cfg.Seed.Enabled {
		data := service.SeedData{
			Users:   service.DefaultSeedUsers(cfg.Seed.AdminPassword, cfg.Seed.StaffPassword, cfg.Seed.StudentPassword),
			Planets: service.DefaultSeedPlanets(),
		}
		if err := service.Seed(startCtx, users, planets, moons, data, log); err != nil {
			return err
		}
	}

	// --- HTTP ---
	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RPS,
			BurstSize:         cfg.RateLimit.Burst,
			Enabled:           true,
		}, log)
		go limiter.Cleanup(ctx, limiterSweepEvery)
	}

	e, err := api.NewRouter(api.Deps{
		Planets:     planets,
		Moons:       moons,
		Users:       users,
		Auth:        auth,
		Policy:      authz.Default(),
		Checks:      checks,
		Logger:      log,
		CORSOrigins: cfg.CORS.AllowedOrigins,
		RateLimiter: limiter,
	})
	if err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// jwtSecret returns the configured signing key. Development runs without one
// get a random per-process key, so tokens do not survive restarts.
func jwtSecret(cfg *config.Config, log zerolog.Logger) (string, error) {
	if cfg.JWTSecret != "" {
		return cfg.JWTSecret, nil
	}
	if !cfg.IsDevelopment() {
		return "", errors.New("JWT_SECRET is required outside development")
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate jwt secret: %w", err)
	}
	log.Warn().Msg("JWT_SECRET not set, using a random development key")
	return hex.EncodeToString(buf), nil
}
