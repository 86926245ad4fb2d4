// Package app wires configuration, storage, use cases and the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/url-shortener-api/internal/config"
	"github.com/vadimbarashkov/url-shortener-api/internal/entity"
	"github.com/vadimbarashkov/url-shortener-api/internal/usecase"
	"github.com/vadimbarashkov/url-shortener-api/migrations"
	"github.com/vadimbarashkov/url-shortener-api/pkg/postgres"
	"github.com/vadimbarashkov/url-shortener-api/pkg/redis"
	"golang.org/x/sync/errgroup"

	redisCache "github.com/vadimbarashkov/url-shortener-api/internal/adapter/cache/redis"
	delivery "github.com/vadimbarashkov/url-shortener-api/internal/adapter/delivery/http"
	repository "github.com/vadimbarashkov/url-shortener-api/internal/adapter/repository/postgres"
)

const serviceName = "url-shortener"

func NewLogger(cfg *config.Config) *httplog.Logger {
	return httplog.NewLogger(serviceName, httplog.Options{
		LogLevel: cfg.LogLevel(),
		JSON:     cfg.Env == config.EnvProd,
		Concise:  cfg.Env == config.EnvDev,
		Tags: map[string]string{
			"env": cfg.Env,
		},
	})
}

// Run serves the API until ctx is cancelled, then shuts the server down.
func Run(ctx context.Context, cfg *config.Config, logger *httplog.Logger) error {
	const op = "app.Run"

	db, err := openPostgres(ctx, cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer db.Close()

	rdb, err := redis.New(
		ctx,
		cfg.Redis.Addr(),
		redis.WithPassword(cfg.Redis.Password),
		redis.WithDB(cfg.Redis.DB),
		redis.WithPoolSize(cfg.Redis.PoolSize),
	)
	if err != nil {
		return fmt.Errorf("%s: failed to connect to redis: %w", op, err)
	}
	defer rdb.Close()

	userUseCase := usecase.NewUserUseCase(repository.NewUserRepository(db), cfg.RateLimitRequests)
	urlUseCase := usecase.NewURLUseCase(
		repository.NewURLRepository(db),
		redisCache.NewURLCache(rdb),
		usecase.WithShortCodeLength(cfg.ShortCodeLength),
		usecase.WithLogger(logger.Logger),
	)

	if err := ensureDefaultUser(ctx, cfg, logger.Logger, userUseCase); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        delivery.NewRouter(logger, cfg.BaseURL, userUseCase, urlUseCase),
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", slog.String("addr", server.Addr), slog.Bool("tls", cfg.HTTPServer.TLS()))

		var err error

		if cfg.HTTPServer.TLS() {
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		} else {
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		logger.Info("shutting down server")

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}

// CreateUser registers a user outside the HTTP API. An empty apiKey is
// replaced with a generated one.
func CreateUser(ctx context.Context, cfg *config.Config, username, apiKey string) (*entity.User, error) {
	const op = "app.CreateUser"

	db, err := openPostgres(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer db.Close()

	user, err := usecase.NewUserUseCase(repository.NewUserRepository(db), cfg.RateLimitRequests).
		CreateUser(ctx, username, apiKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// openPostgres connects to the database and applies pending migrations.
func openPostgres(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	db, err := postgres.New(
		ctx,
		cfg.Postgres.DSN(),
		postgres.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
		postgres.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
		postgres.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
		postgres.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := postgres.RunMigrations(migrations.FS, cfg.Postgres.DSN()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

type userEnsurer interface {
	EnsureUser(ctx context.Context, username, apiKey string) (*entity.User, error)
}

func ensureDefaultUser(ctx context.Context, cfg *config.Config, logger *slog.Logger, users userEnsurer) error {
	u := cfg.DefaultUser
	if u.Username == "" || u.APIKey == "" {
		logger.Warn("default user is not configured, skipping creation")
		return nil
	}

	user, err := users.EnsureUser(ctx, u.Username, u.APIKey)
	if err != nil {
		return fmt.Errorf("failed to ensure default user: %w", err)
	}

	logger.Info("default user ready", slog.String("username", user.Username), slog.Int64("id", user.ID))

	return nil
}
