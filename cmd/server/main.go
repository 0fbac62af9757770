package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/seed"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/server"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/store"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	stdout := logging.Setup(cfg.LogLevel)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Seeds
	seeds, err := seed.LoadFromFile(cfg.SeedsPath)
	if err != nil {
		slog.Error("failed to load seeds", "path", cfg.SeedsPath, "error", err)
		os.Exit(1)
	}

	// Store
	var (
		st        store.Store
		dbHandler *logging.DBHandler
	)
	if cfg.UsesMemoryStore() {
		slog.Warn("using in-memory store, data is lost on restart")
		st = store.NewMemoryStore()
	} else {
		if cfg.DBPassword == "" {
			slog.Error("DB_PASSWORD environment variable is required")
			os.Exit(1)
		}
		if err := database.Connect(cfg); err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		if err := database.Migrate(); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}
		st = store.NewGormStore(database.DB)

		// Postgres log sink (ERROR+ async batch) with retention cleanup
		logStore := logging.NewGormLogStore(database.DB)
		dbHandler = logging.NewDBHandler(logStore)
		slog.SetDefault(slog.New(logging.NewMultiHandler(stdout, dbHandler)))
		logging.StartCleanup(ctx, logStore, cfg.LogRetentionDays)
	}

	if err := seed.Apply(ctx, st, seeds); err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}

	// Redis (optional)
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		rdb = redis.NewClient(opt)
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		slog.Info("redis connected", "addr", opt.Addr)
	}

	// Sentry error tracking
	sentryEnabled := false
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			sentryEnabled = true
		}
	}

	srv := server.New(ctx, server.Options{
		Config:    cfg,
		Store:     st,
		Seeds:     seeds,
		Redis:     rdb,
		Sentry:    sentryEnabled,
		AccessLog: true,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Background(gctx)
	})
	g.Go(func() error {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
		return srv.App.Listen(":" + cfg.Port)
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server...")
		return srv.App.ShutdownWithTimeout(10 * time.Second)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("server stopped with error", "error", err)
	}

	if dbHandler != nil {
		dbHandler.Stop()
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}
	sentry.Flush(2 * time.Second)
	if err := database.Close(); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}
