package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsherman999/LegoEater/internal/cron"
	"github.com/jsherman999/LegoEater/internal/pricesync"
	"github.com/jsherman999/LegoEater/pkg/bricklink"
	"github.com/jsherman999/LegoEater/pkg/config"
	"github.com/jsherman999/LegoEater/pkg/db"
	"github.com/jsherman999/LegoEater/pkg/logger"
	"github.com/jsherman999/LegoEater/pkg/metrics"
	"github.com/jsherman999/LegoEater/pkg/migrate"
	"github.com/jsherman999/LegoEater/pkg/redis"
)

const lockKeyFormat = "le:sync-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "sync-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "sync-worker"

	logg = logger.New(logger.Options{
		ServiceName: "sync-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	bricklinkClient, err := bricklink.NewClient(cfg.BrickLink, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create price guide client", err)
		os.Exit(1)
	}
	priceService, err := pricesync.NewService(pricesync.NewRepository(dbClient.DB()), bricklinkClient, cfg.Sync, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create price sync service", err)
		os.Exit(1)
	}

	metricsCollector := metrics.NewSyncJobMetrics(prometheus.DefaultRegisterer)
	refreshJob, err := cron.NewPriceRefreshJob(priceService, logg, metricsCollector)
	if err != nil {
		logg.Error(context.Background(), "failed to create price refresh job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create worker lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(refreshJob),
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Sync.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create worker service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting sync worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "sync worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "sync worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
