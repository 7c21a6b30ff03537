package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsherman999/LegoEater/api/controllers"
	"github.com/jsherman999/LegoEater/api/routes"
	"github.com/jsherman999/LegoEater/internal/barcode"
	"github.com/jsherman999/LegoEater/internal/catalog"
	"github.com/jsherman999/LegoEater/internal/pricesync"
	"github.com/jsherman999/LegoEater/internal/valuation"
	"github.com/jsherman999/LegoEater/pkg/bricklink"
	"github.com/jsherman999/LegoEater/pkg/config"
	"github.com/jsherman999/LegoEater/pkg/db"
	"github.com/jsherman999/LegoEater/pkg/logger"
	"github.com/jsherman999/LegoEater/pkg/migrate"
	"github.com/jsherman999/LegoEater/pkg/rebrickable"
	"github.com/jsherman999/LegoEater/pkg/redis"
	"github.com/jsherman999/LegoEater/pkg/upcitemdb"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	// Redis is optional for the API; it only feeds the readiness check here.
	var redisPinger controllers.Pinger
	if cfg.Redis.URL != "" {
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
		redisPinger = redisClient
	}

	rebrickClient, err := rebrickable.NewClient(cfg.Rebrickable, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog client", err)
		os.Exit(1)
	}
	barcodeClient, err := upcitemdb.NewClient(cfg.Barcode, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create barcode client", err)
		os.Exit(1)
	}
	bricklinkClient, err := bricklink.NewClient(cfg.BrickLink, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create price guide client", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), rebrickClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	barcodeService, err := barcode.NewService(barcode.NewRepository(dbClient.DB()), barcodeClient, catalogService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create barcode service", err)
		os.Exit(1)
	}
	priceService, err := pricesync.NewService(pricesync.NewRepository(dbClient.DB()), bricklinkClient, cfg.Sync, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create price sync service", err)
		os.Exit(1)
	}
	valuationService, err := valuation.NewService(valuation.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create valuation service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:    cfg,
			Logger:    logg,
			DB:        dbClient,
			Redis:     redisPinger,
			Catalog:   catalogService,
			Barcode:   barcodeService,
			Prices:    priceService,
			Valuation: valuationService,
			Metrics:   prometheus.DefaultGatherer,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
