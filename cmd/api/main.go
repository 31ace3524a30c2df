package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/angelmondragon/mealplanner-backend/api/routes"
	"github.com/angelmondragon/mealplanner-backend/internal/catalog"
	"github.com/angelmondragon/mealplanner-backend/internal/demand"
	"github.com/angelmondragon/mealplanner-backend/internal/inventory"
	"github.com/angelmondragon/mealplanner-backend/internal/kitchen"
	"github.com/angelmondragon/mealplanner-backend/internal/shopping"
	"github.com/angelmondragon/mealplanner-backend/internal/stock"
	"github.com/angelmondragon/mealplanner-backend/pkg/config"
	"github.com/angelmondragon/mealplanner-backend/pkg/db"
	"github.com/angelmondragon/mealplanner-backend/pkg/logger"
	"github.com/angelmondragon/mealplanner-backend/pkg/metrics"
	"github.com/angelmondragon/mealplanner-backend/pkg/migrate"
	"github.com/angelmondragon/mealplanner-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api", Level: zerolog.InfoLevel})

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

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(ctx, "redis not configured; idempotent replay and completion lock disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	catalogRepo := catalog.NewRepository(dbClient.DB())
	ledger, err := stock.NewService(stock.NewRepository(dbClient.DB()), dbClient, catalogRepo)
	if err != nil {
		return err
	}
	aggregator, err := demand.NewAggregator(catalogRepo)
	if err != nil {
		return err
	}

	shoppingParams := shopping.ServiceParams{
		Repo:    shopping.NewRepository(dbClient.DB()),
		Tx:      dbClient,
		Demand:  aggregator,
		Catalog: catalogRepo,
		Stock:   ledger,
		Metrics: metrics.NewShoppingMetrics(registry),
		Logger:  logg,
	}
	if redisClient != nil {
		locker, err := redis.NewLocker(redisClient, cfg.Shopping.CompletionLockTTL)
		if err != nil {
			return err
		}
		shoppingParams.Locker = locker
	}
	shoppingService, err := shopping.NewService(shoppingParams)
	if err != nil {
		return err
	}

	inventoryService, err := inventory.NewService(inventory.ServiceParams{
		Repo:    inventory.NewRepository(dbClient.DB()),
		Tx:      dbClient,
		Catalog: catalogRepo,
		Stock:   ledger,
		Metrics: metrics.NewInventoryMetrics(registry),
		Logger:  logg,
	})
	if err != nil {
		return err
	}

	kitchenService, err := kitchen.NewService(catalogRepo, ledger, dbClient, logg)
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			aggregator,
			shoppingService,
			ledger,
			inventoryService,
			kitchenService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
