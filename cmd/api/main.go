package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/luisaguirre/cartquotes-backend/api/routes"
	"github.com/luisaguirre/cartquotes-backend/internal/quotes"
	"github.com/luisaguirre/cartquotes-backend/internal/reconcile"
	"github.com/luisaguirre/cartquotes-backend/internal/setup"
	"github.com/luisaguirre/cartquotes-backend/pkg/commerce"
	"github.com/luisaguirre/cartquotes-backend/pkg/config"
	"github.com/luisaguirre/cartquotes-backend/pkg/db"
	"github.com/luisaguirre/cartquotes-backend/pkg/logger"
	"github.com/luisaguirre/cartquotes-backend/pkg/metrics"
	"github.com/luisaguirre/cartquotes-backend/pkg/migrate"
	"github.com/luisaguirre/cartquotes-backend/pkg/redis"
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

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	quoteMetrics := metrics.NewQuoteMetrics(registry)

	commerceClient, err := commerce.NewClient(
		cfg.Commerce.BaseURL,
		cfg.Commerce.AuthToken,
		commerce.WithTimeout(cfg.Commerce.Timeout),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to build commerce client", err)
		os.Exit(1)
	}

	quoteService, err := quotes.NewService(
		quotes.NewRepository(dbClient.DB()),
		cfg.Quotes.CartLifeSpanDays,
		quoteMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create quote service", err)
		os.Exit(1)
	}

	applyService, err := reconcile.NewService(commerceClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create reconcile service", err)
		os.Exit(1)
	}

	setupService, err := setup.NewService(
		setup.NewRepository(dbClient.DB()),
		redisClient,
		setup.NewMigrationEnsurer(dbClient, migrate.DefaultDir),
		commerceClient,
		cfg.Quotes,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create setup service", err)
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
		Handler: routes.NewRouter(cfg, logg, routes.Deps{
			DB:       dbClient,
			Redis:    redisClient,
			Quotes:   quoteService,
			Apply:    applyService,
			Setup:    setupService,
			Registry: registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
