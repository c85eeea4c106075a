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

	"github.com/dukaantech/insights-backend/api/controllers"
	"github.com/dukaantech/insights-backend/api/routes"
	"github.com/dukaantech/insights-backend/internal/insights/query"
	"github.com/dukaantech/insights-backend/internal/insights/report"
	"github.com/dukaantech/insights-backend/internal/orderstore"
	"github.com/dukaantech/insights-backend/pkg/config"
	"github.com/dukaantech/insights-backend/pkg/db"
	"github.com/dukaantech/insights-backend/pkg/logger"
	"github.com/dukaantech/insights-backend/pkg/metrics"
	"github.com/dukaantech/insights-backend/pkg/migrate"
	"github.com/dukaantech/insights-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

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

	// The report cache is advisory; without Redis every report is computed
	// fresh.
	var cacheClient *redis.Client
	if cfg.Redis.Enabled() {
		cacheClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := cacheClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Info(context.Background(), "redis not configured, report caching disabled")
	}

	registry := prometheus.NewRegistry()
	engineMetrics := metrics.NewEngineMetrics(registry)

	orderRepo := orderstore.NewRepository(dbClient.DB())
	var cache report.Cache
	if cacheClient != nil {
		cache = cacheClient
	}
	reportService := report.NewService(orderRepo, cache, cfg.Engine.CacheTTL, logg, engineMetrics)
	queryEngine := query.NewEngine(reportService, cfg.Engine.HandlerTimeout, logg, engineMetrics)

	deps := map[string]controllers.Pinger{"db": dbClient}
	if cacheClient != nil {
		deps["cache"] = cacheClient
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
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, deps, reportService, queryEngine, orderRepo, registry),
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
