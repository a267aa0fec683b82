package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benx421/carmarket/internal/config"
	"github.com/benx421/carmarket/internal/db"
	"github.com/benx421/carmarket/internal/gateway"
	"github.com/benx421/carmarket/internal/handlers"
	"github.com/benx421/carmarket/internal/metrics"
	"github.com/benx421/carmarket/internal/repository"
	"github.com/benx421/carmarket/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const idempotencyPurgeInterval = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting carmarket payments api",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
		"gateway_mode", cfg.Gateway.Mode,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, &cfg.Telemetry, logger)
	if err != nil {
		logger.Error("failed to set up tracing", "error", err)
		os.Exit(1)
	}

	database, err := db.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx); err != nil {
			logger.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := database.RegisterMetrics(registry); err != nil {
		logger.Error("failed to register database metrics", "error", err)
		os.Exit(1)
	}
	m := metrics.New(registry)

	gw := newGateway(cfg, m, logger)

	idempotencyRepo := repository.NewIdempotencyRepository(database)
	go purgeIdempotencyKeys(ctx, idempotencyRepo, cfg.Payments.IdempotencyKeyRetention, logger)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handlers.NewRouter(database, gw, cfg, m, registry, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("failed to flush traces", "error", err)
	}

	logger.Info("server stopped")
}

func newGateway(cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) gateway.Client {
	if cfg.Gateway.Mode == config.GatewayModeChapa {
		return gateway.NewChapaClient(&cfg.Gateway, m, logger)
	}

	logger.Warn("using sandbox payment gateway, no real payments will be taken",
		"failure_rate", cfg.Gateway.SandboxFailureRate,
	)
	return gateway.NewSandbox(&cfg.Gateway, logger)
}

// purgeIdempotencyKeys drops replayable responses older than retention, once
// at startup and then on every tick until ctx is done.
func purgeIdempotencyKeys(ctx context.Context, repo repository.IdempotencyRepository, retention time.Duration, logger *slog.Logger) {
	if retention <= 0 {
		return
	}

	ticker := time.NewTicker(idempotencyPurgeInterval)
	defer ticker.Stop()

	for {
		deleted, err := repo.DeleteOlderThan(ctx, time.Now().Add(-retention))
		if err != nil {
			logger.Error("failed to purge idempotency keys", "error", err)
		} else if deleted > 0 {
			logger.Info("purged idempotency keys", "deleted", deleted)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
