// Package db owns the Postgres pool behind the payment and car stores.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/benx421/carmarket/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	// Import postgres driver for registration with database/sql)
	_ "github.com/lib/pq"
)

// DBTX is the subset of *sql.DB and *sql.Tx used by repositories.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DB is the shared pool. Payments, cars and idempotency keys live in the
// same database.
type DB struct {
	*sql.DB
	logger *slog.Logger
	name   string
}

type pinger interface {
	PingContext(ctx context.Context) error
}

// Connect opens the pool and waits for Postgres to accept connections,
// pinging up to cfg.ConnectAttempts times with cfg.ConnectBackoff between
// attempts. The API usually starts alongside its database, so the first
// pings may fail.
func Connect(ctx context.Context, cfg *config.DatabaseConfig, logger *slog.Logger) (*DB, error) {
	logger.Info("connecting to payments database",
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.DBName,
		"attempts", cfg.ConnectAttempts,
	)

	pool, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := waitForDatabase(ctx, pool, cfg.ConnectAttempts, cfg.ConnectBackoff, logger); err != nil {
		_ = pool.Close()
		return nil, err
	}

	logger.Info("payments database ready",
		"max_open_conns", cfg.MaxOpenConns,
		"max_idle_conns", cfg.MaxIdleConns,
		"conn_max_lifetime", cfg.ConnMaxLifetime,
	)

	return &DB{
		DB:     pool,
		logger: logger,
		name:   cfg.DBName,
	}, nil
}

func waitForDatabase(ctx context.Context, p pinger, attempts int, backoff time.Duration, logger *slog.Logger) error {
	attempts = max(attempts, 1)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = p.PingContext(ctx); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		logger.Warn("database not ready, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return fmt.Errorf("gave up waiting for database: %w", ctx.Err())
		case <-time.After(backoff):
		}
	}

	return fmt.Errorf("failed to ping database after %d attempts: %w", attempts, err)
}

// RegisterMetrics exposes pool statistics (open, in-use and idle
// connections, wait counts) labelled with the database name.
func (db *DB) RegisterMetrics(reg prometheus.Registerer) error {
	if err := reg.Register(collectors.NewDBStatsCollector(db.DB, db.name)); err != nil {
		return fmt.Errorf("failed to register database metrics: %w", err)
	}
	return nil
}

// Close releases the pool on shutdown.
func (db *DB) Close() error {
	db.logger.Info("closing payments database pool")
	return db.DB.Close()
}
