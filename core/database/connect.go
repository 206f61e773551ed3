package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/dunyajewellery/catalogbot/core/logger"
)

func init() {
	// modernc registers "sqlite", which sqlx does not know; queries use '?'.
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Connect opens the database connection, configures the pool, and verifies connectivity.
// Postgres is retried until it accepts connections or 30s pass.
func Connect(cfg Config) (*sqlx.DB, error) {
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	timeout := 5 * time.Second
	if cfg.Driver == DriverPostgres {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return ConnectContext(ctx, cfg)
}

// ConnectContext is Connect bounded by ctx.
func ConnectContext(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}

	start := time.Now()
	db, err := openWithRetry(ctx, cfg)
	took := time.Since(start)
	if err != nil {
		logger.DB.Error("db connect failed",
			slog.String("event", "db.connect"),
			slog.String("driver", cfg.Driver),
			slog.String("host", cfg.Host),
			slog.String("db", dbName(cfg)),
			slog.Duration("duration", took),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("db connect: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxConnections)

	logger.DB.Info("db connected",
		slog.String("event", "db.connect"),
		slog.String("driver", cfg.Driver),
		slog.String("host", cfg.Host),
		slog.String("db", dbName(cfg)),
		slog.Int("pool_open", cfg.MaxConnections),
		slog.Duration("duration", took),
	)
	return db, nil
}

func openWithRetry(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	for {
		db, err := sqlx.ConnectContext(ctx, cfg.Driver, cfg.DSN())
		if err == nil {
			return db, nil
		}
		if cfg.Driver != DriverPostgres {
			return nil, err
		}
		logger.DB.Debug("db not ready",
			slog.String("event", "db.wait"),
			slog.String("err", err.Error()),
		)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("timeout reached waiting for database: %w", err)
		case <-time.After(2 * time.Second):
		}
	}
}

func dbName(cfg Config) string {
	if cfg.Driver == DriverSQLite {
		return cfg.Path
	}
	return cfg.Name
}
