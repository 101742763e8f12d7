package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

const paymentsSchema = `
CREATE TABLE IF NOT EXISTS payments (
	id              TEXT PRIMARY KEY,
	recipient_email TEXT NOT NULL,
	amount          DOUBLE PRECISION NOT NULL,
	currency        TEXT NOT NULL,
	timestamp_ms    BIGINT NOT NULL,
	status          TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS payments_timestamp_ms_idx ON payments (timestamp_ms DESC);
`

// ConnectToPostgres opens a pool, pings it and makes sure the payments
// table exists.
func ConnectToPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres source is empty, set DB_SOURCE")
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, paymentsSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to apply payments schema: %w", err)
	}

	slog.Info("[DB:Postgres:Connect] - Postgres pool ready", "max_conns", cfg.MaxConns)
	return pool, nil
}
