package postgres

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

type healthCheckPostgresRepository struct {
	db *pgxpool.Pool
}

func NewHealthCheckRepository(db *pgxpool.Pool) *healthCheckPostgresRepository {
	return &healthCheckPostgresRepository{db: db}
}

func (r *healthCheckPostgresRepository) HealthCheck(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		slog.Error("[RP:HealthCheck:Postgres] - Postgres health check failed", "error", err)
		return err
	}
	return nil
}
