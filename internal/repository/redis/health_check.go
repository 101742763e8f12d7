package redis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

type healthCheckRedisRepository struct {
	db *redis.Client
}

func NewHealthCheckRepository(db *redis.Client) *healthCheckRedisRepository {
	return &healthCheckRedisRepository{db: db}
}

// HealthCheck pings Redis and checks that the payment keys, when present,
// hold the types the store writes.
func (r *healthCheckRedisRepository) HealthCheck(ctx context.Context) error {
	if err := r.db.Ping(ctx).Err(); err != nil {
		slog.Error("[RP:HealthCheck:Redis:01] - Redis health check failed", "error", err)
		return err
	}

	for key, want := range map[string]string{
		RD_KEY_TX_PAYMENTS:     "zset",
		RD_KEY_PAYMENT_RECORDS: "hash",
	} {
		got, err := r.db.Type(ctx, key).Result()
		if err != nil {
			return err
		}
		if got != "none" && got != want {
			err := fmt.Errorf("key %s holds a %s, expected %s", key, got, want)
			slog.Error("[RP:HealthCheck:Redis:02] - Payment keys are corrupted", "error", err)
			return err
		}
	}

	slog.Debug("[RP:HealthCheck:Redis:03] - Redis health check successful")
	return nil
}
