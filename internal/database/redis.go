package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// ConnectToRedisClient dials and pings Redis. The caller owns the client
// and must Close it.
func ConnectToRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	slog.Info("[DB:Redis:Connect:00] - Connecting to Redis", "addr", addr)

	if addr == "" {
		return nil, fmt.Errorf("redis address is empty, set REDIS_ADDR")
	}

	c := redis.NewClient(&redis.Options{
		Addr:         addr,
		PoolSize:     32,
		MinIdleConns: 4,
	})

	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	slog.Info("[DB:Redis:Connect:01] - Redis client connected", "addr", addr)
	return c, nil
}

func CloseRedisClient(c *redis.Client) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		slog.Error("[DB:Redis:Close] - Failed to close Redis client", "error", err)
	}
}
