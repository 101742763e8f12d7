// Package app holds the process-wide wiring: which store backs payments, the
// API client, and the repositories built on them. One Context is created at
// startup and passed explicitly to whatever needs it.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/nicolasmmb/go-cashi-payments/internal/client"
	"github.com/nicolasmmb/go-cashi-payments/internal/config/env"
	"github.com/nicolasmmb/go-cashi-payments/internal/core"
	"github.com/nicolasmmb/go-cashi-payments/internal/database"
	"github.com/nicolasmmb/go-cashi-payments/internal/repository/postgres"
	"github.com/nicolasmmb/go-cashi-payments/internal/repository/redis"
	"github.com/nicolasmmb/go-cashi-payments/internal/repository/remote"
	"github.com/nicolasmmb/go-cashi-payments/internal/repository/stub"
)

const (
	DRIVER_REDIS    = "redis"
	DRIVER_POSTGRES = "postgres"
	DRIVER_NONE     = "none"

	connectTimeout = 5 * time.Second
)

type Config struct {
	StoreDriver         string
	RedisAddr           string
	DBSource            string
	APIBaseURL          string
	HTTPTimeout         time.Duration
	HealthCheckInterval time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		StoreDriver:         env.Values.STORE_DRIVER,
		RedisAddr:           env.Values.REDIS_ADDR,
		DBSource:            env.Values.DB_SOURCE,
		APIBaseURL:          env.Values.API_BASE_URL,
		HTTPTimeout:         time.Duration(env.Values.HTTP_TIMEOUT_MS) * time.Millisecond,
		HealthCheckInterval: time.Duration(env.Values.HEALTH_CHECK_INTERVAL_MS) * time.Millisecond,
	}
}

type Context struct {
	Config Config

	// Store and Health are nil when the driver is "none".
	Store  core.PaymentStoreInterface
	Health core.HealthCheckRepositoryInterface
	API    *client.PaymentAPIClient

	closeOnce sync.Once
	closers   []func()
}

// Bootstrap connects the configured store. The caller must Close the
// returned Context.
func Bootstrap(ctx context.Context, cfg Config) (*Context, error) {
	c := &Context{
		Config: cfg,
		API:    client.NewPaymentAPIClient(cfg.APIBaseURL, cfg.HTTPTimeout),
	}

	dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch driver := strings.ToLower(strings.TrimSpace(cfg.StoreDriver)); driver {
	case DRIVER_REDIS, "":
		rds, err := database.ConnectToRedisClient(dialCtx, cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		c.Store = redis.NewPaymentsRepository(rds)
		c.Health = redis.NewHealthCheckRepository(rds)
		c.closers = append(c.closers, func() { database.CloseRedisClient(rds) })

	case DRIVER_POSTGRES:
		pool, err := database.ConnectToPostgres(dialCtx, cfg.DBSource)
		if err != nil {
			return nil, err
		}
		c.Store = postgres.NewPaymentsRepository(pool)
		c.Health = postgres.NewHealthCheckRepository(pool)
		c.closers = append(c.closers, pool.Close)

	case DRIVER_NONE:
		slog.Warn("[AP:Context:Bootstrap] - No store configured, reads will be empty")

	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q (want redis, postgres or none)", driver)
	}

	return c, nil
}

func (c *Context) HasStore() bool {
	return c.Store != nil
}

// Repository is the client-side repository: submissions through the API,
// reads from the store, or empty reads when there is no store.
func (c *Context) Repository() core.PaymentRepositoryInterface {
	if c.Store == nil {
		if c.API == nil {
			return stub.NewPaymentRepository(nil)
		}
		return stub.NewPaymentRepository(c.API)
	}
	return remote.NewPaymentRepository(c.API, c.Store)
}

func (c *Context) Close() {
	c.closeOnce.Do(func() {
		for i := len(c.closers) - 1; i >= 0; i-- {
			c.closers[i]()
		}
	})
}
