package worker

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/nicolasmmb/go-cashi-payments/internal/core"
)

const (
	HEALTH_CHECK_INTERVAL = 5 * time.Second
	HEALTH_CHECK_TIMEOUT  = 2 * time.Second
)

var storeUp = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "cashi_store_up",
	Help: "1 when the last store health check succeeded",
})

// healthCheckWorker pings the store on a ticker and caches the outcome so
// the /health handler never blocks on the store.
type healthCheckWorker struct {
	repo     core.HealthCheckRepositoryInterface
	interval time.Duration
	healthy  atomic.Bool
}

func NewHealthCheckWorker(repo core.HealthCheckRepositoryInterface, interval time.Duration) *healthCheckWorker {
	if interval <= 0 {
		interval = HEALTH_CHECK_INTERVAL
	}
	return &healthCheckWorker{repo: repo, interval: interval}
}

func (w *healthCheckWorker) Run(ctx context.Context) {
	w.PerformHealthCheck(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("[WK:HealthCheck:Run] - Health check worker stopped")
			return
		case <-ticker.C:
			w.PerformHealthCheck(ctx)
		}
	}
}

func (w *healthCheckWorker) PerformHealthCheck(ctx context.Context) error {
	checkCtx, cancel := context.WithTimeout(ctx, HEALTH_CHECK_TIMEOUT)
	defer cancel()

	err := w.repo.HealthCheck(checkCtx)
	was := w.healthy.Swap(err == nil)
	if err != nil {
		storeUp.Set(0)
		if was {
			slog.Error("[WK:HealthCheck:Perform] - Store became unreachable", "error", err)
		}
		return err
	}

	storeUp.Set(1)
	if !was {
		slog.Info("[WK:HealthCheck:Perform] - Store reachable")
	}
	return nil
}

func (w *healthCheckWorker) Healthy() bool {
	return w.healthy.Load()
}
