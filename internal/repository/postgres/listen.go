package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nicolasmmb/go-cashi-payments/internal/core"
)

const (
	LISTEN_RETRY_MIN = 500 * time.Millisecond
	LISTEN_RETRY_MAX = 30 * time.Second
)

var errListenEnded = errors.New("listen session ended")

// superviseListen runs session until ctx is done. Every failed session is
// reported to onError and restarted after a delay that doubles up to
// maxDelay. A session that stayed up longer than maxDelay resets the delay.
func superviseListen(ctx context.Context, session func(ctx context.Context) error, onError core.ErrorFunc, minDelay, maxDelay time.Duration) {
	delay := minDelay
	for {
		started := time.Now()
		err := session(ctx)
		if ctx.Err() != nil {
			return
		}
		if err == nil {
			err = errListenEnded
		}
		if time.Since(started) > maxDelay {
			delay = minDelay
		}

		slog.Error("[RP:PG:Payment:Watch:01] - Listen connection failed", "error", err, "retry_in", delay)
		if onError != nil {
			onError(err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		delay = min(delay*2, maxDelay)
	}
}
