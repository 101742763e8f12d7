package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeHealthRepo struct {
	fail  atomic.Bool
	calls atomic.Int32
}

func (f *fakeHealthRepo) HealthCheck(ctx context.Context) error {
	f.calls.Add(1)
	if f.fail.Load() {
		return errors.New("store down")
	}
	return nil
}

func TestPerformHealthCheckTracksStatus(t *testing.T) {
	repo := &fakeHealthRepo{}
	w := NewHealthCheckWorker(repo, time.Second)

	assert.False(t, w.Healthy(), "unknown until first check")

	assert.NoError(t, w.PerformHealthCheck(context.Background()))
	assert.True(t, w.Healthy())

	repo.fail.Store(true)
	assert.Error(t, w.PerformHealthCheck(context.Background()))
	assert.False(t, w.Healthy())
}

func TestRunChecksUntilCancelled(t *testing.T) {
	repo := &fakeHealthRepo{}
	w := NewHealthCheckWorker(repo, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return repo.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	assert.True(t, w.Healthy())

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
