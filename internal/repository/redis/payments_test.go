package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/nicolasmmb/go-cashi-payments/internal/domain"
)

func newTestRepo(t *testing.T) (*paymentsRedisRepository, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr(), Protocol: 2})
	t.Cleanup(func() { _ = client.Close() })
	return NewPaymentsRepository(client), m, client
}

func paymentAt(email string, amount float64, ts int64) domain.Payment {
	return domain.Payment{
		RecipientEmail: email,
		Amount:         amount,
		Currency:       domain.USD,
		Timestamp:      ts,
		Status:         domain.StatusCompleted,
	}
}

// snapshotRecorder collects watch emissions for assertions.
type snapshotRecorder struct {
	mu        sync.Mutex
	snapshots [][]domain.Payment
	errs      []error
}

func (s *snapshotRecorder) onSnapshot(p []domain.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, p)
}

func (s *snapshotRecorder) onError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, err)
}

func (s *snapshotRecorder) last() []domain.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.snapshots) == 0 {
		return nil
	}
	return s.snapshots[len(s.snapshots)-1]
}

func (s *snapshotRecorder) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snapshots)
}

func TestAppendAssignsIDAndKeepsFields(t *testing.T) {
	repo, _, _ := newTestRepo(t)
	ctx := context.Background()

	in := paymentAt("user@example.com", 100.50, 1_700_000_000_000)
	saved, err := repo.AppendPayment(ctx, in)
	require.NoError(t, err)

	assert.NotEmpty(t, saved.ID)
	assert.Empty(t, in.ID, "input payment must not be mutated")
	assert.Equal(t, in.WithID(saved.ID), saved)
}

func TestListOrderedByTimestampDescending(t *testing.T) {
	repo, _, _ := newTestRepo(t)
	ctx := context.Background()

	for i, ts := range []int64{2000, 3000, 1000} {
		_, err := repo.AppendPayment(ctx, paymentAt("user@example.com", float64(i+1), ts))
		require.NoError(t, err)
	}

	got, err := repo.ListPayments(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, int64(3000), got[0].Timestamp)
	assert.Equal(t, int64(2000), got[1].Timestamp)
	assert.Equal(t, int64(1000), got[2].Timestamp)
}

func TestListEmpty(t *testing.T) {
	repo, _, _ := newTestRepo(t)

	got, err := repo.ListPayments(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListDropsMalformedRecords(t *testing.T) {
	repo, _, client := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.AppendPayment(ctx, paymentAt("good@example.com", 5, 100))
	require.NoError(t, err)

	badCurrency, err := msgpack.Marshal(domain.Record{RecipientEmail: "x@example.com", Amount: 1, Currency: "XXX", Timestamp: 200})
	require.NoError(t, err)
	require.NoError(t, client.HSet(ctx, RD_KEY_PAYMENT_RECORDS, "bad-currency", badCurrency).Err())
	require.NoError(t, client.HSet(ctx, RD_KEY_PAYMENT_RECORDS, "garbage", "not msgpack at all \xc1").Err())
	require.NoError(t, client.ZAdd(ctx, RD_KEY_TX_PAYMENTS,
		redis.Z{Score: 200, Member: "bad-currency"},
		redis.Z{Score: 300, Member: "garbage"},
		redis.Z{Score: 400, Member: "orphan"},
	).Err())

	got, err := repo.ListPayments(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "good@example.com", got[0].RecipientEmail)
}

func TestAppendFailsWhenStoreDown(t *testing.T) {
	repo, m, _ := newTestRepo(t)
	m.Close()

	_, err := repo.AppendPayment(context.Background(), paymentAt("user@example.com", 1, 1))
	assert.Error(t, err)
}

func TestWatchEmitsInitialAndUpdatedSnapshots(t *testing.T) {
	repo, _, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.AppendPayment(ctx, paymentAt("first@example.com", 1, 1000))
	require.NoError(t, err)

	rec := &snapshotRecorder{}
	sub, err := repo.WatchPayments(ctx, rec.onSnapshot, rec.onError)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	require.Eventually(t, func() bool { return len(rec.last()) == 1 }, 2*time.Second, 10*time.Millisecond)

	_, err = repo.AppendPayment(ctx, paymentAt("second@example.com", 2, 2000))
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(rec.last()) == 2 }, 2*time.Second, 10*time.Millisecond)
	last := rec.last()
	assert.Equal(t, "second@example.com", last[0].RecipientEmail)
	assert.Equal(t, "first@example.com", last[1].RecipientEmail)
}

func TestWatchReleasesListenerOnUnsubscribe(t *testing.T) {
	repo, m, _ := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		rec := &snapshotRecorder{}
		sub, err := repo.WatchPayments(ctx, rec.onSnapshot, rec.onError)
		require.NoError(t, err)
		require.Eventually(t, func() bool {
			return m.PubSubNumSub(RD_CHANNEL_PAYMENTS_NEW)[RD_CHANNEL_PAYMENTS_NEW] == 1
		}, 2*time.Second, 10*time.Millisecond)

		sub.Unsubscribe()
		sub.Unsubscribe()

		require.Eventually(t, func() bool {
			return m.PubSubNumSub(RD_CHANNEL_PAYMENTS_NEW)[RD_CHANNEL_PAYMENTS_NEW] == 0
		}, 2*time.Second, 10*time.Millisecond)
	}
}

func TestWatchStopsWhenContextCancelled(t *testing.T) {
	repo, m, _ := newTestRepo(t)
	ctx, cancel := context.WithCancel(context.Background())

	rec := &snapshotRecorder{}
	_, err := repo.WatchPayments(ctx, rec.onSnapshot, rec.onError)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return rec.count() >= 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()

	require.Eventually(t, func() bool {
		return m.PubSubNumSub(RD_CHANNEL_PAYMENTS_NEW)[RD_CHANNEL_PAYMENTS_NEW] == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestResetState(t *testing.T) {
	repo, _, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.AppendPayment(ctx, paymentAt("user@example.com", 1, 1))
	require.NoError(t, err)
	require.NoError(t, repo.ResetState(ctx))

	got, err := repo.ListPayments(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHealthCheck(t *testing.T) {
	_, m, client := newTestRepo(t)
	hc := NewHealthCheckRepository(client)

	assert.NoError(t, hc.HealthCheck(context.Background()))

	require.NoError(t, m.Set(RD_KEY_TX_PAYMENTS, "oops"))
	assert.ErrorContains(t, hc.HealthCheck(context.Background()), "expected zset")
	m.Del(RD_KEY_TX_PAYMENTS)
	assert.NoError(t, hc.HealthCheck(context.Background()))

	m.Close()
	assert.Error(t, hc.HealthCheck(context.Background()))
}
