package postgres

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicolasmmb/go-cashi-payments/internal/database"
	"github.com/nicolasmmb/go-cashi-payments/internal/domain"
)

// These tests need a disposable database: CASHI_TEST_DB_SOURCE=postgres://...
func newTestRepo(t *testing.T) *paymentsPostgresRepository {
	t.Helper()
	dsn := os.Getenv("CASHI_TEST_DB_SOURCE")
	if dsn == "" {
		t.Skip("CASHI_TEST_DB_SOURCE not set")
	}

	ctx := context.Background()
	pool, err := database.ConnectToPostgres(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, "TRUNCATE TABLE payments")
	require.NoError(t, err)

	return NewPaymentsRepository(pool)
}

func TestPostgresAppendAndList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, ts := range []int64{2000, 3000, 1000} {
		_, err := repo.AppendPayment(ctx, domain.Payment{
			RecipientEmail: "user@example.com",
			Amount:         10,
			Currency:       domain.EUR,
			Timestamp:      ts,
			Status:         domain.StatusCompleted,
		})
		require.NoError(t, err)
	}

	_, err := repo.db.Exec(ctx,
		"INSERT INTO payments (id, recipient_email, amount, currency, timestamp_ms, status) VALUES ('bad', 'x@example.com', 1, 'XXX', 5000, 'PENDING')")
	require.NoError(t, err)

	got, err := repo.ListPayments(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, int64(3000), got[0].Timestamp)
	assert.Equal(t, int64(1000), got[2].Timestamp)
}

func TestPostgresWatch(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	var mu sync.Mutex
	var last []domain.Payment
	sub, err := repo.WatchPayments(ctx, func(p []domain.Payment) {
		mu.Lock()
		defer mu.Unlock()
		last = p
	}, nil)
	require.NoError(t, err)

	_, err = repo.AppendPayment(ctx, domain.NewPayment("user@example.com", 1, domain.USD))
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(last) == 1
	}, 5*time.Second, 20*time.Millisecond)

	sub.Unsubscribe()
	sub.Unsubscribe()
	assert.Equal(t, int32(0), repo.db.Stat().AcquiredConns())
}
