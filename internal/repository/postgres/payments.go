package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nicolasmmb/go-cashi-payments/internal/core"
	"github.com/nicolasmmb/go-cashi-payments/internal/domain"
)

const PG_CHANNEL_PAYMENTS = "payments_events"

type paymentsPostgresRepository struct {
	db *pgxpool.Pool
}

func NewPaymentsRepository(db *pgxpool.Pool) *paymentsPostgresRepository {
	return &paymentsPostgresRepository{db: db}
}

// AppendPayment inserts the row and notifies listeners in one transaction;
// NOTIFY is only delivered on commit.
func (r *paymentsPostgresRepository) AppendPayment(ctx context.Context, payment domain.Payment) (domain.Payment, error) {
	id := uuid.NewString()
	rec := payment.Record()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("tx begin failed: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		"INSERT INTO payments (id, recipient_email, amount, currency, timestamp_ms, status) VALUES ($1, $2, $3, $4, $5, $6)",
		id, rec.RecipientEmail, rec.Amount, rec.Currency, rec.Timestamp, rec.Status,
	)
	if err != nil {
		slog.Error("[RP:PG:Payment:Append:01] - Failed to insert payment", "id", id, "error", err)
		return domain.Payment{}, fmt.Errorf("payment insert failed: %w", err)
	}

	if _, err = tx.Exec(ctx, "SELECT pg_notify($1, $2)", PG_CHANNEL_PAYMENTS, id); err != nil {
		return domain.Payment{}, fmt.Errorf("payment notify failed: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return domain.Payment{}, fmt.Errorf("tx commit failed: %w", err)
	}

	return payment.WithID(id), nil
}

func (r *paymentsPostgresRepository) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	rows, err := r.db.Query(ctx,
		"SELECT id, recipient_email, amount, currency, timestamp_ms, status FROM payments ORDER BY timestamp_ms DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]domain.Payment, 0)
	for rows.Next() {
		var id string
		var rec domain.Record
		if err := rows.Scan(&id, &rec.RecipientEmail, &rec.Amount, &rec.Currency, &rec.Timestamp, &rec.Status); err != nil {
			slog.Warn("[RP:PG:Payment:List:01] - Error scanning payment", "error", err)
			continue
		}
		payment, err := rec.Payment(id)
		if err != nil {
			slog.Warn("[RP:PG:Payment:List:02] - Dropping malformed payment", "id", id, "error", err)
			continue
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return payments, nil
}

// WatchPayments holds one pooled connection in LISTEN mode for the life of
// the subscription. A lost connection is replaced with backoff and a fresh
// snapshot is emitted once it listens again. Unsubscribe waits until the
// connection is back in the pool, so it must not be called from inside
// onSnapshot.
func (r *paymentsPostgresRepository) WatchPayments(ctx context.Context, onSnapshot core.SnapshotFunc, onError core.ErrorFunc) (core.Subscription, error) {
	first, err := r.listen(ctx)
	if err != nil {
		return nil, err
	}

	watchCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer slog.Info("[RP:PG:Payment:Watch:03] - Payment watch released")

		superviseListen(watchCtx, func(ctx context.Context) error {
			conn := first
			first = nil
			if conn == nil {
				var err error
				if conn, err = r.listen(ctx); err != nil {
					return err
				}
				slog.Info("[RP:PG:Payment:Watch:04] - Listen connection restored")
			}
			defer unlisten(conn)
			return r.serveNotifications(ctx, conn, onSnapshot, onError)
		}, onError, LISTEN_RETRY_MIN, LISTEN_RETRY_MAX)
	}()

	return core.NewSubscription(func() {
		cancel()
		<-done
	}), nil
}

func (r *paymentsPostgresRepository) listen(ctx context.Context) (*pgxpool.Conn, error) {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire listen connection: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{PG_CHANNEL_PAYMENTS}.Sanitize()); err != nil {
		conn.Release()
		return nil, fmt.Errorf("listen on %s: %w", PG_CHANNEL_PAYMENTS, err)
	}
	return conn, nil
}

func unlisten(conn *pgxpool.Conn) {
	if _, err := conn.Exec(context.Background(), "UNLISTEN *"); err != nil {
		// A connection in an unknown state must not go back to the pool.
		_ = conn.Conn().Close(context.Background())
	}
	conn.Release()
}

// serveNotifications emits a snapshot on entry and after every
// notification until the connection fails or ctx is done.
func (r *paymentsPostgresRepository) serveNotifications(ctx context.Context, conn *pgxpool.Conn, onSnapshot core.SnapshotFunc, onError core.ErrorFunc) error {
	r.emitSnapshot(ctx, onSnapshot, onError)
	for {
		if _, err := conn.Conn().WaitForNotification(ctx); err != nil {
			return err
		}
		r.emitSnapshot(ctx, onSnapshot, onError)
	}
}

func (r *paymentsPostgresRepository) emitSnapshot(ctx context.Context, onSnapshot core.SnapshotFunc, onError core.ErrorFunc) {
	payments, err := r.ListPayments(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		slog.Warn("[RP:PG:Payment:Watch:02] - Snapshot read failed", "error", err)
		if onError != nil {
			onError(err)
		}
		return
	}
	onSnapshot(payments)
}
