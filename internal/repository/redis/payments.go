package redis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/nicolasmmb/go-cashi-payments/internal/core"
	"github.com/nicolasmmb/go-cashi-payments/internal/domain"
)

const (
	RD_KEY_TX_PAYMENTS      = "tx:payments"      // ZSET id scored by timestamp
	RD_KEY_PAYMENT_RECORDS  = "payments:records" // HASH id -> msgpack record
	RD_CHANNEL_PAYMENTS_NEW = "payments:events"
)

type paymentsRedisRepository struct {
	db *redis.Client
}

func NewPaymentsRepository(db *redis.Client) *paymentsRedisRepository {
	return &paymentsRedisRepository{db: db}
}

// AppendPayment stores the record, indexes it by timestamp and notifies
// watchers in a single MULTI/EXEC.
func (r *paymentsRedisRepository) AppendPayment(ctx context.Context, payment domain.Payment) (domain.Payment, error) {
	id := uuid.NewString()

	b, err := msgpack.Marshal(payment.Record())
	if err != nil {
		slog.Error("[RP:Payment:Append:01] - Failed to marshal payment", "id", id, "error", err)
		return domain.Payment{}, err
	}

	_, err = r.db.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, RD_KEY_PAYMENT_RECORDS, id, b)
		pipe.ZAdd(ctx, RD_KEY_TX_PAYMENTS, redis.Z{
			Score:  float64(payment.Timestamp),
			Member: id,
		})
		pipe.Publish(ctx, RD_CHANNEL_PAYMENTS_NEW, id)
		return nil
	})
	if err != nil {
		slog.Error("[RP:Payment:Append:02] - Failed to save payment to Redis", "id", id, "error", err)
		return domain.Payment{}, err
	}

	slog.Info("[RP:Payment:Append:03] - Payment saved", "id", id, "timestamp", payment.Timestamp)
	return payment.WithID(id), nil
}

// ListPayments returns every well-formed payment, most recent first.
func (r *paymentsRedisRepository) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	ids, err := r.db.ZRevRange(ctx, RD_KEY_TX_PAYMENTS, 0, -1).Result()
	if err != nil {
		slog.Error("[RP:Payment:List:01] - Failed to read payment index", "error", err)
		return nil, err
	}

	payments := make([]domain.Payment, 0, len(ids))
	if len(ids) == 0 {
		return payments, nil
	}

	values, err := r.db.HMGet(ctx, RD_KEY_PAYMENT_RECORDS, ids...).Result()
	if err != nil {
		slog.Error("[RP:Payment:List:02] - Failed to read payment records", "error", err)
		return nil, err
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			slog.Warn("[RP:Payment:List:03] - Indexed payment has no record", "id", ids[i])
			continue
		}

		var rec domain.Record
		if err := msgpack.Unmarshal([]byte(raw), &rec); err != nil {
			slog.Warn("[RP:Payment:List:04] - Failed to unmarshal payment record", "id", ids[i], "error", err)
			continue
		}

		payment, err := rec.Payment(ids[i])
		if err != nil {
			slog.Warn("[RP:Payment:List:05] - Dropping malformed payment", "id", ids[i], "error", err)
			continue
		}
		payments = append(payments, payment)
	}

	return payments, nil
}

// WatchPayments emits the current list right away and again after every
// append. Read failures go to onError and the watch keeps running. The
// Pub/Sub connection is closed exactly once, on Unsubscribe or when ctx ends.
func (r *paymentsRedisRepository) WatchPayments(ctx context.Context, onSnapshot core.SnapshotFunc, onError core.ErrorFunc) (core.Subscription, error) {
	pubsub := r.db.Subscribe(ctx, RD_CHANNEL_PAYMENTS_NEW)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", RD_CHANNEL_PAYMENTS_NEW, err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	sub := core.NewSubscription(func() {
		cancel()
		if err := pubsub.Close(); err != nil {
			slog.Warn("[RP:Payment:Watch:03] - Failed to close subscription", "error", err)
		}
		slog.Info("[RP:Payment:Watch:04] - Payment watch released")
	})

	ch := pubsub.Channel()
	go func() {
		defer sub.Unsubscribe()

		r.emitSnapshot(watchCtx, onSnapshot, onError)
		for {
			select {
			case <-watchCtx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				r.emitSnapshot(watchCtx, onSnapshot, onError)
			}
		}
	}()

	return sub, nil
}

func (r *paymentsRedisRepository) emitSnapshot(ctx context.Context, onSnapshot core.SnapshotFunc, onError core.ErrorFunc) {
	payments, err := r.ListPayments(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		slog.Warn("[RP:Payment:Watch:01] - Snapshot read failed", "error", err)
		if onError != nil {
			onError(err)
		}
		return
	}
	slog.Debug("[RP:Payment:Watch:02] - Emitting snapshot", "count", len(payments))
	onSnapshot(payments)
}

// ResetState drops every payment key. Used by tests and local tooling.
func (r *paymentsRedisRepository) ResetState(ctx context.Context) error {
	slog.Info("[RP:Payment:ResetState] - Resetting payment state in Redis")
	return r.db.Del(ctx, RD_KEY_TX_PAYMENTS, RD_KEY_PAYMENT_RECORDS).Err()
}
