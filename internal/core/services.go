package core

import (
	"context"

	"github.com/nicolasmmb/go-cashi-payments/internal/domain"
	"github.com/nicolasmmb/go-cashi-payments/internal/model"
)

// SnapshotFunc receives the complete current transaction list, most recent first.
type SnapshotFunc func(payments []domain.Payment)

type ErrorFunc func(err error)

// PaymentRepositoryInterface is the client-side boundary between the
// submission pipeline and transport/store.
type PaymentRepositoryInterface interface {
	// SubmitPayment performs exactly one wire call and never retries.
	SubmitPayment(ctx context.Context, req model.PaymentRequest) (*model.PaymentResponse, error)
	ObserveTransactions(ctx context.Context, onSnapshot SnapshotFunc, onError ErrorFunc) (Subscription, error)
	GetTransactions(ctx context.Context) ([]domain.Payment, error)
}

// PaymentStoreInterface is the document store: append one record, list
// records by timestamp descending, and push full snapshots on change.
type PaymentStoreInterface interface {
	AppendPayment(ctx context.Context, payment domain.Payment) (domain.Payment, error)
	ListPayments(ctx context.Context) ([]domain.Payment, error)
	WatchPayments(ctx context.Context, onSnapshot SnapshotFunc, onError ErrorFunc) (Subscription, error)
}

type HealthCheckRepositoryInterface interface {
	HealthCheck(ctx context.Context) error
}
