// Package remote binds the client-side repository: submissions go through
// the payment API, reads and live updates come straight from the store the
// server writes to.
package remote

import (
	"context"

	"github.com/nicolasmmb/go-cashi-payments/internal/core"
	"github.com/nicolasmmb/go-cashi-payments/internal/domain"
	"github.com/nicolasmmb/go-cashi-payments/internal/model"
)

type PaymentSubmitter interface {
	SubmitPayment(ctx context.Context, req model.PaymentRequest) (*model.PaymentResponse, error)
}

type paymentRepository struct {
	api   PaymentSubmitter
	store core.PaymentStoreInterface
}

func NewPaymentRepository(api PaymentSubmitter, store core.PaymentStoreInterface) *paymentRepository {
	return &paymentRepository{api: api, store: store}
}

func (r *paymentRepository) SubmitPayment(ctx context.Context, req model.PaymentRequest) (*model.PaymentResponse, error) {
	return r.api.SubmitPayment(ctx, req)
}

func (r *paymentRepository) ObserveTransactions(ctx context.Context, onSnapshot core.SnapshotFunc, onError core.ErrorFunc) (core.Subscription, error) {
	return r.store.WatchPayments(ctx, onSnapshot, onError)
}

func (r *paymentRepository) GetTransactions(ctx context.Context) ([]domain.Payment, error) {
	return r.store.ListPayments(ctx)
}
