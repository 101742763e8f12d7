// Package stub is the repository used where no store is reachable: reads are
// empty and submissions work only when a submitter is supplied.
package stub

import (
	"context"
	"errors"

	"github.com/nicolasmmb/go-cashi-payments/internal/core"
	"github.com/nicolasmmb/go-cashi-payments/internal/domain"
	"github.com/nicolasmmb/go-cashi-payments/internal/model"
)

var ErrUnsupported = errors.New("payment submission is not available without an API client")

type PaymentSubmitter interface {
	SubmitPayment(ctx context.Context, req model.PaymentRequest) (*model.PaymentResponse, error)
}

type paymentRepository struct {
	api PaymentSubmitter
}

// NewPaymentRepository accepts a nil submitter.
func NewPaymentRepository(api PaymentSubmitter) *paymentRepository {
	return &paymentRepository{api: api}
}

func (r *paymentRepository) SubmitPayment(ctx context.Context, req model.PaymentRequest) (*model.PaymentResponse, error) {
	if r.api == nil {
		return nil, ErrUnsupported
	}
	return r.api.SubmitPayment(ctx, req)
}

// ObserveTransactions emits a single empty snapshot.
func (r *paymentRepository) ObserveTransactions(ctx context.Context, onSnapshot core.SnapshotFunc, onError core.ErrorFunc) (core.Subscription, error) {
	onSnapshot([]domain.Payment{})
	return core.NewSubscription(nil), nil
}

func (r *paymentRepository) GetTransactions(ctx context.Context) ([]domain.Payment, error) {
	return []domain.Payment{}, nil
}
