package usecase

import (
	"context"

	"github.com/nicolasmmb/go-cashi-payments/internal/core"
	"github.com/nicolasmmb/go-cashi-payments/internal/domain"
)

type ObserveTransactionsUseCase struct {
	repo core.PaymentRepositoryInterface
}

func NewObserveTransactionsUseCase(repo core.PaymentRepositoryInterface) *ObserveTransactionsUseCase {
	return &ObserveTransactionsUseCase{repo: repo}
}

// Observe streams full transaction lists until the subscription is released
// or ctx ends.
func (uc *ObserveTransactionsUseCase) Observe(ctx context.Context, onSnapshot core.SnapshotFunc, onError core.ErrorFunc) (core.Subscription, error) {
	return uc.repo.ObserveTransactions(ctx, onSnapshot, onError)
}

func (uc *ObserveTransactionsUseCase) GetOnce(ctx context.Context) ([]domain.Payment, error) {
	return uc.repo.GetTransactions(ctx)
}
