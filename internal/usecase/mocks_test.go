package usecase

import (
	"context"
	"sync"

	"github.com/nicolasmmb/go-cashi-payments/internal/core"
	"github.com/nicolasmmb/go-cashi-payments/internal/domain"
	"github.com/nicolasmmb/go-cashi-payments/internal/model"
)

// MockPaymentRepository records calls and delegates to the optional funcs.
type MockPaymentRepository struct {
	SubmitFunc  func(ctx context.Context, req model.PaymentRequest) (*model.PaymentResponse, error)
	ObserveFunc func(ctx context.Context, onSnapshot core.SnapshotFunc, onError core.ErrorFunc) (core.Subscription, error)
	GetFunc     func(ctx context.Context) ([]domain.Payment, error)

	mu          sync.Mutex
	submitCalls []model.PaymentRequest
}

func (m *MockPaymentRepository) SubmitPayment(ctx context.Context, req model.PaymentRequest) (*model.PaymentResponse, error) {
	m.mu.Lock()
	m.submitCalls = append(m.submitCalls, req)
	m.mu.Unlock()
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, req)
	}
	return &model.PaymentResponse{Success: true}, nil
}

func (m *MockPaymentRepository) ObserveTransactions(ctx context.Context, onSnapshot core.SnapshotFunc, onError core.ErrorFunc) (core.Subscription, error) {
	if m.ObserveFunc != nil {
		return m.ObserveFunc(ctx, onSnapshot, onError)
	}
	return core.NewSubscription(nil), nil
}

func (m *MockPaymentRepository) GetTransactions(ctx context.Context) ([]domain.Payment, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx)
	}
	return nil, nil
}

func (m *MockPaymentRepository) SubmitCalls() []model.PaymentRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.PaymentRequest(nil), m.submitCalls...)
}
