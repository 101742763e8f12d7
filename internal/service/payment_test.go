package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicolasmmb/go-cashi-payments/internal/core"
	"github.com/nicolasmmb/go-cashi-payments/internal/domain"
	"github.com/nicolasmmb/go-cashi-payments/internal/model"
	"github.com/nicolasmmb/go-cashi-payments/internal/validator"
)

type MockPaymentStore struct {
	AppendFunc func(ctx context.Context, p domain.Payment) (domain.Payment, error)
	ListFunc   func(ctx context.Context) ([]domain.Payment, error)

	appended []domain.Payment
}

func (m *MockPaymentStore) AppendPayment(ctx context.Context, p domain.Payment) (domain.Payment, error) {
	m.appended = append(m.appended, p)
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, p)
	}
	return p.WithID("generated-id"), nil
}

func (m *MockPaymentStore) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockPaymentStore) WatchPayments(ctx context.Context, onSnapshot core.SnapshotFunc, onError core.ErrorFunc) (core.Subscription, error) {
	return core.NewSubscription(nil), nil
}

func TestCreatePaymentPersistsCompleted(t *testing.T) {
	t.Parallel()

	store := &MockPaymentStore{}
	svc := NewPaymentService(store)
	fixed := time.UnixMilli(1_700_000_000_123)
	svc.now = func() time.Time { return fixed }

	got, err := svc.CreatePayment(context.Background(), model.PaymentRequest{
		RecipientEmail: " test.recipient@example.com ",
		Amount:         100.50,
		Currency:       "usd",
	})
	require.NoError(t, err)

	assert.Equal(t, &domain.Payment{
		ID:             "generated-id",
		RecipientEmail: "test.recipient@example.com",
		Amount:         100.50,
		Currency:       domain.USD,
		Timestamp:      fixed.UnixMilli(),
		Status:         domain.StatusCompleted,
	}, got)
	require.Len(t, store.appended, 1)
	assert.Empty(t, store.appended[0].ID)
}

func TestCreatePaymentValidationSkipsStore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  model.PaymentRequest
		want string
	}{
		{"bad email first", model.PaymentRequest{RecipientEmail: "bad-email", Amount: 0}, validator.MsgEmailInvalid},
		{"amount", model.PaymentRequest{RecipientEmail: "a@b.co", Amount: -1, Currency: domain.USD}, validator.MsgAmountNotPositive},
		{"currency missing", model.PaymentRequest{RecipientEmail: "a@b.co", Amount: 1}, validator.MsgCurrencyRequired},
		{"currency unknown", model.PaymentRequest{RecipientEmail: "a@b.co", Amount: 1, Currency: "GBP"}, validator.MsgCurrencyUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := &MockPaymentStore{}

			_, err := NewPaymentService(store).CreatePayment(context.Background(), tt.req)

			var verr domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.want, verr.Message)
			assert.Empty(t, store.appended)
		})
	}
}

func TestCreatePaymentStoreFailure(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("store unavailable")
	store := &MockPaymentStore{
		AppendFunc: func(ctx context.Context, p domain.Payment) (domain.Payment, error) {
			return domain.Payment{}, storeErr
		},
	}

	_, err := NewPaymentService(store).CreatePayment(context.Background(), model.PaymentRequest{
		RecipientEmail: "user@example.com", Amount: 1, Currency: domain.EUR,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.Equal(t, "Payment processing failed: store unavailable", err.Error())

	var verr domain.ValidationError
	assert.False(t, errors.As(err, &verr))
}
