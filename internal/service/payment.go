package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nicolasmmb/go-cashi-payments/internal/core"
	"github.com/nicolasmmb/go-cashi-payments/internal/domain"
	"github.com/nicolasmmb/go-cashi-payments/internal/model"
	"github.com/nicolasmmb/go-cashi-payments/internal/validator"
)

type PaymentService struct {
	repoPayment core.PaymentStoreInterface
	now         func() time.Time
}

func NewPaymentService(paymentRepository core.PaymentStoreInterface) *PaymentService {
	return &PaymentService{
		repoPayment: paymentRepository,
		now:         time.Now,
	}
}

// CreatePayment re-validates the request with the same rules as the client,
// then performs one append. The server's clock and COMPLETED status are
// authoritative. A domain.ValidationError means nothing was written.
func (ps *PaymentService) CreatePayment(ctx context.Context, req model.PaymentRequest) (*domain.Payment, error) {
	email := strings.TrimSpace(req.RecipientEmail)
	currency := domain.NormalizeCurrency(string(req.Currency))

	if res := validator.ValidatePayment(email, req.Amount, currency); !res.IsValid() {
		slog.Info("[SV:Payment:Create:01] - Rejected payment", "reason", res.Message())
		return nil, domain.ValidationError{Message: res.Message()}
	}

	payment := domain.NewPayment(email, req.Amount, currency).
		WithTimestamp(ps.now()).
		WithStatus(domain.StatusCompleted)

	saved, err := ps.repoPayment.AppendPayment(ctx, payment)
	if err != nil {
		slog.Error("[SV:Payment:Create:02] - Failed to persist payment", "error", err)
		return nil, fmt.Errorf("Payment processing failed: %w", err)
	}

	slog.Info("[SV:Payment:Create:03] - Payment created", "id", saved.ID, "currency", saved.Currency)
	return &saved, nil
}

func (ps *PaymentService) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	return ps.repoPayment.ListPayments(ctx)
}
