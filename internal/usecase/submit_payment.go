package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nicolasmmb/go-cashi-payments/internal/core"
	"github.com/nicolasmmb/go-cashi-payments/internal/domain"
	"github.com/nicolasmmb/go-cashi-payments/internal/model"
	"github.com/nicolasmmb/go-cashi-payments/internal/validator"
)

const MsgNetworkError = "Network error"

// SubmitPaymentUseCase gates the repository call behind validation. It is
// stateless and safe for concurrent use.
type SubmitPaymentUseCase struct {
	repo core.PaymentRepositoryInterface
}

func NewSubmitPaymentUseCase(repo core.PaymentRepositoryInterface) *SubmitPaymentUseCase {
	return &SubmitPaymentUseCase{repo: repo}
}

// Validate runs the first-error rule set against the trimmed email.
func (uc *SubmitPaymentUseCase) Validate(recipientEmail string, amount float64, currency domain.Currency) validator.Result {
	return validator.ValidatePayment(strings.TrimSpace(recipientEmail), amount, currency)
}

// Submit returns the repository's response untouched on success. Failures
// are always a domain.SubmitPaymentError: ValidationError when the input was
// rejected (the repository is not called), NetworkError otherwise.
func (uc *SubmitPaymentUseCase) Submit(ctx context.Context, recipientEmail string, amount float64, currency domain.Currency) (*model.PaymentResponse, error) {
	email := strings.TrimSpace(recipientEmail)

	if res := validator.ValidatePayment(email, amount, currency); !res.IsValid() {
		slog.Info("[UC:SubmitPayment:01] - Payment rejected by validation", "reason", res.Message())
		return nil, domain.ValidationError{Message: res.Message()}
	}

	req := model.PaymentRequest{
		RecipientEmail: email,
		Amount:         amount,
		Currency:       currency,
	}

	resp, err := uc.repo.SubmitPayment(ctx, req)
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = MsgNetworkError
		}
		slog.Warn("[UC:SubmitPayment:02] - Payment submission failed", "error", msg)
		return nil, domain.NetworkError{Message: msg}
	}
	if resp == nil {
		return nil, domain.NetworkError{Message: MsgNetworkError}
	}

	return resp, nil
}

// GetValidationErrors lists every failing rule without submitting.
func (uc *SubmitPaymentUseCase) GetValidationErrors(recipientEmail string, amount float64, currency domain.Currency) []string {
	return validator.ValidatePaymentWithAllErrors(recipientEmail, amount, currency)
}
