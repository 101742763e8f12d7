// Package validator holds the payment input rules shared by the client
// pipeline and the server, so both tiers report identical messages.
package validator

import (
	"math"
	"regexp"
	"strings"

	"github.com/nicolasmmb/go-cashi-payments/internal/domain"
)

const (
	MsgEmailEmpty          = "Email cannot be empty"
	MsgEmailInvalid        = "Invalid email format"
	MsgAmountNotPositive   = "Amount must be greater than 0"
	MsgAmountExceedsLimit  = "Amount exceeds maximum limit"
	MsgCurrencyRequired    = "Currency is required"
	MsgCurrencyUnsupported = "Unsupported currency"

	MaxAmount = 1_000_000
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// Result is either Valid or Invalid(message).
type Result struct {
	invalid bool
	message string
}

var Valid = Result{}

func Invalid(message string) Result {
	return Result{invalid: true, message: message}
}

func (r Result) IsValid() bool { return !r.invalid }

// Message is empty for a valid result.
func (r Result) Message() string { return r.message }

func ValidateEmail(email string) Result {
	trimmed := strings.TrimSpace(email)
	switch {
	case trimmed == "":
		return Invalid(MsgEmailEmpty)
	case !emailPattern.MatchString(trimmed):
		return Invalid(MsgEmailInvalid)
	}
	return Valid
}

// ValidateAmount accepts 0 < amount <= MaxAmount.
func ValidateAmount(amount float64) Result {
	switch {
	case math.IsNaN(amount) || amount <= 0:
		return Invalid(MsgAmountNotPositive)
	case amount > MaxAmount:
		return Invalid(MsgAmountExceedsLimit)
	}
	return Valid
}

func ValidateCurrency(currency domain.Currency) Result {
	switch {
	case currency == "":
		return Invalid(MsgCurrencyRequired)
	case !currency.IsSupported():
		return Invalid(MsgCurrencyUnsupported)
	}
	return Valid
}

// ValidatePayment checks email, amount, then currency and returns the
// first failure. The order is user-facing.
func ValidatePayment(email string, amount float64, currency domain.Currency) Result {
	for _, r := range [...]Result{
		ValidateEmail(email),
		ValidateAmount(amount),
		ValidateCurrency(currency),
	} {
		if !r.IsValid() {
			return r
		}
	}
	return Valid
}

// ValidatePaymentWithAllErrors returns every failure message in the same
// order as ValidatePayment. The slice is empty iff the input is valid.
func ValidatePaymentWithAllErrors(email string, amount float64, currency domain.Currency) []string {
	errs := make([]string, 0, 3)
	for _, r := range [...]Result{
		ValidateEmail(email),
		ValidateAmount(amount),
		ValidateCurrency(currency),
	} {
		if !r.IsValid() {
			errs = append(errs, r.Message())
		}
	}
	return errs
}
