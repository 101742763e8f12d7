package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusFailed    TransactionStatus = "FAILED"
)

// StatusFromName matches the exact upper-case status name.
func StatusFromName(name string) (TransactionStatus, bool) {
	switch s := TransactionStatus(name); s {
	case StatusPending, StatusCompleted, StatusFailed:
		return s, true
	}
	return "", false
}

// Payment is an immutable money-transfer record. A persisted payment is a
// copy carrying the store-assigned ID, never a mutated original.
type Payment struct {
	ID             string            `json:"id"`
	RecipientEmail string            `json:"recipientEmail"`
	Amount         float64           `json:"amount"`
	Currency       Currency          `json:"currency"`
	Timestamp      int64             `json:"timestamp"` // epoch milliseconds
	Status         TransactionStatus `json:"status"`
}

// NewPayment builds a client-side payment: no ID yet, stamped now, PENDING.
func NewPayment(recipientEmail string, amount float64, currency Currency) Payment {
	return Payment{
		RecipientEmail: recipientEmail,
		Amount:         amount,
		Currency:       currency,
		Timestamp:      time.Now().UnixMilli(),
		Status:         StatusPending,
	}
}

func (p Payment) WithID(id string) Payment {
	p.ID = id
	return p
}

func (p Payment) WithStatus(status TransactionStatus) Payment {
	p.Status = status
	return p
}

func (p Payment) WithTimestamp(t time.Time) Payment {
	p.Timestamp = t.UnixMilli()
	return p
}

func (p Payment) Time() time.Time {
	return time.UnixMilli(p.Timestamp)
}

// FormattedAmount renders the amount with its currency symbol, rounded
// half-up to two decimals. The stored Amount is left untouched.
func (p Payment) FormattedAmount() string {
	return p.Currency.Symbol() + decimal.NewFromFloat(p.Amount).StringFixed(2)
}
