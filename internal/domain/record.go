package domain

import (
	"errors"
	"fmt"
	"math"
)

var ErrMalformedRecord = errors.New("malformed payment record")

// Record is the store-resident shape of a payment. The ID lives outside
// the record (hash field, primary key) so it is not part of the payload.
type Record struct {
	RecipientEmail string  `msgpack:"recipientEmail"`
	Amount         float64 `msgpack:"amount"`
	Currency       string  `msgpack:"currency"`
	Timestamp      int64   `msgpack:"timestamp"`
	Status         string  `msgpack:"status"`
}

func (p Payment) Record() Record {
	return Record{
		RecipientEmail: p.RecipientEmail,
		Amount:         p.Amount,
		Currency:       p.Currency.Code(),
		Timestamp:      p.Timestamp,
		Status:         string(p.Status),
	}
}

// Payment rebuilds the domain value for the given ID. An empty status is
// read as COMPLETED; an unknown currency or status makes the record malformed.
func (r Record) Payment(id string) (Payment, error) {
	if id == "" {
		return Payment{}, fmt.Errorf("%w: missing id", ErrMalformedRecord)
	}
	currency, ok := CurrencyFromCode(r.Currency)
	if !ok {
		return Payment{}, fmt.Errorf("%w: unknown currency %q", ErrMalformedRecord, r.Currency)
	}
	status := StatusCompleted
	if r.Status != "" {
		if status, ok = StatusFromName(r.Status); !ok {
			return Payment{}, fmt.Errorf("%w: unknown status %q", ErrMalformedRecord, r.Status)
		}
	}
	if math.IsNaN(r.Amount) || math.IsInf(r.Amount, 0) {
		return Payment{}, fmt.Errorf("%w: non-finite amount", ErrMalformedRecord)
	}
	return Payment{
		ID:             id,
		RecipientEmail: r.RecipientEmail,
		Amount:         r.Amount,
		Currency:       currency,
		Timestamp:      r.Timestamp,
		Status:         status,
	}, nil
}
