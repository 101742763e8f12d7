package model

import "github.com/nicolasmmb/go-cashi-payments/internal/domain"

// PaymentRequest is the POST /payments body. It only lives between a
// passing validation and the wire call.
type PaymentRequest struct {
	RecipientEmail string          `json:"recipientEmail"`
	Amount         float64         `json:"amount"`
	Currency       domain.Currency `json:"currency"`
}

// PaymentResponse carries Payment when Success is true and Error otherwise.
type PaymentResponse struct {
	Success bool            `json:"success"`
	Payment *domain.Payment `json:"payment,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type PaymentListResponse struct {
	Success  bool             `json:"success"`
	Payments []domain.Payment `json:"payments"`
	Error    string           `json:"error,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}
