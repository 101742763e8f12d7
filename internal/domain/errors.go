package domain

// SubmitPaymentError is the closed set of submission failures. Only
// ValidationError and NetworkError implement it, so a type switch over the
// two is exhaustive.
type SubmitPaymentError interface {
	error
	submitPaymentError()
}

// ValidationError is raised before any network call; the message comes from
// the validator's fixed set.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string { return e.Message }

func (ValidationError) submitPaymentError() {}

// NetworkError covers transport failures, non-2xx replies and server-side
// persistence errors.
type NetworkError struct {
	Message string
}

func (e NetworkError) Error() string { return e.Message }

func (NetworkError) submitPaymentError() {}
