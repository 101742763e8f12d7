package presenter

import "github.com/nicolasmmb/go-cashi-payments/internal/domain"

type SubmissionPhase int

const (
	PhaseIdle SubmissionPhase = iota
	PhaseValidating
	PhaseSubmitting
	PhaseSuccess
	PhaseError
)

func (p SubmissionPhase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseValidating:
		return "Validating"
	case PhaseSubmitting:
		return "Submitting"
	case PhaseSuccess:
		return "Success"
	case PhaseError:
		return "Error"
	}
	return "Unknown"
}

// SubmissionState is exactly one phase at a time. Message is set only in
// PhaseError, Payment only in PhaseSuccess.
type SubmissionState struct {
	Phase   SubmissionPhase
	Message string
	Payment *domain.Payment
}

func Idle() SubmissionState       { return SubmissionState{Phase: PhaseIdle} }
func Validating() SubmissionState { return SubmissionState{Phase: PhaseValidating} }
func Submitting() SubmissionState { return SubmissionState{Phase: PhaseSubmitting} }

func Success(p *domain.Payment) SubmissionState {
	return SubmissionState{Phase: PhaseSuccess, Payment: p}
}

func Failed(message string) SubmissionState {
	return SubmissionState{Phase: PhaseError, Message: message}
}

func (s SubmissionState) InFlight() bool {
	return s.Phase == PhaseValidating || s.Phase == PhaseSubmitting
}

// TransactionUIState is everything the rendering layer reads. The read side
// (Transactions, IsLoadingTransactions, Error) moves independently of
// Submission.
type TransactionUIState struct {
	Transactions          []domain.Payment
	IsLoadingTransactions bool
	Error                 string
	Submission            SubmissionState
}

func (s TransactionUIState) clone() TransactionUIState {
	if s.Transactions != nil {
		s.Transactions = append([]domain.Payment(nil), s.Transactions...)
	}
	return s
}
