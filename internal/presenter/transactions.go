// Package presenter owns the state a transaction screen renders: the live
// transaction list and the state of the current payment submission.
package presenter

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/nicolasmmb/go-cashi-payments/internal/core"
	"github.com/nicolasmmb/go-cashi-payments/internal/domain"
	"github.com/nicolasmmb/go-cashi-payments/internal/usecase"
	"github.com/nicolasmmb/go-cashi-payments/internal/validator"
)

const (
	MsgInvalidAmount       = "Invalid amount format"
	MsgUnknownError        = "Unknown error"
	MsgLoadTransactionsErr = "Failed to load transactions: "
)

var ErrSubmissionInFlight = errors.New("a payment submission is already in progress")

type Listener func(state TransactionUIState)

type TransactionPresenter struct {
	submit  *usecase.SubmitPaymentUseCase
	observe *usecase.ObserveTransactionsUseCase

	mu         sync.Mutex
	state      TransactionUIState
	generation uint64
	listeners  []Listener

	sub      core.Subscription
	starting bool
	stops    uint64

	// submitting stays set until the repository call returns, even when the
	// phase was dismissed back to Idle.
	submitting bool
}

func NewTransactionPresenter(submit *usecase.SubmitPaymentUseCase, observe *usecase.ObserveTransactionsUseCase) *TransactionPresenter {
	return &TransactionPresenter{
		submit:  submit,
		observe: observe,
		state: TransactionUIState{
			IsLoadingTransactions: true,
			Submission:            Idle(),
		},
	}
}

// OnChange registers a listener called after every state change with a
// copy of the new state. Listeners run on the goroutine that caused the change.
func (p *TransactionPresenter) OnChange(l Listener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, l)
}

func (p *TransactionPresenter) State() TransactionUIState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.clone()
}

// Start subscribes to the transaction stream. Calling it again while
// subscribed, or while another Start is subscribing, is a no-op.
func (p *TransactionPresenter) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.sub != nil || p.starting {
		p.mu.Unlock()
		return nil
	}
	p.starting = true
	stops := p.stops
	p.mu.Unlock()

	sub, err := p.observe.Observe(ctx, p.onSnapshot, p.onStreamError)

	p.mu.Lock()
	p.starting = false
	if err != nil {
		p.mu.Unlock()
		p.onStreamError(err)
		return err
	}
	if stops != p.stops {
		// Stop ran while subscribing.
		p.mu.Unlock()
		sub.Unsubscribe()
		return nil
	}
	p.sub = sub
	p.mu.Unlock()
	return nil
}

// Stop releases the stream subscription, including one still being set up
// by a concurrent Start.
func (p *TransactionPresenter) Stop() {
	p.mu.Lock()
	sub := p.sub
	p.sub = nil
	p.stops++
	p.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
}

func (p *TransactionPresenter) onSnapshot(payments []domain.Payment) {
	p.update(func(s *TransactionUIState) {
		s.Transactions = payments
		s.IsLoadingTransactions = false
		s.Error = ""
	})
}

// onStreamError keeps whatever list is already displayed.
func (p *TransactionPresenter) onStreamError(err error) {
	slog.Warn("[PR:Transactions:Stream] - Transaction stream failed", "error", err)
	p.update(func(s *TransactionUIState) {
		s.IsLoadingTransactions = false
		s.Error = MsgLoadTransactionsErr + err.Error()
	})
}

// SubmitPayment drives Idle -> Validating -> Submitting -> Success|Error and
// blocks until the outcome is known. A second call while one is in flight,
// dismissed or not, returns ErrSubmissionInFlight without touching state.
func (p *TransactionPresenter) SubmitPayment(ctx context.Context, recipientEmail, amountText string, currency domain.Currency) (SubmissionState, error) {
	p.mu.Lock()
	if p.submitting {
		current := p.state.Submission
		p.mu.Unlock()
		return current, ErrSubmissionInFlight
	}
	p.submitting = true
	p.generation++
	gen := p.generation
	p.state.Submission = Validating()
	p.state.Error = ""
	state, listeners := p.state.clone(), p.copyListeners()
	p.mu.Unlock()
	p.emit(state, listeners)

	outcome := p.runSubmission(ctx, gen, recipientEmail, amountText, currency)
	return p.finish(gen, outcome), nil
}

func (p *TransactionPresenter) runSubmission(ctx context.Context, gen uint64, recipientEmail, amountText string, currency domain.Currency) SubmissionState {
	amount, err := strconv.ParseFloat(strings.TrimSpace(amountText), 64)
	if err != nil {
		return Failed(MsgInvalidAmount)
	}

	if res := p.submit.Validate(recipientEmail, amount, currency); !res.IsValid() {
		return Failed(res.Message())
	}

	p.transition(gen, Submitting())

	resp, err := p.submit.Submit(ctx, recipientEmail, amount, currency)
	if err != nil {
		switch e := err.(type) {
		case domain.ValidationError:
			slog.Info("[PR:Transactions:Submit:01] - Input rejected", "reason", e.Message)
		case domain.NetworkError:
			slog.Warn("[PR:Transactions:Submit:02] - Submission failed", "error", e.Message)
		}
		return Failed(err.Error())
	}

	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = MsgUnknownError
		}
		return Failed(msg)
	}
	return Success(resp.Payment)
}

// finish releases the in-flight slot and applies the outcome in one step, so
// a listener reacting to the outcome can already submit again.
func (p *TransactionPresenter) finish(gen uint64, outcome SubmissionState) SubmissionState {
	p.mu.Lock()
	p.submitting = false
	return p.applyLocked(gen, outcome)
}

// Dismiss returns to Idle from any state. An outcome still in flight is
// discarded when it arrives, and new submissions are refused until it does.
func (p *TransactionPresenter) Dismiss() {
	p.mu.Lock()
	p.generation++
	p.mu.Unlock()
	p.update(func(s *TransactionUIState) {
		s.Submission = Idle()
	})
}

func (p *TransactionPresenter) ClearError() {
	p.update(func(s *TransactionUIState) {
		s.Error = ""
	})
}

// GetValidationErrors lists every problem with the form without submitting.
func (p *TransactionPresenter) GetValidationErrors(recipientEmail, amountText string, currency domain.Currency) []string {
	amount, err := strconv.ParseFloat(strings.TrimSpace(amountText), 64)
	if err == nil {
		return p.submit.GetValidationErrors(recipientEmail, amount, currency)
	}

	// An unparsable amount takes the amount rule's slot.
	errs := make([]string, 0, 3)
	if res := validator.ValidateEmail(strings.TrimSpace(recipientEmail)); !res.IsValid() {
		errs = append(errs, res.Message())
	}
	errs = append(errs, MsgInvalidAmount)
	if res := validator.ValidateCurrency(currency); !res.IsValid() {
		errs = append(errs, res.Message())
	}
	return errs
}

func (p *TransactionPresenter) transition(gen uint64, next SubmissionState) SubmissionState {
	p.mu.Lock()
	return p.applyLocked(gen, next)
}

// applyLocked is called with p.mu held and releases it.
func (p *TransactionPresenter) applyLocked(gen uint64, next SubmissionState) SubmissionState {
	if gen != p.generation {
		current := p.state.Submission
		p.mu.Unlock()
		return current
	}
	p.state.Submission = next
	state, listeners := p.state.clone(), p.copyListeners()
	p.mu.Unlock()

	slog.Debug("[PR:Transactions:Transition] - Submission state changed", "phase", next.Phase.String())
	p.emit(state, listeners)
	return next
}

func (p *TransactionPresenter) update(fn func(s *TransactionUIState)) {
	p.mu.Lock()
	fn(&p.state)
	state, listeners := p.state.clone(), p.copyListeners()
	p.mu.Unlock()
	p.emit(state, listeners)
}

func (p *TransactionPresenter) copyListeners() []Listener {
	return append([]Listener(nil), p.listeners...)
}

func (p *TransactionPresenter) emit(state TransactionUIState, listeners []Listener) {
	for _, l := range listeners {
		l(state)
	}
}
