package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nicolasmmb/go-cashi-payments/internal/domain"
	"github.com/nicolasmmb/go-cashi-payments/internal/presenter"
)

var ErrInvalidInput = errors.New("payment input is invalid")

type submitFlags struct {
	email        string
	amount       string
	currency     string
	validateOnly bool
}

func (c *cli) submitCommand() *cobra.Command {
	f := &submitFlags{}
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Send a payment",
		Example: `  cashi submit --email test.recipient@example.com --amount 100.50 --currency USD
  cashi submit --email bad --amount 0 --validate-only`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSubmit(cmd, f)
		},
	}
	cmd.Flags().StringVarP(&f.email, "email", "e", "", "Recipient email")
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "Amount, e.g. 100.50")
	cmd.Flags().StringVarP(&f.currency, "currency", "c", string(domain.USD), "Currency code ("+currencyCodes()+")")
	cmd.Flags().BoolVar(&f.validateOnly, "validate-only", false, "List every validation problem without sending")
	return cmd
}

func (c *cli) runSubmit(cmd *cobra.Command, f *submitFlags) error {
	s, err := c.open(cmd.Context())
	if err != nil {
		return err
	}
	defer s.close()

	out := cmd.OutOrStdout()
	currency := domain.NormalizeCurrency(f.currency)

	if f.validateOnly {
		problems := s.presenter.GetValidationErrors(f.email, f.amount, currency)
		if len(problems) == 0 {
			fmt.Fprintln(out, "Payment is valid.")
			return nil
		}
		for _, p := range problems {
			fmt.Fprintf(out, "  - %s\n", p)
		}
		return ErrInvalidInput
	}

	progress := cmd.ErrOrStderr()
	s.presenter.OnChange(func(state presenter.TransactionUIState) {
		switch state.Submission.Phase {
		case presenter.PhaseValidating:
			fmt.Fprintln(progress, "Validating...")
		case presenter.PhaseSubmitting:
			fmt.Fprintln(progress, "Submitting...")
		}
	})

	final, err := s.presenter.SubmitPayment(cmd.Context(), f.email, f.amount, currency)
	if err != nil {
		return err
	}
	if final.Phase != presenter.PhaseSuccess {
		return errors.New(final.Message)
	}

	p := final.Payment
	if p == nil {
		fmt.Fprintln(out, "Payment sent.")
		return nil
	}
	fmt.Fprintf(out, "Payment %s sent: %s to %s (%s)\n", p.ID, p.FormattedAmount(), p.RecipientEmail, p.Status)
	return nil
}

func currencyCodes() string {
	codes := make([]string, 0, len(domain.SupportedCurrencies))
	for _, c := range domain.SupportedCurrencies {
		codes = append(codes, c.Code())
	}
	return strings.Join(codes, ", ")
}
