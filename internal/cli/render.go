package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nicolasmmb/go-cashi-payments/internal/domain"
)

const (
	MSG_NO_TRANSACTIONS = "No transactions yet."
	timeLayout          = "2006-01-02 15:04:05"
)

func renderPayments(w io.Writer, payments []domain.Payment) error {
	if len(payments) == 0 {
		_, err := fmt.Fprintln(w, MSG_NO_TRANSACTIONS)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tRECIPIENT\tAMOUNT\tSTATUS\tTIME")
	for _, p := range payments {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.RecipientEmail, p.FormattedAmount(), p.Status, p.Time().Format(timeLayout))
	}
	return tw.Flush()
}

func currenciesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "currencies",
		Short: "List supported currencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tSYMBOL")
			for _, c := range domain.SupportedCurrencies {
				fmt.Fprintf(tw, "%s\t%s\n", c.Code(), c.Symbol())
			}
			return tw.Flush()
		},
	}
}
