package cli

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/nicolasmmb/go-cashi-payments/internal/domain"
	"github.com/nicolasmmb/go-cashi-payments/internal/presenter"
)

func (c *cli) listCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show stored transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()

			payments, err := s.observe.GetOnce(cmd.Context())
			if err != nil {
				return fmt.Errorf("Failed to load transactions: %w", err)
			}
			if asJSON {
				if payments == nil {
					payments = []domain.Payment{}
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(payments)
			}
			return renderPayments(cmd.OutOrStdout(), payments)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func (c *cli) watchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Show transactions live until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			out := cmd.OutOrStdout()
			var mu sync.Mutex
			lastErr := ""
			s.presenter.OnChange(func(state presenter.TransactionUIState) {
				if state.IsLoadingTransactions {
					return
				}
				mu.Lock()
				defer mu.Unlock()

				if state.Error != "" {
					if state.Error != lastErr {
						fmt.Fprintln(out, state.Error)
					}
					lastErr = state.Error
					return
				}
				lastErr = ""
				fmt.Fprintf(out, "\n%d transaction(s)\n", len(state.Transactions))
				_ = renderPayments(out, state.Transactions)
			})

			if err := s.presenter.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			return nil
		},
	}
}
