package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var ErrResetUnsupported = errors.New("the configured store cannot be reset")

type resettable interface {
	ResetState(ctx context.Context) error
}

func (c *cli) resetCommand() *cobra.Command {
	var confirmed bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every stored transaction (local development only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return errors.New("refusing to delete transactions without --yes")
			}

			s, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()

			store, ok := s.app.Store.(resettable)
			if !ok {
				return ErrResetUnsupported
			}
			if err := store.ResetState(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All transactions deleted.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "Confirm deletion")
	return cmd
}
