// Package cli is the cashi command line client. It drives the same
// submission pipeline and transaction presenter a UI would.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nicolasmmb/go-cashi-payments/internal/app"
	"github.com/nicolasmmb/go-cashi-payments/internal/config/env"
	"github.com/nicolasmmb/go-cashi-payments/internal/presenter"
	"github.com/nicolasmmb/go-cashi-payments/internal/usecase"
	"github.com/nicolasmmb/go-cashi-payments/libs"
)

// BootstrapFunc builds the app context a command runs against. Commands
// close it when they finish.
type BootstrapFunc func(ctx context.Context) (*app.Context, error)

// DefaultBootstrap loads the environment and connects the configured store.
func DefaultBootstrap(ctx context.Context) (*app.Context, error) {
	if err := env.Load(); err != nil {
		return nil, err
	}
	return app.Bootstrap(ctx, app.ConfigFromEnv())
}

type cli struct {
	bootstrap BootstrapFunc
	verbose   bool
}

func NewRootCommand(bootstrap BootstrapFunc) *cobra.Command {
	if bootstrap == nil {
		bootstrap = DefaultBootstrap
	}
	c := &cli{bootstrap: bootstrap}

	root := &cobra.Command{
		Use:   "cashi",
		Short: "Cashi payments client",
		Long: `cashi submits payments to the Cashi payment server and shows the
transaction history stored behind it.

Configuration comes from the environment (or a .env file): API_BASE_URL,
STORE_DRIVER, REDIS_ADDR, DB_SOURCE, HTTP_TIMEOUT_MS.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "WARN"
			if c.verbose {
				level = "DEBUG"
			}
			slog.SetDefault(libs.NewLogger(cmd.ErrOrStderr(), level, "text"))
		},
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(c.submitCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(currenciesCommand())
	root.AddCommand(c.resetCommand())
	return root
}

// Execute runs the CLI with the default bootstrap.
func Execute(version string) error {
	root := NewRootCommand(nil)
	root.Version = version
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// session is one command's wiring; close releases the store.
type session struct {
	app       *app.Context
	presenter *presenter.TransactionPresenter
	observe   *usecase.ObserveTransactionsUseCase
}

func (c *cli) open(ctx context.Context) (*session, error) {
	a, err := c.bootstrap(ctx)
	if err != nil {
		return nil, err
	}
	repo := a.Repository()
	submit := usecase.NewSubmitPaymentUseCase(repo)
	observe := usecase.NewObserveTransactionsUseCase(repo)
	return &session{
		app:       a,
		presenter: presenter.NewTransactionPresenter(submit, observe),
		observe:   observe,
	}, nil
}

func (s *session) close() {
	s.presenter.Stop()
	s.app.Close()
}
