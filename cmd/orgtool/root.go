package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/orgnest/orgnest/pkg/composables"
	"github.com/orgnest/orgnest/pkg/configuration"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "orgtool",
		Short:         "Operational tooling for the org-unit tree",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newVerifyCmd())
	cmd.AddCommand(newSeedRootCmd())
	return cmd
}

// withPoolContext opens the configured pool and hands a pool-bound context
// to fn.
func withPoolContext(fn func(ctx context.Context) error) error {
	conf := configuration.Use()
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(composables.WithPool(ctx, pool))
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func main() {
	Execute()
}
