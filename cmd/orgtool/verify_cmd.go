package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orgnest/orgnest/modules/org/infrastructure/persistence"
	"github.com/orgnest/orgnest/modules/org/services"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Scan the org tree for nested-set and parent-path violations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPoolContext(func(ctx context.Context) error {
				tree := persistence.NewTreeRepository()
				units, err := tree.ListAll(ctx)
				if err != nil {
					return err
				}

				problems := services.CheckIntegrity(units)
				if len(problems) == 0 {
					fmt.Printf("ok: %d units, tree consistent\n", len(units))
					return nil
				}
				for _, p := range problems {
					fmt.Println(p)
				}
				return fmt.Errorf("%d integrity violations", len(problems))
			})
		},
	}
}
