package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orgnest/orgnest/modules/org/domain/office"
	"github.com/orgnest/orgnest/modules/org/domain/unit"
	"github.com/orgnest/orgnest/modules/org/infrastructure/persistence"
	"github.com/orgnest/orgnest/pkg/composables"
)

func newSeedRootCmd() *cobra.Command {
	var (
		name        string
		bootstrapID int64
	)

	cmd := &cobra.Command{
		Use:   "seed-root",
		Short: "Create the national root unit, optionally with a bootstrap national office",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPoolContext(func(ctx context.Context) error {
				tree := persistence.NewTreeRepository()
				offices := persistence.NewOfficeRepository()

				return composables.InTx(ctx, func(txCtx context.Context) error {
					root, err := tree.InsertRoot(txCtx, name)
					if err != nil {
						return err
					}
					fmt.Printf("seeded root %q (id=%d)\n", root.Name, root.ID)

					if bootstrapID == 0 {
						return nil
					}
					o, err := offices.Create(txCtx, &office.Office{
						UserID:      bootstrapID,
						ParentOrgID: &root.ID,
						Roles:       []string{office.PermOrgUpdate, office.CreatePermission(unit.TypeRegion)},
					})
					if err != nil {
						return err
					}
					fmt.Printf("seeded national office %d for user %d\n", o.ID, o.UserID)
					return nil
				})
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "National", "name of the root unit")
	cmd.Flags().Int64Var(&bootstrapID, "bootstrap-user", 0, "user to grant a national office to")
	return cmd
}
