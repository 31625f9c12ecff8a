package commands

import (
	"fmt"

	"github.com/sjperalta/fintera-ledger/internal/database"
	"github.com/sjperalta/fintera-ledger/internal/repository"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newMigrateCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the ledger tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return rc.open(func(db *gorm.DB, _ *repository.Repositories) error {
				if err := database.Migrate(db); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	}
}
