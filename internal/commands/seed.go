package commands

import (
	"fmt"

	"github.com/sjperalta/fintera-ledger/internal/database"
	"github.com/sjperalta/fintera-ledger/internal/repository"
	"github.com/sjperalta/fintera-ledger/internal/seed"
	"github.com/sjperalta/fintera-ledger/internal/services"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type seedOptions struct {
	File string
	Year int
}

func newSeedCmd(rc *RootConfig) *cobra.Command {
	opts := &seedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a chart of accounts and optionally open a fiscal year",
		Long: `Seed creates the accounts of a YAML chart of accounts that do not exist yet.
Without --file the built-in default chart is used. With --year the twelve
calendar months of that year are opened as fiscal periods.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			chart := seed.Default()
			if opts.File != "" {
				var err error
				if chart, err = seed.LoadFile(opts.File); err != nil {
					return err
				}
			}

			return rc.open(func(db *gorm.DB, repos *repository.Repositories) error {
				if err := database.Migrate(db); err != nil {
					return err
				}
				ctx := cmd.Context()

				res, err := seed.Apply(ctx, services.NewAccountService(repos), chart, services.SystemActor)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "accounts: %d created, %d already present\n", res.Created, res.Skipped)

				if opts.Year > 0 {
					res, err := seed.OpenYear(ctx, services.NewPeriodService(repos), opts.Year, services.SystemActor)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "fiscal periods %d: %d created, %d already present\n", opts.Year, res.Created, res.Skipped)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.File, "file", "", "Chart of accounts YAML (default: built-in chart)")
	cmd.Flags().IntVar(&opts.Year, "year", 0, "Open monthly fiscal periods for this year")
	return cmd
}
