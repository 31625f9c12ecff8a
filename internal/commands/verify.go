package commands

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/sjperalta/fintera-ledger/internal/repository"
	"github.com/sjperalta/fintera-ledger/internal/services"
	"github.com/sjperalta/fintera-ledger/pkg/amount"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// ErrBalanceDrift is returned by verify when stored balances disagree with
// the posted entries and --fix was not given
var ErrBalanceDrift = errors.New("stored balances drift from posted entries")

func newVerifyCmd(rc *RootConfig) *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Recompute account balances from posted entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return rc.open(func(_ *gorm.DB, repos *repository.Repositories) error {
				accounts := services.NewAccountService(repos)

				var drifts []services.BalanceDrift
				var err error
				if fix {
					drifts, err = accounts.RepairBalances(cmd.Context(), services.SystemActor)
				} else {
					drifts, err = accounts.VerifyBalances(cmd.Context())
				}
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(drifts) == 0 {
					fmt.Fprintln(out, "all balances match posted entries")
					return nil
				}

				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ACCOUNT\tSTORED\tCOMPUTED")
				for _, d := range drifts {
					fmt.Fprintf(w, "%s\t%s\t%s\n", d.Code, amount.String(d.Stored), amount.String(d.Computed))
				}
				if err := w.Flush(); err != nil {
					return err
				}

				if fix {
					fmt.Fprintf(out, "repaired %d account(s)\n", len(drifts))
					return nil
				}
				return ErrBalanceDrift
			})
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Overwrite drifted balances with the recomputed values")
	return cmd
}
