// Package commands implements ledgerctl, the ledger's admin command line.
package commands

import (
	"fmt"
	"os"

	"github.com/sjperalta/fintera-ledger/internal/database"
	"github.com/sjperalta/fintera-ledger/internal/repository"
	"github.com/sjperalta/fintera-ledger/pkg/amount"
	"github.com/sjperalta/fintera-ledger/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// RootConfig holds the persistent flags shared by every subcommand
type RootConfig struct {
	DatabaseURL string
	Environment string
	LogLevel    string
	Currency    string
}

func NewRootCmd() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Ledger administration: migrations, seed data and balance checks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&rc.DatabaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL DSN or sqlite://path")
	cmd.PersistentFlags().StringVar(&rc.Environment, "env", envOr("ENVIRONMENT", "development"), "Environment name")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", envOr("LOG_LEVEL", "warn"), "Log level: debug|info|warn|error")
	cmd.PersistentFlags().StringVar(&rc.Currency, "currency", envOr("LEDGER_CURRENCY", amount.DefaultCurrency), "Ledger currency (ISO 4217)")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logger.Setup(rc.Environment, rc.LogLevel)
		return amount.SetCurrency(rc.Currency)
	}

	cmd.AddCommand(
		newMigrateCmd(rc),
		newSeedCmd(rc),
		newVerifyCmd(rc),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "ledgerctl 1.0.0")
		},
	})

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// open connects to the database named by the flags and runs fn with the
// repositories, closing the connection afterwards
func (rc *RootConfig) open(fn func(db *gorm.DB, repos *repository.Repositories) error) error {
	if rc.DatabaseURL == "" {
		return fmt.Errorf("--database-url or DATABASE_URL is required")
	}
	db, err := database.Connect(rc.DatabaseURL, rc.Environment)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()
	return fn(db, repository.NewRepositories(db))
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
