package database

import (
	"path/filepath"
	"testing"

	"github.com/sjperalta/fintera-ledger/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectAndMigrate_SQLite(t *testing.T) {
	url := "sqlite://" + filepath.Join(t.TempDir(), "ledger.db")

	db, err := Connect(url, "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, Migrate(db))

	for _, table := range []string{"accounts", "transactions", "transaction_entries", "fiscal_periods", "current_fiscal_period", "reconciliations", "audit_logs"} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}

	// Migrations are idempotent.
	require.NoError(t, Migrate(db))
	assert.True(t, db.Migrator().HasIndex(&models.Account{}, "idx_accounts_code"))
}
