package commands

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/sjperalta/fintera-ledger/internal/database"
	"github.com/sjperalta/fintera-ledger/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMigrateSeedVerify(t *testing.T) {
	dbURL := "sqlite://" + filepath.Join(t.TempDir(), "ledger.db")

	out, err := run(t, "migrate", "--database-url", dbURL)
	require.NoError(t, err)
	assert.Contains(t, out, "migrations applied")

	out, err = run(t, "seed", "--database-url", dbURL, "--year", "2026")
	require.NoError(t, err)
	assert.Contains(t, out, "fiscal periods 2026: 12 created")

	out, err = run(t, "seed", "--database-url", dbURL)
	require.NoError(t, err)
	assert.Contains(t, out, "0 created")

	out, err = run(t, "verify", "--database-url", dbURL)
	require.NoError(t, err)
	assert.Contains(t, out, "all balances match")

	db, err := database.Connect(dbURL, "test")
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Account{}).Where("code = ?", "1110").Update("balance", "5.00").Error)
	require.NoError(t, database.Close(db))

	out, err = run(t, "verify", "--database-url", dbURL)
	assert.ErrorIs(t, err, ErrBalanceDrift)
	assert.Contains(t, out, "1110")

	out, err = run(t, "verify", "--database-url", dbURL, "--fix")
	require.NoError(t, err)
	assert.Contains(t, out, "repaired 1 account(s)")

	_, err = run(t, "verify", "--database-url", dbURL)
	assert.NoError(t, err)
}

func TestRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := run(t, "migrate")
	assert.Error(t, err)
}

func TestUnknownCurrency(t *testing.T) {
	_, err := run(t, "version", "--currency", "XXXX")
	assert.Error(t, err)
}
