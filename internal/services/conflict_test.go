package services

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sjperalta/fintera-ledger/internal/database"
	"github.com/sjperalta/fintera-ledger/internal/models"
	"github.com/sjperalta/fintera-ledger/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupReposWithDB is setupRepos but also hands back the connection so a
// test can register gorm callbacks on it.
func setupReposWithDB(t *testing.T) (*repository.Repositories, *gorm.DB) {
	t.Helper()
	db, err := database.Connect("sqlite://"+filepath.Join(t.TempDir(), "ledger.db"), "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db))
	return repository.NewRepositories(db), db
}

// bumpVersionOnFirstAccountUpdate simulates a concurrent writer: right before
// the first balance update it advances the version of target, so the read
// that preceded it is stale by the time target itself is written.
func bumpVersionOnFirstAccountUpdate(t *testing.T, db *gorm.DB, target uint) *atomic.Bool {
	t.Helper()
	var fired atomic.Bool
	err := db.Callback().Update().Before("gorm:update").Register("ledger_test:concurrent_writer", func(d *gorm.DB) {
		if d.Statement.Table != "accounts" || !fired.CompareAndSwap(false, true) {
			return
		}
		_, err := d.Statement.ConnPool.ExecContext(d.Statement.Context,
			"UPDATE accounts SET version = version + 1 WHERE id = ?", target)
		if err != nil {
			_ = d.AddError(err)
		}
	})
	require.NoError(t, err)
	return &fired
}

func TestLedger_PostConflictRollsBackEveryBalance(t *testing.T) {
	repos, db := setupReposWithDB(t)
	ctx := context.Background()
	ledger := NewLedgerService(repos)
	createMonth(t, repos, 2026, time.January)
	cash := createAccount(t, repos, "1000", models.AccountTypeAsset, models.SubtypeNone)
	revenue := createAccount(t, repos, "4000", models.AccountTypeRevenue, models.SubtypeNone)
	require.Less(t, cash.ID, revenue.ID)

	draft, err := ledger.CreateDraft(ctx, CreateTransactionInput{
		Description: "cash sale",
		Date:        day(2026, 1, 12),
		Entries:     []EntryInput{entry(cash.ID, "75.00", "0"), entry(revenue.ID, "0", "75.00")},
	}, testActor)
	require.NoError(t, err)

	fired := bumpVersionOnFirstAccountUpdate(t, db, revenue.ID)

	_, err = ledger.Post(ctx, draft.ID, testActor)
	require.True(t, fired.Load())
	assert.ErrorIs(t, err, ErrConflict)

	// the cash update went through before the conflict and must be undone
	assert.Equal(t, "0.00", balanceOf(t, repos, cash.ID))
	assert.Equal(t, "0.00", balanceOf(t, repos, revenue.ID))

	stored, err := ledger.Get(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusDraft, stored.Status)
	assert.Equal(t, draft.Number, stored.Number)

	// the writer only fires once; a retry succeeds against fresh versions
	posted, err := ledger.Post(ctx, draft.ID, testActor)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPosted, posted.Status)
	assert.Equal(t, "75.00", balanceOf(t, repos, cash.ID))
	assert.Equal(t, "75.00", balanceOf(t, repos, revenue.ID))
}

func TestLedger_ReverseConflictKeepsOriginalPosted(t *testing.T) {
	repos, db := setupReposWithDB(t)
	ctx := context.Background()
	ledger := NewLedgerService(repos)
	createMonth(t, repos, 2026, time.January)
	cash := createAccount(t, repos, "1000", models.AccountTypeAsset, models.SubtypeNone)
	revenue := createAccount(t, repos, "4000", models.AccountTypeRevenue, models.SubtypeNone)
	txn := postSimple(t, ledger, day(2026, 1, 12), cash.ID, revenue.ID, "40.00")

	bumpVersionOnFirstAccountUpdate(t, db, revenue.ID)

	_, err := ledger.Reverse(ctx, txn.ID, testActor)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "40.00", balanceOf(t, repos, cash.ID))
	assert.Equal(t, "40.00", balanceOf(t, repos, revenue.ID))

	original, err := ledger.Get(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPosted, original.Status)
	assert.Nil(t, original.ReversedByID)
}
