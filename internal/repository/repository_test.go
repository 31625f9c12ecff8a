package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/fintera-ledger/internal/database"
	"github.com/sjperalta/fintera-ledger/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRepos(t *testing.T) *Repositories {
	t.Helper()
	db, err := database.Connect("sqlite://"+filepath.Join(t.TempDir(), "repo.db"), "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db))
	return NewRepositories(db)
}

func mustAccount(t *testing.T, repos *Repositories, code string, typ models.AccountType) *models.Account {
	t.Helper()
	acc := &models.Account{Code: code, Name: "Account " + code, Type: typ, IsActive: true}
	require.NoError(t, repos.Account.Create(context.Background(), acc))
	return acc
}

func mustPeriod(t *testing.T, repos *Repositories, year, number int) *models.FiscalPeriod {
	t.Helper()
	start := time.Date(year, time.Month(number), 1, 0, 0, 0, 0, time.UTC)
	p := &models.FiscalPeriod{
		Name:         start.Format("January 2006"),
		FiscalYear:   year,
		PeriodNumber: number,
		StartDate:    start,
		EndDate:      start.AddDate(0, 1, -1),
		Status:       models.PeriodStatusOpen,
	}
	require.NoError(t, repos.Period.Create(context.Background(), p))
	return p
}

func TestAccountRepository_DuplicateCode(t *testing.T) {
	repos := setupRepos(t)
	mustAccount(t, repos, "1000", models.AccountTypeAsset)

	err := repos.Account.Create(context.Background(), &models.Account{Code: "1000", Name: "Dup", Type: models.AccountTypeAsset})
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestAccountRepository_ApplyBalanceVersionCheck(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	acc := mustAccount(t, repos, "1000", models.AccountTypeAsset)

	require.NoError(t, repos.Account.ApplyBalance(ctx, acc.ID, acc.Version, decimal.NewFromInt(50)))

	// The same version is now stale.
	err := repos.Account.ApplyBalance(ctx, acc.ID, acc.Version, decimal.NewFromInt(75))
	assert.ErrorIs(t, err, ErrStaleVersion)

	reloaded, err := repos.Account.FindByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50).Equal(reloaded.Balance))
	assert.Equal(t, acc.Version+1, reloaded.Version)
}

func TestAccountRepository_ListFiltersAndPagination(t *testing.T) {
	repos := setupRepos(t)
	mustAccount(t, repos, "1000", models.AccountTypeAsset)
	mustAccount(t, repos, "1100", models.AccountTypeAsset)
	mustAccount(t, repos, "4000", models.AccountTypeRevenue)

	q := NewListQuery()
	q.Filters["account_type"] = "asset"
	q.PerPage = 1
	accounts, total, err := repos.Account.List(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, accounts, 1)
	assert.Equal(t, "1000", accounts[0].Code)
	assert.Equal(t, int64(2), q.TotalPages(total))
}

func TestTransactionRepository_SumByAccountCountsPostedEffectOnly(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	cash := mustAccount(t, repos, "1000", models.AccountTypeAsset)
	revenue := mustAccount(t, repos, "4000", models.AccountTypeRevenue)
	period := mustPeriod(t, repos, 2024, 1)

	newTxn := func(number, status string, amt int64, day int) {
		txn := &models.Transaction{
			GUID:           number,
			Number:         number,
			FiscalPeriodID: period.ID,
			Date:           time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
			Currency:       "USD",
			TotalAmount:    decimal.NewFromInt(amt),
			Status:         status,
			Entries: []models.TransactionEntry{
				{LineNumber: 1, AccountID: cash.ID, DebitAmount: decimal.NewFromInt(amt), CreditAmount: decimal.Zero},
				{LineNumber: 2, AccountID: revenue.ID, DebitAmount: decimal.Zero, CreditAmount: decimal.NewFromInt(amt)},
			},
		}
		require.NoError(t, repos.Transaction.Create(ctx, txn))
	}
	newTxn("T1", models.TransactionStatusPosted, 100, 5)
	newTxn("T2", models.TransactionStatusDraft, 999, 6)
	newTxn("T3", models.TransactionStatusReversed, 40, 20)
	newTxn("T4", models.TransactionStatusVoid, 7, 21)

	totals, err := repos.Transaction.SumByAccount(ctx, nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, cash.ID, totals[0].AccountID)
	assert.Equal(t, "140", totals[0].Debit.String())
	assert.Equal(t, "140", totals[1].Credit.String())

	to := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	totals, err = repos.Transaction.SumByAccount(ctx, nil, &to, []uint{cash.ID})
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, "100", totals[0].Debit.String())

	has, err := repos.Transaction.HasEntriesForAccount(ctx, cash.ID, []string{models.TransactionStatusDraft})
	require.NoError(t, err)
	assert.True(t, has)
}

func TestTransactionRepository_UpdateStatusGuard(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	period := mustPeriod(t, repos, 2024, 1)
	txn := &models.Transaction{
		GUID: "g1", Number: "D-1", FiscalPeriodID: period.ID,
		Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Currency: "USD",
		Status: models.TransactionStatusDraft,
	}
	require.NoError(t, repos.Transaction.Create(ctx, txn))

	require.NoError(t, repos.Transaction.UpdateStatus(ctx, txn, models.TransactionStatusDraft,
		map[string]interface{}{"status": models.TransactionStatusPosted}))
	err := repos.Transaction.UpdateStatus(ctx, txn, models.TransactionStatusDraft,
		map[string]interface{}{"status": models.TransactionStatusVoid})
	assert.ErrorIs(t, err, ErrStateChanged)
}

func TestPeriodRepository_SequenceAndCurrent(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	jan := mustPeriod(t, repos, 2024, 1)
	feb := mustPeriod(t, repos, 2024, 2)

	for want := 1; want <= 3; want++ {
		seq, err := repos.Period.AllocateSequence(ctx, jan.ID)
		require.NoError(t, err)
		assert.Equal(t, want, seq)
	}

	id, err := repos.Period.GetCurrentID(ctx)
	require.NoError(t, err)
	assert.Zero(t, id)

	require.NoError(t, repos.Period.SetCurrent(ctx, jan.ID))
	require.NoError(t, repos.Period.SetCurrent(ctx, feb.ID))
	id, err = repos.Period.GetCurrentID(ctx)
	require.NoError(t, err)
	assert.Equal(t, feb.ID, id)

	found, err := repos.Period.FindForDate(ctx, time.Date(2024, 2, 29, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, feb.ID, found.ID)

	n, err := repos.Period.CountOverlapping(ctx, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = repos.Period.FindForDate(ctx, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestPeriodRepository_CurrentPeriodIsUnique(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	jan := mustPeriod(t, repos, 2024, 1)
	require.NoError(t, repos.Period.SetCurrent(ctx, jan.ID))

	assert.True(t, repos.db.Migrator().HasIndex(&models.CurrentFiscalPeriod{}, "FiscalPeriodID"))

	err := translateWriteError(repos.db.WithContext(ctx).Create(&models.CurrentFiscalPeriod{
		ID:             models.CurrentFiscalPeriodRowID + 1,
		FiscalPeriodID: jan.ID,
	}).Error)
	assert.ErrorIs(t, err, ErrDuplicateKey)

	// repointing the singleton at the same period is still a plain upsert
	require.NoError(t, repos.Period.SetCurrent(ctx, jan.ID))
	id, err := repos.Period.GetCurrentID(ctx)
	require.NoError(t, err)
	assert.Equal(t, jan.ID, id)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := repos.WithTx(ctx, func(tx *Repositories) error {
		if err := tx.Account.Create(ctx, &models.Account{Code: "9999", Name: "Temp", Type: models.AccountTypeAsset}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repos.Account.FindByCode(ctx, "9999")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAnalyticsRepository_CacheUpsertAndInvalidate(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	gen, err := repos.Analytics.Generation(ctx)
	require.NoError(t, err)
	require.NoError(t, repos.Analytics.SetCache(ctx, "k", map[string]int{"v": 1}, time.Minute, gen))
	require.NoError(t, repos.Analytics.SetCache(ctx, "k", map[string]int{"v": 2}, time.Minute, gen))

	cached, err := repos.Analytics.GetCache(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(cached.Data))

	require.NoError(t, repos.Analytics.InvalidateAll(ctx))
	_, err = repos.Analytics.GetCache(ctx, "k")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	next, err := repos.Analytics.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, gen+1, next)
}

func TestAnalyticsRepository_SetCacheRejectsOlderGeneration(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	before, err := repos.Analytics.Generation(ctx)
	require.NoError(t, err)
	require.NoError(t, repos.Analytics.InvalidateAll(ctx))

	err = repos.Analytics.SetCache(ctx, "k", map[string]int{"v": 1}, time.Minute, before)
	assert.ErrorIs(t, err, ErrStaleVersion)
	_, err = repos.Analytics.GetCache(ctx, "k")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	current, err := repos.Analytics.Generation(ctx)
	require.NoError(t, err)
	require.NoError(t, repos.Analytics.SetCache(ctx, "k", map[string]int{"v": 1}, time.Minute, current))
	_, err = repos.Analytics.GetCache(ctx, "k")
	assert.NoError(t, err)
}
