package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/fintera-ledger/internal/database"
	"github.com/sjperalta/fintera-ledger/internal/models"
	"github.com/sjperalta/fintera-ledger/internal/repository"
	"github.com/stretchr/testify/require"
)

var testActor = Actor{UserID: 7, RequestID: "test"}

func setupRepos(t *testing.T) *repository.Repositories {
	t.Helper()
	db, err := database.Connect("sqlite://"+filepath.Join(t.TempDir(), "ledger.db"), "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db))
	return repository.NewRepositories(db)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func createAccount(t *testing.T, repos *repository.Repositories, code string, typ models.AccountType, subtype models.AccountSubtype) *models.Account {
	t.Helper()
	acc, err := NewAccountService(repos).Create(context.Background(), CreateAccountInput{
		Code:    code,
		Name:    "Account " + code,
		Type:    typ,
		Subtype: subtype,
	}, testActor)
	require.NoError(t, err)
	return acc
}

// createMonth opens the fiscal period covering the given month
func createMonth(t *testing.T, repos *repository.Repositories, year int, month time.Month) *models.FiscalPeriod {
	t.Helper()
	start := day(year, month, 1)
	period, err := NewPeriodService(repos).Create(context.Background(), CreatePeriodInput{
		FiscalYear:   year,
		PeriodNumber: int(month),
		StartDate:    start,
		EndDate:      start.AddDate(0, 1, -1),
	}, testActor)
	require.NoError(t, err)
	return period
}

func entry(accountID uint, debit, credit string) EntryInput {
	return EntryInput{AccountID: accountID, DebitAmount: dec(debit), CreditAmount: dec(credit)}
}

// postSimple creates and posts a two-line transaction
func postSimple(t *testing.T, ledger *LedgerService, date time.Time, debitID, creditID uint, value string) *models.Transaction {
	t.Helper()
	ctx := context.Background()
	draft, err := ledger.CreateDraft(ctx, CreateTransactionInput{
		Description: "test posting",
		Date:        date,
		Entries:     []EntryInput{entry(debitID, value, "0"), entry(creditID, "0", value)},
	}, testActor)
	require.NoError(t, err)
	posted, err := ledger.Post(ctx, draft.ID, testActor)
	require.NoError(t, err)
	return posted
}

func balanceOf(t *testing.T, repos *repository.Repositories, id uint) string {
	t.Helper()
	acc, err := repos.Account.FindByID(context.Background(), id)
	require.NoError(t, err)
	return acc.Balance.StringFixed(2)
}

func listQuery(filters map[string]string) *repository.ListQuery {
	q := repository.NewListQuery()
	for k, v := range filters {
		q.Filters[k] = v
	}
	return q
}
