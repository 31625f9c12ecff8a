package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sjperalta/fintera-ledger/internal/models"
	"github.com/sjperalta/fintera-ledger/pkg/amount"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconciliation_MatchToStatementAndComplete(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	svc := NewReconciliationService(repos)
	createMonth(t, repos, 2026, time.April)
	bank := createAccount(t, repos, "1010", models.AccountTypeAsset, models.SubtypeCurrentAsset)
	revenue := createAccount(t, repos, "4000", models.AccountTypeRevenue, models.SubtypeNone)
	postSimple(t, NewLedgerService(repos), day(2026, 4, 3), bank.ID, revenue.ID, "480.00")

	rec, err := svc.Start(ctx, StartReconciliationInput{
		AccountID:        bank.ID,
		StatementDate:    day(2026, 4, 30),
		StatementBalance: dec("500.00"),
	}, testActor)
	require.NoError(t, err)
	assert.Equal(t, models.ReconciliationStatusPending, rec.Status)
	assert.Equal(t, "480.00", rec.BookBalance.StringFixed(2))

	twenty := dec("20.00")
	rec, err = svc.Match(ctx, rec.ID, MatchInput{Amount: &twenty, Description: "bank interest"}, testActor)
	require.NoError(t, err)
	assert.Equal(t, "500.00", rec.ReconciledBalance.StringFixed(2))
	assert.Equal(t, models.ReconciliationStatusInProgress, rec.Status)

	rec, err = svc.Complete(ctx, rec.ID, testActor)
	require.NoError(t, err)
	assert.Equal(t, models.ReconciliationStatusCompleted, rec.Status)
	assert.NotNil(t, rec.CompletedAt)

	_, err = svc.Match(ctx, rec.ID, MatchInput{Amount: &twenty, Description: "late"}, testActor)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestReconciliation_DiscrepancyCarriesAmount(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	svc := NewReconciliationService(repos)
	createMonth(t, repos, 2026, time.April)
	bank := createAccount(t, repos, "1010", models.AccountTypeAsset, models.SubtypeNone)

	rec, err := svc.Start(ctx, StartReconciliationInput{
		AccountID:        bank.ID,
		StatementDate:    day(2026, 4, 30),
		StatementBalance: dec("12.50"),
	}, testActor)
	require.NoError(t, err)

	rec, err = svc.Complete(ctx, rec.ID, testActor)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDiscrepancy)
	var discrepancy *DiscrepancyError
	require.True(t, errors.As(err, &discrepancy))
	assert.Equal(t, "12.50", discrepancy.Amount.Abs().StringFixed(2))

	stored, err := svc.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReconciliationStatusDiscrepancy, stored.Status)
}

func TestReconciliation_MatchEntry(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	svc := NewReconciliationService(repos)
	ledger := NewLedgerService(repos)
	createMonth(t, repos, 2026, time.April)
	bank := createAccount(t, repos, "1010", models.AccountTypeAsset, models.SubtypeNone)
	revenue := createAccount(t, repos, "4000", models.AccountTypeRevenue, models.SubtypeNone)

	rec, err := svc.Start(ctx, StartReconciliationInput{
		AccountID:        bank.ID,
		StatementDate:    day(2026, 4, 1),
		StatementBalance: dec("60.00"),
	}, testActor)
	require.NoError(t, err)
	assert.True(t, rec.BookBalance.IsZero())

	txn := postSimple(t, ledger, day(2026, 4, 2), bank.ID, revenue.ID, "60.00")
	var bankEntry, revenueEntry uint
	for _, e := range txn.Entries {
		if e.AccountID == bank.ID {
			bankEntry = e.ID
		} else {
			revenueEntry = e.ID
		}
	}

	_, err = svc.Match(ctx, rec.ID, MatchInput{EntryID: &revenueEntry}, testActor)
	assert.ErrorIs(t, err, ErrValidation)

	rec, err = svc.Match(ctx, rec.ID, MatchInput{EntryID: &bankEntry}, testActor)
	require.NoError(t, err)
	assert.Equal(t, "60.00", rec.ReconciledBalance.StringFixed(2))
	require.Len(t, rec.Items, 1)

	_, err = svc.Match(ctx, rec.ID, MatchInput{EntryID: &bankEntry}, testActor)
	assert.ErrorIs(t, err, ErrValidation)

	rec, err = svc.Unmatch(ctx, rec.ID, rec.Items[0].ID, testActor)
	require.NoError(t, err)
	assert.True(t, rec.ReconciledBalance.IsZero())

	_, err = svc.Complete(ctx, rec.ID, testActor)
	assert.ErrorIs(t, err, ErrDiscrepancy)
}

func TestReconciliation_RejectsEntriesInBookBalance(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	svc := NewReconciliationService(repos)
	createMonth(t, repos, 2026, time.April)
	bank := createAccount(t, repos, "1010", models.AccountTypeAsset, models.SubtypeNone)
	revenue := createAccount(t, repos, "4000", models.AccountTypeRevenue, models.SubtypeNone)
	txn := postSimple(t, NewLedgerService(repos), day(2026, 4, 1), bank.ID, revenue.ID, "480.00")

	rec, err := svc.Start(ctx, StartReconciliationInput{
		AccountID:        bank.ID,
		StatementDate:    day(2026, 4, 30),
		StatementBalance: dec("480.00"),
	}, testActor)
	require.NoError(t, err)
	assert.Equal(t, "480.00", rec.BookBalance.StringFixed(2))

	var bankEntry uint
	for _, e := range txn.Entries {
		if e.AccountID == bank.ID {
			bankEntry = e.ID
		}
	}
	_, err = svc.Match(ctx, rec.ID, MatchInput{EntryID: &bankEntry}, testActor)
	assert.ErrorIs(t, err, ErrValidation)

	stored, err := svc.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "480.00", stored.ReconciledBalance.StringFixed(2))
	assert.Empty(t, stored.Items)

	rec, err = svc.Complete(ctx, rec.ID, testActor)
	require.NoError(t, err)
	assert.Equal(t, models.ReconciliationStatusCompleted, rec.Status)
}

func TestDiscrepancyError_UsesLedgerPrecision(t *testing.T) {
	err := &DiscrepancyError{Amount: dec("-20")}
	assert.Equal(t, "reconciled balance does not match statement: difference -20.00", err.Error())

	t.Cleanup(func() { _ = amount.SetCurrency(amount.DefaultCurrency) })
	require.NoError(t, amount.SetCurrency("JPY"))
	assert.Equal(t, "reconciled balance does not match statement: difference -20", err.Error())
}
