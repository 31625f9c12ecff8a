package services

import (
	"context"
	"testing"
	"time"

	"github.com/sjperalta/fintera-ledger/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetService_VarianceTracksLedger(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	svc := NewBudgetService(repos)
	ledger := NewLedgerService(repos)
	createMonth(t, repos, 2026, time.January)
	feb := createMonth(t, repos, 2026, time.February)
	cash := createAccount(t, repos, "1000", models.AccountTypeAsset, models.SubtypeNone)
	rent := createAccount(t, repos, "6100", models.AccountTypeExpense, models.SubtypeOperatingExpense)

	// January activity is outside the budget's period
	postSimple(t, ledger, day(2026, 1, 31), rent.ID, cash.ID, "999")

	budget, err := svc.Create(ctx, CreateBudgetInput{
		Name:           "Rent February",
		AccountID:      rent.ID,
		FiscalPeriodID: feb.ID,
		BudgetedAmount: dec("150.00"),
	}, testActor)
	require.NoError(t, err)
	assert.Equal(t, models.BudgetStatusDraft, budget.Status)
	assert.True(t, budget.ActualAmount.IsZero())
	require.NotNil(t, budget.ComputedAt)

	_, err = svc.Create(ctx, CreateBudgetInput{
		Name:           "Again",
		AccountID:      rent.ID,
		FiscalPeriodID: feb.ID,
		BudgetedAmount: dec("1"),
	}, testActor)
	assert.ErrorIs(t, err, ErrDuplicate)

	postSimple(t, ledger, day(2026, 2, 1), rent.ID, cash.ID, "200")

	listed, _, err := svc.List(ctx, listQuery(nil))
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].ActualAmount.IsZero(), "list serves the stored snapshot")

	got, err := svc.Get(ctx, budget.ID)
	require.NoError(t, err)
	assert.Equal(t, "200.00", got.ActualAmount.StringFixed(2))
	assert.Equal(t, "50.00", got.VarianceAmount.StringFixed(2))
	require.NotNil(t, got.VariancePercent)
	assert.Equal(t, "33.33", got.VariancePercent.StringFixed(2))
}

func TestBudgetService_Lifecycle(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	svc := NewBudgetService(repos)
	period := createMonth(t, repos, 2026, time.January)
	acc := createAccount(t, repos, "6100", models.AccountTypeExpense, models.SubtypeNone)

	budget, err := svc.Create(ctx, CreateBudgetInput{Name: "Q", AccountID: acc.ID, FiscalPeriodID: period.ID, BudgetedAmount: dec("0")}, testActor)
	require.NoError(t, err)
	assert.Nil(t, budget.VariancePercent)

	_, err = svc.Close(ctx, budget.ID, testActor)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	active, err := svc.Activate(ctx, budget.ID, testActor)
	require.NoError(t, err)
	assert.Equal(t, models.BudgetStatusActive, active.Status)

	n, err := svc.RefreshAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	closed, err := svc.Close(ctx, budget.ID, testActor)
	require.NoError(t, err)
	assert.Equal(t, models.BudgetStatusClosed, closed.Status)

	n, err = svc.RefreshAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = svc.Create(ctx, CreateBudgetInput{Name: "", AccountID: acc.ID, FiscalPeriodID: period.ID}, testActor)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Create(ctx, CreateBudgetInput{Name: "Missing", AccountID: 99, FiscalPeriodID: period.ID}, testActor)
	assert.ErrorIs(t, err, ErrNotFound)
}
