package services

import (
	"context"
	"testing"
	"time"

	"github.com/sjperalta/fintera-ledger/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodService_CreateOverlapAndCurrent(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	svc := NewPeriodService(repos)

	jan := createMonth(t, repos, 2026, time.January)
	assert.Equal(t, "FY2026-P01", jan.Name)
	feb := createMonth(t, repos, 2026, time.February)

	current, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, jan.ID, current.ID)

	_, err = svc.Create(ctx, CreatePeriodInput{
		FiscalYear:   2026,
		PeriodNumber: 13,
		StartDate:    day(2026, 1, 20),
		EndDate:      day(2026, 2, 10),
	}, testActor)
	assert.ErrorIs(t, err, ErrPeriodOverlap)

	_, err = svc.Create(ctx, CreatePeriodInput{
		FiscalYear:   2026,
		PeriodNumber: 3,
		StartDate:    day(2026, 3, 31),
		EndDate:      day(2026, 3, 1),
	}, testActor)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.SetCurrent(ctx, feb.ID, testActor)
	require.NoError(t, err)
	id, err := svc.CurrentID(ctx)
	require.NoError(t, err)
	assert.Equal(t, feb.ID, id)

	found, err := svc.FindForDate(ctx, day(2026, 2, 14))
	require.NoError(t, err)
	assert.Equal(t, feb.ID, found.ID)

	_, err = svc.FindForDate(ctx, day(2026, 5, 1))
	assert.ErrorIs(t, err, ErrNoFiscalPeriod)
}

func TestPeriodService_CloseRequiresNoDrafts(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	svc := NewPeriodService(repos)
	ledger := NewLedgerService(repos)
	period := createMonth(t, repos, 2026, time.January)
	cash := createAccount(t, repos, "1000", models.AccountTypeAsset, models.SubtypeNone)
	revenue := createAccount(t, repos, "4000", models.AccountTypeRevenue, models.SubtypeNone)

	draft, err := ledger.CreateDraft(ctx, CreateTransactionInput{
		Date:    day(2026, 1, 9),
		Entries: []EntryInput{entry(cash.ID, "1", "0"), entry(revenue.ID, "0", "1")},
	}, testActor)
	require.NoError(t, err)

	_, err = svc.Close(ctx, period.ID, testActor)
	assert.ErrorIs(t, err, ErrHasDraftTransactions)

	_, err = ledger.Void(ctx, draft.ID, testActor)
	require.NoError(t, err)

	closed, err := svc.Close(ctx, period.ID, testActor)
	require.NoError(t, err)
	assert.Equal(t, models.PeriodStatusClosed, closed.Status)
	assert.NotNil(t, closed.ClosedAt)

	reopened, err := svc.Reopen(ctx, period.ID, "late invoice", testActor)
	require.NoError(t, err)
	assert.Equal(t, models.PeriodStatusOpen, reopened.Status)
}

func TestPeriodService_LockNeedsOverride(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	svc := NewPeriodService(repos)
	period := createMonth(t, repos, 2026, time.January)

	locked, err := svc.Lock(ctx, period.ID, testActor)
	require.NoError(t, err)
	assert.Equal(t, models.PeriodStatusLocked, locked.Status)
	assert.NotNil(t, locked.LockedAt)

	_, err = svc.Reopen(ctx, period.ID, "", testActor)
	assert.ErrorIs(t, err, ErrPeriodLocked)

	_, err = svc.Close(ctx, period.ID, testActor)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.OverrideReopen(ctx, period.ID, "  ", testActor)
	assert.ErrorIs(t, err, ErrValidation)

	reopened, err := svc.OverrideReopen(ctx, period.ID, "auditor adjustment", testActor)
	require.NoError(t, err)
	assert.Equal(t, models.PeriodStatusOpen, reopened.Status)

	logs, _, err := NewAuditService(repos.Audit).List(ctx, listQuery(map[string]string{"action": models.AuditActionOverrideReopen}))
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Details, "auditor adjustment")
	assert.Equal(t, testActor.UserID, logs[0].UserID)
}

func TestPeriodService_DraftIntoLockedPeriod(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	period := createMonth(t, repos, 2026, time.January)
	cash := createAccount(t, repos, "1000", models.AccountTypeAsset, models.SubtypeNone)
	revenue := createAccount(t, repos, "4000", models.AccountTypeRevenue, models.SubtypeNone)

	_, err := NewPeriodService(repos).Lock(ctx, period.ID, testActor)
	require.NoError(t, err)

	_, err = NewLedgerService(repos).CreateDraft(ctx, CreateTransactionInput{
		Date:    day(2026, 1, 9),
		Entries: []EntryInput{entry(cash.ID, "1", "0"), entry(revenue.ID, "0", "1")},
	}, testActor)
	assert.ErrorIs(t, err, ErrPeriodLocked)
}

func TestPeriodService_LockFromClosedRequiresNoDrafts(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	svc := NewPeriodService(repos)
	ledger := NewLedgerService(repos)
	period := createMonth(t, repos, 2026, time.January)
	cash := createAccount(t, repos, "1000", models.AccountTypeAsset, models.SubtypeNone)
	revenue := createAccount(t, repos, "4000", models.AccountTypeRevenue, models.SubtypeNone)

	_, err := svc.Close(ctx, period.ID, testActor)
	require.NoError(t, err)
	draft, err := ledger.CreateDraft(ctx, CreateTransactionInput{
		Date:    day(2026, 1, 10),
		Entries: []EntryInput{entry(cash.ID, "5", "0"), entry(revenue.ID, "0", "5")},
	}, testActor)
	require.NoError(t, err)

	_, err = svc.Lock(ctx, period.ID, testActor)
	assert.ErrorIs(t, err, ErrHasDraftTransactions)
	stored, err := svc.Get(ctx, period.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PeriodStatusClosed, stored.Status)

	_, err = ledger.Void(ctx, draft.ID, testActor)
	require.NoError(t, err)
	locked, err := svc.Lock(ctx, period.ID, testActor)
	require.NoError(t, err)
	assert.Equal(t, models.PeriodStatusLocked, locked.Status)
}
