package services

import (
	"context"
	"testing"
	"time"

	"github.com/sjperalta/fintera-ledger/internal/models"
	"github.com/sjperalta/fintera-ledger/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountService_Create(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	svc := NewAccountService(repos)
	parent := createAccount(t, repos, "1000", models.AccountTypeAsset, models.SubtypeNone)

	child, err := svc.Create(ctx, CreateAccountInput{Code: "1100", Name: "Bank", Type: models.AccountTypeAsset, ParentID: &parent.ID}, testActor)
	require.NoError(t, err)
	assert.True(t, child.IsActive)
	assert.Equal(t, "0.00", child.Balance.StringFixed(2))

	_, err = svc.Create(ctx, CreateAccountInput{Code: "1000", Name: "Again", Type: models.AccountTypeAsset}, testActor)
	assert.ErrorIs(t, err, ErrDuplicateCode)

	missing := uint(404)
	_, err = svc.Create(ctx, CreateAccountInput{Code: "1200", Name: "Orphan", Type: models.AccountTypeAsset, ParentID: &missing}, testActor)
	assert.ErrorIs(t, err, ErrInvalidParent)

	_, err = svc.Create(ctx, CreateAccountInput{Code: "1300", Name: "Bad", Type: "cash"}, testActor)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, CreateAccountInput{Code: "1400", Name: "Bad", Type: models.AccountTypeAsset, Subtype: models.SubtypeCostOfSales}, testActor)
	assert.ErrorIs(t, err, ErrValidation)

	logs, total, err := repos.Audit.List(ctx, repository.NewListQuery())
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, logs, 2)
}

func TestAccountService_UpdateRejectsCycle(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	svc := NewAccountService(repos)
	root := createAccount(t, repos, "1000", models.AccountTypeAsset, models.SubtypeNone)
	mid, err := svc.Create(ctx, CreateAccountInput{Code: "1100", Name: "Mid", Type: models.AccountTypeAsset, ParentID: &root.ID}, testActor)
	require.NoError(t, err)
	leaf, err := svc.Create(ctx, CreateAccountInput{Code: "1110", Name: "Leaf", Type: models.AccountTypeAsset, ParentID: &mid.ID}, testActor)
	require.NoError(t, err)

	_, err = svc.Update(ctx, root.ID, UpdateAccountInput{ParentID: &leaf.ID}, testActor)
	assert.ErrorIs(t, err, ErrInvalidParent)

	_, err = svc.Update(ctx, root.ID, UpdateAccountInput{ParentID: &root.ID}, testActor)
	assert.ErrorIs(t, err, ErrInvalidParent)

	name := "Operating bank"
	updated, err := svc.Update(ctx, mid.ID, UpdateAccountInput{Name: &name, ClearParent: true}, testActor)
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Nil(t, updated.ParentID)

	tree, err := svc.Tree(ctx)
	require.NoError(t, err)
	assert.Len(t, tree, 2)
}

func TestAccountService_DeactivateInUse(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	svc := NewAccountService(repos)
	ledger := NewLedgerService(repos)
	createMonth(t, repos, 2026, time.March)
	cash := createAccount(t, repos, "1000", models.AccountTypeAsset, models.SubtypeNone)
	revenue := createAccount(t, repos, "4000", models.AccountTypeRevenue, models.SubtypeNone)

	draft, err := ledger.CreateDraft(ctx, CreateTransactionInput{
		Date:    day(2026, 3, 2),
		Entries: []EntryInput{entry(cash.ID, "5", "0"), entry(revenue.ID, "0", "5")},
	}, testActor)
	require.NoError(t, err)

	err = svc.Deactivate(ctx, cash.ID, testActor)
	assert.ErrorIs(t, err, ErrAccountInUse)

	_, err = ledger.Post(ctx, draft.ID, testActor)
	require.NoError(t, err)

	// posted history does not block deactivation
	require.NoError(t, svc.Deactivate(ctx, cash.ID, testActor))
	acc, err := svc.FindByID(ctx, cash.ID)
	require.NoError(t, err)
	assert.False(t, acc.IsActive)

	_, err = ledger.CreateDraft(ctx, CreateTransactionInput{
		Date:    day(2026, 3, 3),
		Entries: []EntryInput{entry(cash.ID, "5", "0"), entry(revenue.ID, "0", "5")},
	}, testActor)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAccountService_GetBalanceSigned(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	svc := NewAccountService(repos)
	ledger := NewLedgerService(repos)
	createMonth(t, repos, 2026, time.March)
	expense := createAccount(t, repos, "6000", models.AccountTypeExpense, models.SubtypeOperatingExpense)
	payable := createAccount(t, repos, "2000", models.AccountTypeLiability, models.SubtypeCurrentLiability)

	postSimple(t, ledger, day(2026, 3, 5), expense.ID, payable.ID, "75.25")

	bal, err := svc.GetBalance(ctx, expense.ID)
	require.NoError(t, err)
	assert.Equal(t, "75.25", bal.StringFixed(2))
	bal, err = svc.GetBalance(ctx, payable.ID)
	require.NoError(t, err)
	assert.Equal(t, "75.25", bal.StringFixed(2))

	_, err = svc.GetBalance(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccountService_RepairBalances(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	svc := NewAccountService(repos)
	createMonth(t, repos, 2026, time.March)
	cash := createAccount(t, repos, "1000", models.AccountTypeAsset, models.SubtypeNone)
	revenue := createAccount(t, repos, "4000", models.AccountTypeRevenue, models.SubtypeNone)
	postSimple(t, NewLedgerService(repos), day(2026, 3, 5), cash.ID, revenue.ID, "10")

	require.NoError(t, repos.Account.SetBalance(ctx, cash.ID, dec("99")))

	drifts, err := svc.VerifyBalances(ctx)
	require.NoError(t, err)
	require.Len(t, drifts, 1)
	assert.Equal(t, cash.ID, drifts[0].AccountID)
	assert.Equal(t, "10.00", drifts[0].Computed.StringFixed(2))

	_, err = svc.RepairBalances(ctx, testActor)
	require.NoError(t, err)
	assert.Equal(t, "10.00", balanceOf(t, repos, cash.ID))

	drifts, err = svc.VerifyBalances(ctx)
	require.NoError(t, err)
	assert.Empty(t, drifts)
}
