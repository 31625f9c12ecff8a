package services

import (
	"context"
	"testing"
	"time"

	"github.com/sjperalta/fintera-ledger/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_PostAndReverseRestoresBalances(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	ledger := NewLedgerService(repos)
	createMonth(t, repos, 2026, time.January)
	cash := createAccount(t, repos, "1000", models.AccountTypeAsset, models.SubtypeCurrentAsset)
	revenue := createAccount(t, repos, "4000", models.AccountTypeRevenue, models.SubtypeNone)

	txn := postSimple(t, ledger, day(2026, 1, 10), cash.ID, revenue.ID, "100.00")
	assert.Equal(t, models.TransactionStatusPosted, txn.Status)
	assert.Equal(t, "TXN-2026-01-0001", txn.Number)
	assert.Equal(t, "100.00", balanceOf(t, repos, cash.ID))
	assert.Equal(t, "100.00", balanceOf(t, repos, revenue.ID))

	reversal, err := ledger.Reverse(ctx, txn.ID, testActor)
	require.NoError(t, err)
	require.NotNil(t, reversal.ReversalOfID)
	assert.Equal(t, txn.ID, *reversal.ReversalOfID)
	assert.Equal(t, models.FormatDate(txn.Date), models.FormatDate(reversal.Date))
	assert.Equal(t, "0.00", balanceOf(t, repos, cash.ID))
	assert.Equal(t, "0.00", balanceOf(t, repos, revenue.ID))

	original, err := ledger.Get(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusReversed, original.Status)
	require.NotNil(t, original.ReversedByID)
	assert.Equal(t, reversal.ID, *original.ReversedByID)

	_, err = ledger.Reverse(ctx, txn.ID, testActor)
	assert.ErrorIs(t, err, ErrAlreadyReversed)

	_, err = ledger.Reverse(ctx, reversal.ID, testActor)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	drifts, err := NewAccountService(repos).VerifyBalances(ctx)
	require.NoError(t, err)
	assert.Empty(t, drifts)
}

func TestLedger_UnbalancedDraftIsRejected(t *testing.T) {
	repos := setupRepos(t)
	ledger := NewLedgerService(repos)
	createMonth(t, repos, 2026, time.January)
	cash := createAccount(t, repos, "1000", models.AccountTypeAsset, models.SubtypeNone)
	revenue := createAccount(t, repos, "4000", models.AccountTypeRevenue, models.SubtypeNone)

	_, err := ledger.CreateDraft(context.Background(), CreateTransactionInput{
		Date:    day(2026, 1, 5),
		Entries: []EntryInput{entry(cash.ID, "50.00", "0"), entry(revenue.ID, "0", "40.00")},
	}, testActor)
	assert.ErrorIs(t, err, ErrUnbalanced)

	assert.Equal(t, "0.00", balanceOf(t, repos, cash.ID))
	assert.Equal(t, "0.00", balanceOf(t, repos, revenue.ID))
}

func TestLedger_CreateDraftValidation(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	ledger := NewLedgerService(repos)
	createMonth(t, repos, 2026, time.January)
	cash := createAccount(t, repos, "1000", models.AccountTypeAsset, models.SubtypeNone)
	revenue := createAccount(t, repos, "4000", models.AccountTypeRevenue, models.SubtypeNone)

	tests := []struct {
		name    string
		input   CreateTransactionInput
		wantErr error
	}{
		{
			name:    "no entries",
			input:   CreateTransactionInput{Date: day(2026, 1, 5)},
			wantErr: ErrValidation,
		},
		{
			name:    "negative amount",
			input:   CreateTransactionInput{Date: day(2026, 1, 5), Entries: []EntryInput{entry(cash.ID, "-5", "0"), entry(revenue.ID, "0", "-5")}},
			wantErr: ErrValidation,
		},
		{
			name:    "unknown account",
			input:   CreateTransactionInput{Date: day(2026, 1, 5), Entries: []EntryInput{entry(999, "5", "0"), entry(revenue.ID, "0", "5")}},
			wantErr: ErrValidation,
		},
		{
			name:    "no period",
			input:   CreateTransactionInput{Date: day(2030, 6, 1), Entries: []EntryInput{entry(cash.ID, "5", "0"), entry(revenue.ID, "0", "5")}},
			wantErr: ErrNoFiscalPeriod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ledger.CreateDraft(ctx, tt.input, testActor)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLedger_PostTwiceDoesNotDoubleApply(t *testing.T) {
	repos := setupRepos(t)
	ledger := NewLedgerService(repos)
	createMonth(t, repos, 2026, time.January)
	cash := createAccount(t, repos, "1000", models.AccountTypeAsset, models.SubtypeNone)
	revenue := createAccount(t, repos, "4000", models.AccountTypeRevenue, models.SubtypeNone)

	txn := postSimple(t, ledger, day(2026, 1, 10), cash.ID, revenue.ID, "25.50")

	_, err := ledger.Post(context.Background(), txn.ID, testActor)
	assert.ErrorIs(t, err, ErrNotDraft)
	assert.Equal(t, "25.50", balanceOf(t, repos, cash.ID))
}

func TestLedger_VoidOnlyFromDraft(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	ledger := NewLedgerService(repos)
	createMonth(t, repos, 2026, time.January)
	cash := createAccount(t, repos, "1000", models.AccountTypeAsset, models.SubtypeNone)
	revenue := createAccount(t, repos, "4000", models.AccountTypeRevenue, models.SubtypeNone)

	draft, err := ledger.CreateDraft(ctx, CreateTransactionInput{
		Date:    day(2026, 1, 3),
		Entries: []EntryInput{entry(cash.ID, "10", "0"), entry(revenue.ID, "0", "10")},
	}, testActor)
	require.NoError(t, err)

	voided, err := ledger.Void(ctx, draft.ID, testActor)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusVoid, voided.Status)
	assert.Equal(t, "0.00", balanceOf(t, repos, cash.ID))

	_, err = ledger.Post(ctx, draft.ID, testActor)
	assert.ErrorIs(t, err, ErrNotDraft)

	posted := postSimple(t, ledger, day(2026, 1, 4), cash.ID, revenue.ID, "10")
	_, err = ledger.Void(ctx, posted.ID, testActor)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestLedger_PostIntoClosedPeriod(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	ledger := NewLedgerService(repos)
	period := createMonth(t, repos, 2026, time.January)
	cash := createAccount(t, repos, "1000", models.AccountTypeAsset, models.SubtypeNone)
	revenue := createAccount(t, repos, "4000", models.AccountTypeRevenue, models.SubtypeNone)

	_, err := NewPeriodService(repos).Close(ctx, period.ID, testActor)
	require.NoError(t, err)

	draft, err := ledger.CreateDraft(ctx, CreateTransactionInput{
		Date:    day(2026, 1, 3),
		Entries: []EntryInput{entry(cash.ID, "10", "0"), entry(revenue.ID, "0", "10")},
	}, testActor)
	require.NoError(t, err)

	_, err = ledger.Post(ctx, draft.ID, testActor)
	assert.ErrorIs(t, err, ErrPeriodClosed)
	assert.Equal(t, "0.00", balanceOf(t, repos, cash.ID))
}

func TestLedger_ReverseAfterPeriodClosedUsesToday(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	ledger := NewLedgerService(repos)
	periods := NewPeriodService(repos)
	old := createMonth(t, repos, 2000, time.January)
	cash := createAccount(t, repos, "1000", models.AccountTypeAsset, models.SubtypeNone)
	revenue := createAccount(t, repos, "4000", models.AccountTypeRevenue, models.SubtypeNone)

	txn := postSimple(t, ledger, day(2000, 1, 15), cash.ID, revenue.ID, "40")
	_, err := periods.Close(ctx, old.ID, testActor)
	require.NoError(t, err)

	_, err = ledger.Reverse(ctx, txn.ID, testActor)
	assert.ErrorIs(t, err, ErrNoFiscalPeriod)

	today := models.Today()
	createMonth(t, repos, today.Year(), today.Month())

	reversal, err := ledger.Reverse(ctx, txn.ID, testActor)
	require.NoError(t, err)
	assert.Equal(t, models.FormatDate(today), models.FormatDate(reversal.Date))
	assert.Equal(t, "0.00", balanceOf(t, repos, cash.ID))
}

func TestLedger_BalanceAsOf(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	ledger := NewLedgerService(repos)
	createMonth(t, repos, 2026, time.January)
	cash := createAccount(t, repos, "1000", models.AccountTypeAsset, models.SubtypeNone)
	revenue := createAccount(t, repos, "4000", models.AccountTypeRevenue, models.SubtypeNone)

	postSimple(t, ledger, day(2026, 1, 5), cash.ID, revenue.ID, "30")
	postSimple(t, ledger, day(2026, 1, 20), cash.ID, revenue.ID, "20")

	bal, err := ledger.BalanceAsOf(ctx, cash.ID, day(2026, 1, 10))
	require.NoError(t, err)
	assert.Equal(t, "30.00", bal.StringFixed(2))

	bal, err = ledger.BalanceAsOf(ctx, revenue.ID, day(2026, 1, 31))
	require.NoError(t, err)
	assert.Equal(t, "50.00", bal.StringFixed(2))
}

func TestLedger_SequentialNumbers(t *testing.T) {
	repos := setupRepos(t)
	ledger := NewLedgerService(repos)
	createMonth(t, repos, 2026, time.January)
	createMonth(t, repos, 2026, time.February)
	cash := createAccount(t, repos, "1000", models.AccountTypeAsset, models.SubtypeNone)
	revenue := createAccount(t, repos, "4000", models.AccountTypeRevenue, models.SubtypeNone)

	a := postSimple(t, ledger, day(2026, 1, 5), cash.ID, revenue.ID, "1")
	b := postSimple(t, ledger, day(2026, 1, 6), cash.ID, revenue.ID, "1")
	c := postSimple(t, ledger, day(2026, 2, 1), cash.ID, revenue.ID, "1")

	assert.Equal(t, "TXN-2026-01-0001", a.Number)
	assert.Equal(t, "TXN-2026-01-0002", b.Number)
	assert.Equal(t, "TXN-2026-02-0001", c.Number)
}
