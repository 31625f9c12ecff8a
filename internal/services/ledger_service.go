package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sjperalta/fintera-ledger/internal/models"
	"github.com/sjperalta/fintera-ledger/internal/repository"
	"github.com/sjperalta/fintera-ledger/internal/statemachine"
	"github.com/sjperalta/fintera-ledger/pkg/amount"
	"github.com/sjperalta/fintera-ledger/pkg/logger"
)

// EntryInput is one debit or credit line of a new transaction
type EntryInput struct {
	AccountID    uint
	DebitAmount  decimal.Decimal
	CreditAmount decimal.Decimal
	Description  string
}

// CreateTransactionInput describes a draft journal transaction
type CreateTransactionInput struct {
	Description   string
	Date          time.Time
	Entries       []EntryInput
	ReferenceType string
	ReferenceID   *uint
}

type LedgerService struct {
	repos *repository.Repositories
}

func NewLedgerService(repos *repository.Repositories) *LedgerService {
	return &LedgerService{repos: repos}
}

func (s *LedgerService) Get(ctx context.Context, id uint) (*models.Transaction, error) {
	txn, err := s.repos.Transaction.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "transaction", id)
	}
	return txn, nil
}

func (s *LedgerService) List(ctx context.Context, query *repository.ListQuery) ([]models.Transaction, int64, error) {
	return s.repos.Transaction.List(ctx, query)
}

// CreateDraft validates and stores a draft. Balances are untouched until Post.
func (s *LedgerService) CreateDraft(ctx context.Context, input CreateTransactionInput, actor Actor) (*models.Transaction, error) {
	var txn *models.Transaction
	err := s.repos.WithTx(ctx, func(tx *repository.Repositories) error {
		var err error
		txn, err = createDraftTx(ctx, tx, input, actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// Post applies a draft's entries to account balances and marks it posted
func (s *LedgerService) Post(ctx context.Context, id uint, actor Actor) (*models.Transaction, error) {
	var txn *models.Transaction
	err := s.repos.WithTx(ctx, func(tx *repository.Repositories) error {
		var err error
		txn, err = postTx(ctx, tx, id, actor)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Transaction posted", "transaction_id", txn.ID, "number", txn.Number, "total", amount.String(txn.TotalAmount))
	return txn, nil
}

// Reverse posts a mirror transaction that cancels id and marks id reversed.
// It returns the new reversal transaction.
func (s *LedgerService) Reverse(ctx context.Context, id uint, actor Actor) (*models.Transaction, error) {
	var reversal *models.Transaction
	err := s.repos.WithTx(ctx, func(tx *repository.Repositories) error {
		var err error
		reversal, err = reverseTx(ctx, tx, id, actor)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Transaction reversed", "transaction_id", id, "reversal_id", reversal.ID, "number", reversal.Number)
	return reversal, nil
}

// Void cancels a draft. It never touches balances.
func (s *LedgerService) Void(ctx context.Context, id uint, actor Actor) (*models.Transaction, error) {
	var txn *models.Transaction
	err := s.repos.WithTx(ctx, func(tx *repository.Repositories) error {
		var err error
		txn, err = tx.Transaction.FindByID(ctx, id)
		if err != nil {
			return translate(err, "transaction", id)
		}

		if err := statemachine.NewTransactionFSM(txn).Void(ctx); err != nil {
			return translate(err, "transaction", id)
		}

		now := time.Now()
		txn.VoidedAt = &now
		if err := tx.Transaction.UpdateStatus(ctx, txn, models.TransactionStatusDraft, map[string]interface{}{
			"status":    txn.Status,
			"voided_at": now,
		}); err != nil {
			return translate(err, "transaction", id)
		}
		if err := tx.Analytics.InvalidateAll(ctx); err != nil {
			return err
		}
		return audit(ctx, tx, actor, models.AuditActionVoid, "transaction", txn.ID, "Voided %s", txn.Number)
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// BalanceAsOf is the account's signed balance from posted effects dated on or before date
func (s *LedgerService) BalanceAsOf(ctx context.Context, accountID uint, date time.Time) (decimal.Decimal, error) {
	return balanceAsOf(ctx, s.repos, accountID, date)
}

func balanceAsOf(ctx context.Context, repos *repository.Repositories, accountID uint, date time.Time) (decimal.Decimal, error) {
	account, err := repos.Account.FindByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, translate(err, "account", accountID)
	}
	totals, err := repos.Transaction.SumByAccount(ctx, nil, &date, []uint{accountID})
	if err != nil {
		return decimal.Zero, err
	}
	if len(totals) == 0 {
		return decimal.Zero, nil
	}
	return account.Type.SignedDelta(totals[0].Debit, totals[0].Credit), nil
}

func validateEntries(entries []EntryInput) (decimal.Decimal, error) {
	if len(entries) == 0 {
		return decimal.Zero, invalid("at least one entry is required")
	}

	debit, credit := decimal.Zero, decimal.Zero
	for i, e := range entries {
		line := i + 1
		if e.AccountID == 0 {
			return decimal.Zero, invalid("entry %d: account_id is required", line)
		}
		if e.DebitAmount.IsNegative() || e.CreditAmount.IsNegative() {
			return decimal.Zero, invalid("entry %d: amounts cannot be negative", line)
		}
		if e.DebitAmount.IsPositive() == e.CreditAmount.IsPositive() {
			return decimal.Zero, invalid("entry %d: exactly one of debit_amount or credit_amount must be set", line)
		}
		if err := amount.CheckPrecision(e.DebitAmount); err != nil {
			return decimal.Zero, invalid("entry %d: %v", line, err)
		}
		if err := amount.CheckPrecision(e.CreditAmount); err != nil {
			return decimal.Zero, invalid("entry %d: %v", line, err)
		}
		debit = debit.Add(e.DebitAmount)
		credit = credit.Add(e.CreditAmount)
	}

	if !debit.Equal(credit) {
		return decimal.Zero, wrap(ErrUnbalanced, "debits %s, credits %s", amount.String(debit), amount.String(credit))
	}
	return debit, nil
}

// loadAccounts fetches every account referenced by entries, keyed by id
func loadAccounts(ctx context.Context, tx *repository.Repositories, ids []uint, requireActive bool) (map[uint]*models.Account, error) {
	accounts, err := tx.Account.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*models.Account, len(accounts))
	for i := range accounts {
		byID[accounts[i].ID] = &accounts[i]
	}
	for _, id := range ids {
		acc, ok := byID[id]
		if !ok {
			return nil, invalid("account %d does not exist", id)
		}
		if requireActive && !acc.IsActive {
			return nil, invalid("account %s is inactive", acc.Code)
		}
	}
	return byID, nil
}

func entryAccountIDs[T any](entries []T, id func(T) uint) []uint {
	seen := make(map[uint]bool, len(entries))
	ids := make([]uint, 0, len(entries))
	for _, e := range entries {
		if v := id(e); !seen[v] {
			seen[v] = true
			ids = append(ids, v)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func createDraftTx(ctx context.Context, tx *repository.Repositories, input CreateTransactionInput, actor Actor) (*models.Transaction, error) {
	if input.Date.IsZero() {
		return nil, invalid("transaction_date is required")
	}
	total, err := validateEntries(input.Entries)
	if err != nil {
		return nil, err
	}

	ids := entryAccountIDs(input.Entries, func(e EntryInput) uint { return e.AccountID })
	if _, err := loadAccounts(ctx, tx, ids, true); err != nil {
		return nil, err
	}

	date := models.Date(input.Date)
	period, err := findPeriodForDate(ctx, tx, date)
	if err != nil {
		return nil, err
	}
	if period.Status == models.PeriodStatusLocked {
		return nil, wrap(ErrPeriodLocked, "period %s is locked", period.Name)
	}

	seq, err := tx.Period.AllocateSequence(ctx, period.ID)
	if err != nil {
		return nil, err
	}

	txn := &models.Transaction{
		GUID:           uuid.NewString(),
		Number:         period.TransactionNumber(seq),
		FiscalPeriodID: period.ID,
		Date:           date,
		Description:    strings.TrimSpace(input.Description),
		Currency:       amount.Ledger().Code,
		TotalAmount:    total,
		Status:         models.TransactionStatusDraft,
		ReferenceType:  input.ReferenceType,
		ReferenceID:    input.ReferenceID,
	}
	for i, e := range input.Entries {
		txn.Entries = append(txn.Entries, models.TransactionEntry{
			LineNumber:   i + 1,
			AccountID:    e.AccountID,
			DebitAmount:  e.DebitAmount,
			CreditAmount: e.CreditAmount,
			Description:  strings.TrimSpace(e.Description),
		})
	}

	if err := tx.Transaction.Create(ctx, txn); err != nil {
		return nil, err
	}
	if err := audit(ctx, tx, actor, models.AuditActionCreate, "transaction", txn.ID,
		"Created draft %s for %s", txn.Number, amount.String(txn.TotalAmount)); err != nil {
		return nil, err
	}
	return txn, nil
}

func postTx(ctx context.Context, tx *repository.Repositories, id uint, actor Actor) (*models.Transaction, error) {
	txn, err := tx.Transaction.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "transaction", id)
	}
	if !txn.MayPost() {
		return nil, wrap(ErrNotDraft, "transaction %s is %s", txn.Number, txn.Status)
	}

	period, err := tx.Period.FindByID(ctx, txn.FiscalPeriodID)
	if err != nil {
		return nil, translate(err, "fiscal period", txn.FiscalPeriodID)
	}
	if !period.IsOpen() {
		return nil, wrap(ErrPeriodClosed, "period %s is %s", period.Name, period.Status)
	}

	if len(txn.Entries) == 0 || !txn.IsBalanced() {
		debit, credit := txn.Totals()
		return nil, wrap(ErrUnbalanced, "debits %s, credits %s", amount.String(debit), amount.String(credit))
	}

	if err := applyEntries(ctx, tx, txn, true); err != nil {
		return nil, err
	}
	if err := markPosted(ctx, tx, txn); err != nil {
		return nil, err
	}
	if err := audit(ctx, tx, actor, models.AuditActionPost, "transaction", txn.ID,
		"Posted %s for %s", txn.Number, amount.String(txn.TotalAmount)); err != nil {
		return nil, err
	}
	return txn, nil
}

func markPosted(ctx context.Context, tx *repository.Repositories, txn *models.Transaction) error {
	if err := statemachine.NewTransactionFSM(txn).Post(ctx); err != nil {
		return translate(err, "transaction", txn.ID)
	}
	now := time.Now()
	txn.PostedAt = &now
	if err := tx.Transaction.UpdateStatus(ctx, txn, models.TransactionStatusDraft, map[string]interface{}{
		"status":    txn.Status,
		"posted_at": now,
	}); err != nil {
		return translate(err, "transaction", txn.ID)
	}
	return tx.Analytics.InvalidateAll(ctx)
}

// applyEntries moves account balances by the transaction's entries. Accounts
// are updated in id order under an optimistic version check; a concurrent
// writer makes the whole database transaction fail with ErrConflict.
func applyEntries(ctx context.Context, tx *repository.Repositories, txn *models.Transaction, requireActive bool) error {
	type movement struct{ debit, credit decimal.Decimal }
	moves := make(map[uint]*movement)
	for _, e := range txn.Entries {
		m, ok := moves[e.AccountID]
		if !ok {
			m = &movement{debit: decimal.Zero, credit: decimal.Zero}
			moves[e.AccountID] = m
		}
		m.debit = m.debit.Add(e.DebitAmount)
		m.credit = m.credit.Add(e.CreditAmount)
	}

	ids := entryAccountIDs(txn.Entries, func(e models.TransactionEntry) uint { return e.AccountID })
	accounts, err := loadAccounts(ctx, tx, ids, requireActive)
	if err != nil {
		return err
	}

	for _, id := range ids {
		acc := accounts[id]
		m := moves[id]
		balance := acc.Balance.Add(acc.Type.SignedDelta(m.debit, m.credit))
		if err := tx.Account.ApplyBalance(ctx, acc.ID, acc.Version, balance); err != nil {
			return translate(err, "account", acc.ID)
		}
	}
	return nil
}

func reverseTx(ctx context.Context, tx *repository.Repositories, id uint, actor Actor) (*models.Transaction, error) {
	original, err := tx.Transaction.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "transaction", id)
	}
	switch {
	case original.Status == models.TransactionStatusReversed:
		return nil, wrap(ErrAlreadyReversed, "transaction %s is already reversed", original.Number)
	case !original.MayReverse():
		return nil, wrap(ErrNotPosted, "transaction %s is %s", original.Number, original.Status)
	case original.IsReversal():
		return nil, wrap(ErrInvalidTransition, "%s is itself a reversal", original.Number)
	}

	period, err := tx.Period.FindByID(ctx, original.FiscalPeriodID)
	if err != nil {
		return nil, translate(err, "fiscal period", original.FiscalPeriodID)
	}
	date := original.Date
	if !period.IsOpen() {
		// The original period no longer accepts postings; reverse today instead.
		date = models.Today()
		period, err = findPeriodForDate(ctx, tx, date)
		if err != nil {
			return nil, err
		}
		if !period.IsOpen() {
			return nil, wrap(ErrPeriodClosed, "period %s is %s", period.Name, period.Status)
		}
	}

	seq, err := tx.Period.AllocateSequence(ctx, period.ID)
	if err != nil {
		return nil, err
	}

	reversal := &models.Transaction{
		GUID:           uuid.NewString(),
		Number:         period.TransactionNumber(seq),
		FiscalPeriodID: period.ID,
		Date:           date,
		Description:    fmt.Sprintf("Reversal of %s", original.Number),
		Currency:       original.Currency,
		TotalAmount:    original.TotalAmount,
		Status:         models.TransactionStatusDraft,
		ReversalOfID:   &original.ID,
		ReferenceType:  original.ReferenceType,
		ReferenceID:    original.ReferenceID,
	}
	if original.Description != "" {
		reversal.Description += ": " + original.Description
	}
	for _, e := range original.Entries {
		reversal.Entries = append(reversal.Entries, models.TransactionEntry{
			LineNumber:   e.LineNumber,
			AccountID:    e.AccountID,
			DebitAmount:  e.CreditAmount,
			CreditAmount: e.DebitAmount,
			Description:  e.Description,
		})
	}

	if err := tx.Transaction.Create(ctx, reversal); err != nil {
		return nil, err
	}
	// Deactivated accounts still accept the correcting entries.
	if err := applyEntries(ctx, tx, reversal, false); err != nil {
		return nil, err
	}
	if err := markPosted(ctx, tx, reversal); err != nil {
		return nil, err
	}

	if err := statemachine.NewTransactionFSM(original).Reverse(ctx); err != nil {
		return nil, translate(err, "transaction", original.ID)
	}
	now := time.Now()
	original.ReversedAt = &now
	original.ReversedByID = &reversal.ID
	if err := tx.Transaction.UpdateStatus(ctx, original, models.TransactionStatusPosted, map[string]interface{}{
		"status":         original.Status,
		"reversed_at":    now,
		"reversed_by_id": reversal.ID,
	}); err != nil {
		return nil, translate(err, "transaction", original.ID)
	}

	if err := audit(ctx, tx, actor, models.AuditActionReverse, "transaction", original.ID,
		"Reversed %s with %s", original.Number, reversal.Number); err != nil {
		return nil, err
	}
	return reversal, nil
}
