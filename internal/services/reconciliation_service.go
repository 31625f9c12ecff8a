package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/fintera-ledger/internal/models"
	"github.com/sjperalta/fintera-ledger/internal/repository"
	"github.com/sjperalta/fintera-ledger/internal/statemachine"
	"github.com/sjperalta/fintera-ledger/pkg/amount"
	"gorm.io/gorm"
)

// StartReconciliationInput opens a reconciliation against a bank statement
type StartReconciliationInput struct {
	AccountID        uint
	StatementDate    time.Time
	StatementBalance decimal.Decimal
	Notes            string
}

// MatchInput clears either a ledger entry or a free amount
type MatchInput struct {
	EntryID     *uint
	Amount      *decimal.Decimal
	Description string
}

type ReconciliationService struct {
	repos *repository.Repositories
}

func NewReconciliationService(repos *repository.Repositories) *ReconciliationService {
	return &ReconciliationService{repos: repos}
}

func (s *ReconciliationService) Get(ctx context.Context, id uint) (*models.Reconciliation, error) {
	rec, err := s.repos.Reconciliation.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "reconciliation", id)
	}
	return rec, nil
}

func (s *ReconciliationService) List(ctx context.Context, query *repository.ListQuery) ([]models.Reconciliation, int64, error) {
	return s.repos.Reconciliation.List(ctx, query)
}

// Start snapshots the book balance at the statement date
func (s *ReconciliationService) Start(ctx context.Context, input StartReconciliationInput, actor Actor) (*models.Reconciliation, error) {
	if input.AccountID == 0 {
		return nil, invalid("account_id is required")
	}
	if input.StatementDate.IsZero() {
		return nil, invalid("statement_date is required")
	}
	if err := amount.CheckPrecision(input.StatementBalance); err != nil {
		return nil, invalid("statement_balance: %v", err)
	}

	var rec *models.Reconciliation
	err := s.repos.WithTx(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Account.FindByID(ctx, input.AccountID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return invalid("account %d does not exist", input.AccountID)
			}
			return err
		}

		date := models.Date(input.StatementDate)
		book, err := balanceAsOf(ctx, tx, input.AccountID, date)
		if err != nil {
			return err
		}

		rec = &models.Reconciliation{
			AccountID:         input.AccountID,
			StatementDate:     date,
			StatementBalance:  input.StatementBalance,
			BookBalance:       book,
			ReconciledBalance: book,
			Status:            models.ReconciliationStatusPending,
			Notes:             strings.TrimSpace(input.Notes),
		}
		if err := tx.Reconciliation.Create(ctx, rec); err != nil {
			return err
		}
		return audit(ctx, tx, actor, models.AuditActionCreate, "reconciliation", rec.ID,
			"Started reconciliation of account %d at %s: statement %s, book %s",
			rec.AccountID, models.FormatDate(date), amount.String(rec.StatementBalance), amount.String(book))
	})
	if err != nil {
		return nil, err
	}
	rec.Items = []models.ReconciliationItem{}
	return rec, nil
}

// Match clears an item and moves the reconciled balance by its amount
func (s *ReconciliationService) Match(ctx context.Context, id uint, input MatchInput, actor Actor) (*models.Reconciliation, error) {
	var rec *models.Reconciliation
	err := s.repos.WithTx(ctx, func(tx *repository.Repositories) error {
		var err error
		rec, err = tx.Reconciliation.FindByID(ctx, id)
		if err != nil {
			return translate(err, "reconciliation", id)
		}

		if err := statemachine.NewReconciliationFSM(rec).Match(ctx); err != nil {
			return translate(err, "reconciliation", id)
		}
		item, err := s.buildItem(ctx, tx, rec, input)
		if err != nil {
			return err
		}
		if err := tx.Reconciliation.AddItem(ctx, item); err != nil {
			return err
		}
		rec.Items = append(rec.Items, *item)
		rec.ReconciledBalance = rec.ReconciledBalance.Add(item.Amount)
		if err := tx.Reconciliation.Update(ctx, rec); err != nil {
			return err
		}
		return audit(ctx, tx, actor, models.AuditActionUpdate, "reconciliation", rec.ID,
			"Matched %s (%s)", amount.String(item.Amount), item.Description)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *ReconciliationService) buildItem(ctx context.Context, tx *repository.Repositories, rec *models.Reconciliation, input MatchInput) (*models.ReconciliationItem, error) {
	item := &models.ReconciliationItem{
		ReconciliationID: rec.ID,
		Description:      strings.TrimSpace(input.Description),
		ClearedAt:        time.Now(),
	}

	if input.EntryID == nil {
		if input.Amount == nil || input.Amount.IsZero() {
			return nil, invalid("either entry_id or a non-zero amount is required")
		}
		if err := amount.CheckPrecision(*input.Amount); err != nil {
			return nil, invalid("amount: %v", err)
		}
		if item.Description == "" {
			return nil, invalid("description is required for manual items")
		}
		item.Amount = *input.Amount
		return item, nil
	}

	entryID := *input.EntryID
	for _, existing := range rec.Items {
		if existing.EntryID != nil && *existing.EntryID == entryID {
			return nil, invalid("entry %d is already matched in this reconciliation", entryID)
		}
	}

	entry, txn, err := tx.Transaction.FindEntry(ctx, entryID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalid("entry %d does not exist", entryID)
	}
	if err != nil {
		return nil, err
	}
	if entry.AccountID != rec.AccountID {
		return nil, invalid("entry %d does not belong to account %d", entryID, rec.AccountID)
	}
	if txn.Status != models.TransactionStatusPosted && txn.Status != models.TransactionStatusReversed {
		return nil, invalid("entry %d belongs to a %s transaction", entryID, txn.Status)
	}
	// Entries up to the statement date are already part of the book balance.
	if !models.Date(txn.Date).After(models.Date(rec.StatementDate)) {
		return nil, invalid("entry %d is dated %s and already included in the book balance as of %s",
			entryID, models.FormatDate(txn.Date), models.FormatDate(rec.StatementDate))
	}

	account, err := tx.Account.FindByID(ctx, rec.AccountID)
	if err != nil {
		return nil, translate(err, "account", rec.AccountID)
	}
	item.EntryID = &entryID
	item.Amount = account.Type.SignedDelta(entry.DebitAmount, entry.CreditAmount)
	if item.Description == "" {
		item.Description = txn.Number
		if entry.Description != "" {
			item.Description += " " + entry.Description
		}
	}
	return item, nil
}

// Unmatch removes an item and restores the reconciled balance
func (s *ReconciliationService) Unmatch(ctx context.Context, id, itemID uint, actor Actor) (*models.Reconciliation, error) {
	var rec *models.Reconciliation
	err := s.repos.WithTx(ctx, func(tx *repository.Repositories) error {
		var err error
		rec, err = tx.Reconciliation.FindByID(ctx, id)
		if err != nil {
			return translate(err, "reconciliation", id)
		}
		item, err := tx.Reconciliation.FindItem(ctx, id, itemID)
		if err != nil {
			return translate(err, "reconciliation item", itemID)
		}

		if err := statemachine.NewReconciliationFSM(rec).Match(ctx); err != nil {
			return translate(err, "reconciliation", id)
		}
		if err := tx.Reconciliation.DeleteItem(ctx, item.ID); err != nil {
			return err
		}
		rec.ReconciledBalance = rec.ReconciledBalance.Sub(item.Amount)
		kept := rec.Items[:0]
		for _, it := range rec.Items {
			if it.ID != item.ID {
				kept = append(kept, it)
			}
		}
		rec.Items = kept
		if err := tx.Reconciliation.Update(ctx, rec); err != nil {
			return err
		}
		return audit(ctx, tx, actor, models.AuditActionUpdate, "reconciliation", rec.ID,
			"Unmatched %s (%s)", amount.String(item.Amount), item.Description)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Complete finishes the reconciliation. When the totals disagree the
// reconciliation is saved as discrepancy and a *DiscrepancyError is returned.
func (s *ReconciliationService) Complete(ctx context.Context, id uint, actor Actor) (*models.Reconciliation, error) {
	var rec *models.Reconciliation
	var mismatch *DiscrepancyError
	err := s.repos.WithTx(ctx, func(tx *repository.Repositories) error {
		var err error
		rec, err = tx.Reconciliation.FindByID(ctx, id)
		if err != nil {
			return translate(err, "reconciliation", id)
		}

		machine := statemachine.NewReconciliationFSM(rec)
		diff := rec.Difference()
		if diff.IsZero() {
			if err := machine.Complete(ctx); err != nil {
				return translate(err, "reconciliation", id)
			}
			now := time.Now()
			rec.CompletedAt = &now
		} else {
			if err := machine.FlagDiscrepancy(ctx); err != nil {
				return translate(err, "reconciliation", id)
			}
			mismatch = &DiscrepancyError{Amount: diff}
		}

		if err := tx.Reconciliation.Update(ctx, rec); err != nil {
			return err
		}
		if mismatch != nil {
			return audit(ctx, tx, actor, models.AuditActionComplete, "reconciliation", rec.ID,
				"Discrepancy of %s", amount.String(diff))
		}
		return audit(ctx, tx, actor, models.AuditActionComplete, "reconciliation", rec.ID, "Completed reconciliation")
	})
	if err != nil {
		return nil, err
	}
	if mismatch != nil {
		return rec, mismatch
	}
	return rec, nil
}
