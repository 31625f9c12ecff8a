package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/fintera-ledger/internal/models"
	"github.com/sjperalta/fintera-ledger/pkg/amount"
	"gorm.io/gorm"
)

// AccountTotals is the raw debit and credit movement of one account
type AccountTotals struct {
	AccountID uint
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// PeriodTotals is the movement of one account inside one fiscal period
type PeriodTotals struct {
	FiscalPeriodID uint
	AccountID      uint
	Debit          decimal.Decimal
	Credit         decimal.Decimal
}

// TransactionRepository defines the interface for journal data access
type TransactionRepository interface {
	Create(ctx context.Context, txn *models.Transaction) error
	FindByID(ctx context.Context, id uint) (*models.Transaction, error)
	FindEntry(ctx context.Context, id uint) (*models.TransactionEntry, *models.Transaction, error)
	UpdateStatus(ctx context.Context, txn *models.Transaction, from string, updates map[string]interface{}) error
	List(ctx context.Context, query *ListQuery) ([]models.Transaction, int64, error)
	HasEntriesForAccount(ctx context.Context, accountID uint, statuses []string) (bool, error)
	CountByPeriod(ctx context.Context, periodID uint, status string) (int64, error)
	SumByAccount(ctx context.Context, from, to *time.Time, accountIDs []uint) ([]AccountTotals, error)
	SumByPeriod(ctx context.Context, periodIDs []uint) ([]PeriodTotals, error)
}

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

// Create inserts the transaction together with its entries
func (r *transactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	return translateWriteError(r.db.WithContext(ctx).Create(txn).Error)
}

func (r *transactionRepository) FindByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_number ASC")
		}).
		First(&txn, id).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// FindEntry loads an entry and the transaction that owns it
func (r *transactionRepository) FindEntry(ctx context.Context, id uint) (*models.TransactionEntry, *models.Transaction, error) {
	var entry models.TransactionEntry
	if err := r.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		return nil, nil, err
	}
	var txn models.Transaction
	if err := r.db.WithContext(ctx).First(&txn, entry.TransactionID).Error; err != nil {
		return nil, nil, err
	}
	return &entry, &txn, nil
}

// UpdateStatus applies updates only while the row still has status from.
// A concurrent transition leaves zero rows affected and ErrStateChanged.
func (r *transactionRepository) UpdateStatus(ctx context.Context, txn *models.Transaction, from string, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ? AND status = ?", txn.ID, from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStateChanged
	}
	return nil
}

func (r *transactionRepository) List(ctx context.Context, query *ListQuery) ([]models.Transaction, int64, error) {
	var txns []models.Transaction
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Transaction{})

	if query.Search != "" {
		pattern := likePattern(query.Search)
		db = db.Where("LOWER(number) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if s := query.Filter("status"); s != "" {
		db = db.Where("status = ?", s)
	}
	if p := query.Filter("fiscal_period_id"); p != "" {
		db = db.Where("fiscal_period_id = ?", p)
	}
	if a := query.Filter("account_id"); a != "" {
		db = db.Where("id IN (?)", r.db.Model(&models.TransactionEntry{}).Select("transaction_id").Where("account_id = ?", a))
	}
	if from := query.Filter("start_date"); from != "" {
		if d, err := models.ParseDate(from); err == nil {
			db = db.Where("date >= ?", d)
		}
	}
	if to := query.Filter("end_date"); to != "" {
		if d, err := models.ParseDate(to); err == nil {
			db = db.Where("date <= ?", d)
		}
	}

	db, err := paginate(db, query, map[string]string{
		"number":       "number",
		"date":         "date",
		"total_amount": "total_amount",
		"status":       "status",
		"created_at":   "created_at",
	}, "date DESC, id DESC", &total)
	if err != nil {
		return nil, 0, err
	}

	err = db.Preload("Entries", func(db *gorm.DB) *gorm.DB {
		return db.Order("line_number ASC")
	}).Find(&txns).Error
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// HasEntriesForAccount reports whether any transaction in statuses touches the account
func (r *transactionRepository) HasEntriesForAccount(ctx context.Context, accountID uint, statuses []string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TransactionEntry{}).
		Joins("JOIN transactions ON transactions.id = transaction_entries.transaction_id").
		Where("transaction_entries.account_id = ? AND transactions.status IN ?", accountID, statuses).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}

func (r *transactionRepository) CountByPeriod(ctx context.Context, periodID uint, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("fiscal_period_id = ? AND status = ?", periodID, status).
		Count(&count).Error
	return count, err
}

// SumByAccount totals posted-effect entries per account. Nil bounds are open;
// both bounds are inclusive. An empty accountIDs means every account.
func (r *transactionRepository) SumByAccount(ctx context.Context, from, to *time.Time, accountIDs []uint) ([]AccountTotals, error) {
	db := r.db.WithContext(ctx).
		Model(&models.TransactionEntry{}).
		Select("transaction_entries.account_id AS account_id, " +
			"COALESCE(SUM(transaction_entries.debit_amount), 0) AS debit, " +
			"COALESCE(SUM(transaction_entries.credit_amount), 0) AS credit").
		Joins("JOIN transactions ON transactions.id = transaction_entries.transaction_id").
		Where("transactions.status IN ?", models.PostedEffectStatuses)

	if from != nil {
		db = db.Where("transactions.date >= ?", models.Date(*from))
	}
	if to != nil {
		db = db.Where("transactions.date <= ?", models.Date(*to))
	}
	if len(accountIDs) > 0 {
		db = db.Where("transaction_entries.account_id IN ?", accountIDs)
	}

	var totals []AccountTotals
	if err := db.Group("transaction_entries.account_id").Order("transaction_entries.account_id").Scan(&totals).Error; err != nil {
		return nil, err
	}
	for i := range totals {
		totals[i].Debit = amount.Round(totals[i].Debit)
		totals[i].Credit = amount.Round(totals[i].Credit)
	}
	return totals, nil
}

// SumByPeriod totals posted-effect entries per fiscal period and account
func (r *transactionRepository) SumByPeriod(ctx context.Context, periodIDs []uint) ([]PeriodTotals, error) {
	var totals []PeriodTotals
	if len(periodIDs) == 0 {
		return totals, nil
	}

	err := r.db.WithContext(ctx).
		Model(&models.TransactionEntry{}).
		Select("transactions.fiscal_period_id AS fiscal_period_id, " +
			"transaction_entries.account_id AS account_id, " +
			"COALESCE(SUM(transaction_entries.debit_amount), 0) AS debit, " +
			"COALESCE(SUM(transaction_entries.credit_amount), 0) AS credit").
		Joins("JOIN transactions ON transactions.id = transaction_entries.transaction_id").
		Where("transactions.status IN ? AND transactions.fiscal_period_id IN ?", models.PostedEffectStatuses, periodIDs).
		Group("transactions.fiscal_period_id, transaction_entries.account_id").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	for i := range totals {
		totals[i].Debit = amount.Round(totals[i].Debit)
		totals[i].Credit = amount.Round(totals[i].Credit)
	}
	return totals, nil
}
