package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/fintera-ledger/pkg/amount"
)

// Reconciliation status constants
const (
	ReconciliationStatusPending     = "pending"
	ReconciliationStatusInProgress  = "in_progress"
	ReconciliationStatusCompleted   = "completed"
	ReconciliationStatusDiscrepancy = "discrepancy"
)

// Reconciliation compares an account's book balance with a bank statement
type Reconciliation struct {
	ID                uint                 `gorm:"primaryKey" json:"id"`
	AccountID         uint                 `gorm:"not null;index" json:"account_id"`
	StatementDate     time.Time            `gorm:"type:date;not null;index" json:"statement_date"`
	StatementBalance  decimal.Decimal      `gorm:"type:numeric(18,2);not null" json:"statement_balance"`
	BookBalance       decimal.Decimal      `gorm:"type:numeric(18,2);not null" json:"book_balance"`
	ReconciledBalance decimal.Decimal      `gorm:"type:numeric(18,2);not null" json:"reconciled_balance"`
	Status            string               `gorm:"size:20;not null;index" json:"status"`
	Notes             string               `gorm:"type:text" json:"notes"`
	CompletedAt       *time.Time           `json:"completed_at"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
	Items             []ReconciliationItem `gorm:"foreignKey:ReconciliationID" json:"items"`
}

// TableName specifies the table name for Reconciliation
func (Reconciliation) TableName() string {
	return "reconciliations"
}

// ReconciliationItem is a matched amount, optionally tied to a ledger entry
type ReconciliationItem struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	ReconciliationID uint            `gorm:"not null;index" json:"reconciliation_id"`
	EntryID          *uint           `gorm:"index" json:"entry_id"`
	Amount           decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	Description      string          `gorm:"size:255" json:"description"`
	ClearedAt        time.Time       `json:"cleared_at"`
}

// TableName specifies the table name for ReconciliationItem
func (ReconciliationItem) TableName() string {
	return "reconciliation_items"
}

// Difference is what still separates the statement from the reconciled total
func (r *Reconciliation) Difference() decimal.Decimal {
	return r.StatementBalance.Sub(r.ReconciledBalance)
}

// IsCompleted returns true once the reconciliation reached its terminal state
func (r *Reconciliation) IsCompleted() bool {
	return r.Status == ReconciliationStatusCompleted
}

// ReconciliationItemResponse is the JSON response format for an item
type ReconciliationItemResponse struct {
	ID          uint      `json:"id"`
	EntryID     *uint     `json:"entry_id"`
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
	ClearedAt   time.Time `json:"cleared_at"`
}

// ReconciliationResponse is the JSON response format
type ReconciliationResponse struct {
	ID                uint                         `json:"id"`
	AccountID         uint                         `json:"account_id"`
	AccountName       string                       `json:"account_name,omitempty"`
	StatementDate     string                       `json:"statement_date"`
	StatementBalance  string                       `json:"statement_balance"`
	BookBalance       string                       `json:"book_balance"`
	ReconciledBalance string                       `json:"reconciled_balance"`
	Difference        string                       `json:"difference"`
	Status            string                       `json:"status"`
	Notes             string                       `json:"notes"`
	CompletedAt       *time.Time                   `json:"completed_at"`
	CreatedAt         time.Time                    `json:"created_at"`
	Items             []ReconciliationItemResponse `json:"items"`
}

// ToResponse converts Reconciliation to ReconciliationResponse
func (r *Reconciliation) ToResponse() ReconciliationResponse {
	items := make([]ReconciliationItemResponse, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, ReconciliationItemResponse{
			ID:          it.ID,
			EntryID:     it.EntryID,
			Amount:      amount.String(it.Amount),
			Description: it.Description,
			ClearedAt:   it.ClearedAt,
		})
	}

	return ReconciliationResponse{
		ID:                r.ID,
		AccountID:         r.AccountID,
		StatementDate:     FormatDate(r.StatementDate),
		StatementBalance:  amount.String(r.StatementBalance),
		BookBalance:       amount.String(r.BookBalance),
		ReconciledBalance: amount.String(r.ReconciledBalance),
		Difference:        amount.String(r.Difference()),
		Status:            r.Status,
		Notes:             r.Notes,
		CompletedAt:       r.CompletedAt,
		CreatedAt:         r.CreatedAt,
		Items:             items,
	}
}
