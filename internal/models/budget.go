package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/fintera-ledger/pkg/amount"
)

// Budget status constants
const (
	BudgetStatusDraft  = "draft"
	BudgetStatusActive = "active"
	BudgetStatusClosed = "closed"
)

// Budget plans an account's movement for one fiscal period. Actual, Variance
// and ComputedAt are a cached snapshot refreshed from the ledger.
type Budget struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	Name            string           `gorm:"size:150;not null" json:"name"`
	AccountID       uint             `gorm:"not null;uniqueIndex:idx_budgets_account_period" json:"account_id"`
	FiscalPeriodID  uint             `gorm:"not null;uniqueIndex:idx_budgets_account_period" json:"fiscal_period_id"`
	BudgetedAmount  decimal.Decimal  `gorm:"type:numeric(18,2);not null" json:"budgeted_amount"`
	Status          string           `gorm:"size:20;not null;index" json:"status"`
	ActualAmount    decimal.Decimal  `gorm:"type:numeric(18,2);not null;default:0" json:"actual_amount"`
	VarianceAmount  decimal.Decimal  `gorm:"type:numeric(18,2);not null;default:0" json:"variance_amount"`
	VariancePercent *decimal.Decimal `gorm:"type:numeric(9,2)" json:"variance_percent"`
	ComputedAt      *time.Time       `json:"computed_at"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// TableName specifies the table name for Budget
func (Budget) TableName() string {
	return "budgets"
}

// MayActivate returns true if the budget can be activated
func (b *Budget) MayActivate() bool {
	return b.Status == BudgetStatusDraft
}

// MayClose returns true if the budget can be closed
func (b *Budget) MayClose() bool {
	return b.Status == BudgetStatusActive
}

// ApplyActual stores a freshly computed actual and its variance
func (b *Budget) ApplyActual(actual decimal.Decimal, at time.Time) {
	b.ActualAmount = actual
	b.VarianceAmount = actual.Sub(b.BudgetedAmount)
	if b.BudgetedAmount.IsZero() {
		b.VariancePercent = nil
	} else {
		pct := amount.Percent(b.VarianceAmount, b.BudgetedAmount)
		b.VariancePercent = &pct
	}
	b.ComputedAt = &at
}

// BudgetResponse is the JSON response format
type BudgetResponse struct {
	ID              uint       `json:"id"`
	BudgetName      string     `json:"budget_name"`
	AccountID       uint       `json:"account_id"`
	FiscalPeriodID  uint       `json:"fiscal_period_id"`
	FiscalYear      int        `json:"fiscal_year,omitempty"`
	BudgetedAmount  string     `json:"budgeted_amount"`
	ActualAmount    string     `json:"actual_amount"`
	VarianceAmount  string     `json:"variance_amount"`
	VariancePercent *string    `json:"variance_percent"`
	Status          string     `json:"status"`
	ComputedAt      *time.Time `json:"computed_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ToResponse converts Budget to BudgetResponse
func (b *Budget) ToResponse() BudgetResponse {
	var pct *string
	if b.VariancePercent != nil {
		s := b.VariancePercent.StringFixed(2)
		pct = &s
	}
	return BudgetResponse{
		ID:              b.ID,
		BudgetName:      b.Name,
		AccountID:       b.AccountID,
		FiscalPeriodID:  b.FiscalPeriodID,
		BudgetedAmount:  amount.String(b.BudgetedAmount),
		ActualAmount:    amount.String(b.ActualAmount),
		VarianceAmount:  amount.String(b.VarianceAmount),
		VariancePercent: pct,
		Status:          b.Status,
		ComputedAt:      b.ComputedAt,
		CreatedAt:       b.CreatedAt,
	}
}
