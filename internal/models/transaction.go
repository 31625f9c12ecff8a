package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/fintera-ledger/pkg/amount"
)

// Transaction status constants
const (
	TransactionStatusDraft    = "draft"
	TransactionStatusPosted   = "posted"
	TransactionStatusReversed = "reversed"
	TransactionStatusVoid     = "void"
)

// PostedEffectStatuses are the statuses whose entries count toward balances.
// A reversed transaction keeps its effect; its reversal offsets it.
var PostedEffectStatuses = []string{TransactionStatusPosted, TransactionStatusReversed}

// Transaction is a journal transaction made of balanced entries
type Transaction struct {
	ID             uint               `gorm:"primaryKey" json:"id"`
	GUID           string             `gorm:"size:36;not null;uniqueIndex" json:"guid"`
	Number         string             `gorm:"size:30;not null;uniqueIndex" json:"number"`
	FiscalPeriodID uint               `gorm:"not null;index" json:"fiscal_period_id"`
	Date           time.Time          `gorm:"type:date;not null;index" json:"date"`
	Description    string             `gorm:"type:text" json:"description"`
	Currency       string             `gorm:"size:3;not null" json:"currency"`
	TotalAmount    decimal.Decimal    `gorm:"type:numeric(18,2);not null" json:"total_amount"`
	Status         string             `gorm:"size:20;not null;index" json:"status"`
	ReversalOfID   *uint              `gorm:"index" json:"reversal_of_id"`
	ReversedByID   *uint              `json:"reversed_by_id"`
	ReferenceType  string             `gorm:"size:30;index:idx_transactions_reference" json:"reference_type"`
	ReferenceID    *uint              `gorm:"index:idx_transactions_reference" json:"reference_id"`
	PostedAt       *time.Time         `json:"posted_at"`
	ReversedAt     *time.Time         `json:"reversed_at"`
	VoidedAt       *time.Time         `json:"voided_at"`
	CreatedAt      time.Time          `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	Entries        []TransactionEntry `gorm:"foreignKey:TransactionID" json:"entries"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}

// TransactionEntry is one debit or credit line of a transaction
type TransactionEntry struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	TransactionID uint            `gorm:"not null;index" json:"transaction_id"`
	LineNumber    int             `gorm:"not null" json:"line_number"`
	AccountID     uint            `gorm:"not null;index" json:"account_id"`
	DebitAmount   decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"debit_amount"`
	CreditAmount  decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"credit_amount"`
	Description   string          `gorm:"size:255" json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TableName specifies the table name for TransactionEntry
func (TransactionEntry) TableName() string {
	return "transaction_entries"
}

// MayPost returns true if the transaction can be posted
func (t *Transaction) MayPost() bool {
	return t.Status == TransactionStatusDraft
}

// MayReverse returns true if the transaction can be reversed
func (t *Transaction) MayReverse() bool {
	return t.Status == TransactionStatusPosted
}

// MayVoid returns true if the transaction can be voided
func (t *Transaction) MayVoid() bool {
	return t.Status == TransactionStatusDraft
}

// IsReversal reports whether the transaction was generated by a reversal
func (t *Transaction) IsReversal() bool {
	return t.ReversalOfID != nil
}

// Totals sums the debit and credit columns
func (t *Transaction) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, e := range t.Entries {
		debit = debit.Add(e.DebitAmount)
		credit = credit.Add(e.CreditAmount)
	}
	return debit, credit
}

// IsBalanced reports whether debits equal credits exactly
func (t *Transaction) IsBalanced() bool {
	debit, credit := t.Totals()
	return debit.Equal(credit)
}

// TransactionEntryResponse is the JSON response format for an entry
type TransactionEntryResponse struct {
	ID           uint   `json:"id"`
	LineNumber   int    `json:"line_number"`
	AccountID    uint   `json:"account_id"`
	DebitAmount  string `json:"debit_amount"`
	CreditAmount string `json:"credit_amount"`
	Description  string `json:"description"`
}

// TransactionResponse is the JSON response format
type TransactionResponse struct {
	ID                uint                       `json:"id"`
	GUID              string                     `json:"guid"`
	TransactionNumber string                     `json:"transaction_number"`
	TransactionDate   string                     `json:"transaction_date"`
	FiscalPeriodID    uint                       `json:"fiscal_period_id"`
	Description       string                     `json:"description"`
	Currency          string                     `json:"currency"`
	TotalAmount       string                     `json:"total_amount"`
	Status            string                     `json:"status"`
	ReversalOfID      *uint                      `json:"reversal_of_id"`
	ReversedByID      *uint                      `json:"reversed_by_id"`
	ReferenceType     string                     `json:"reference_type,omitempty"`
	ReferenceID       *uint                      `json:"reference_id,omitempty"`
	PostedAt          *time.Time                 `json:"posted_at"`
	ReversedAt        *time.Time                 `json:"reversed_at"`
	VoidedAt          *time.Time                 `json:"voided_at"`
	CreatedAt         time.Time                  `json:"created_at"`
	Entries           []TransactionEntryResponse `json:"entries"`
}

// ToResponse converts Transaction to TransactionResponse
func (t *Transaction) ToResponse() TransactionResponse {
	entries := make([]TransactionEntryResponse, 0, len(t.Entries))
	for _, e := range t.Entries {
		entries = append(entries, TransactionEntryResponse{
			ID:           e.ID,
			LineNumber:   e.LineNumber,
			AccountID:    e.AccountID,
			DebitAmount:  amount.String(e.DebitAmount),
			CreditAmount: amount.String(e.CreditAmount),
			Description:  e.Description,
		})
	}

	return TransactionResponse{
		ID:                t.ID,
		GUID:              t.GUID,
		TransactionNumber: t.Number,
		TransactionDate:   FormatDate(t.Date),
		FiscalPeriodID:    t.FiscalPeriodID,
		Description:       t.Description,
		Currency:          t.Currency,
		TotalAmount:       amount.String(t.TotalAmount),
		Status:            t.Status,
		ReversalOfID:      t.ReversalOfID,
		ReversedByID:      t.ReversedByID,
		ReferenceType:     t.ReferenceType,
		ReferenceID:       t.ReferenceID,
		PostedAt:          t.PostedAt,
		ReversedAt:        t.ReversedAt,
		VoidedAt:          t.VoidedAt,
		CreatedAt:         t.CreatedAt,
		Entries:           entries,
	}
}
