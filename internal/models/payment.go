package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/fintera-ledger/pkg/amount"
)

// Payment status constants
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusReversed  = "reversed"
)

// Payment method constants
const (
	PaymentMethodCash         = "cash"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCheck        = "check"
	PaymentMethodCard         = "card"
)

// ValidPaymentMethod reports whether m is a known payment method
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCheck, PaymentMethodCard:
		return true
	}
	return false
}

// Payment is money received from a customer, optionally applied to an invoice
type Payment struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	GUID                string          `gorm:"size:36;not null;uniqueIndex" json:"guid"`
	PaymentNumber       string          `gorm:"size:30;not null;uniqueIndex" json:"payment_number"`
	CustomerName        string          `gorm:"size:150;not null;index" json:"customer_name"`
	PaymentDate         time.Time       `gorm:"type:date;not null;index" json:"payment_date"`
	Amount              decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	PaymentMethod       string          `gorm:"size:20;not null" json:"payment_method"`
	Reference           string          `gorm:"size:100" json:"reference"`
	Status              string          `gorm:"size:20;not null;index" json:"status"`
	InvoiceID           *uint           `gorm:"index" json:"invoice_id"`
	CashAccountID       uint            `gorm:"not null" json:"cash_account_id"`
	ReceivableAccountID uint            `gorm:"not null" json:"receivable_account_id"`
	TransactionID       *uint           `gorm:"index" json:"transaction_id"`
	FailureReason       string          `gorm:"type:text" json:"failure_reason"`
	CompletedAt         *time.Time      `json:"completed_at"`
	CreatedAt           time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// FormatPaymentNumber renders the public payment number for an id
func FormatPaymentNumber(id uint) string {
	return fmt.Sprintf("PAY-%06d", id)
}

// MayComplete returns true if the payment can be completed
func (p *Payment) MayComplete() bool {
	return p.Status == PaymentStatusPending
}

// MayFail returns true if the payment can be marked as failed
func (p *Payment) MayFail() bool {
	return p.Status == PaymentStatusPending
}

// MayReverse returns true if a completed payment can be reversed
func (p *Payment) MayReverse() bool {
	return p.Status == PaymentStatusCompleted
}

// PaymentResponse is the JSON response format
type PaymentResponse struct {
	ID                  uint       `json:"id"`
	GUID                string     `json:"guid"`
	PaymentNumber       string     `json:"payment_number"`
	CustomerName        string     `json:"customer_name"`
	PaymentDate         string     `json:"payment_date"`
	Amount              string     `json:"amount"`
	PaymentMethod       string     `json:"payment_method"`
	Reference           string     `json:"reference"`
	Status              string     `json:"status"`
	InvoiceID           *uint      `json:"invoice_id"`
	CashAccountID       uint       `json:"cash_account_id"`
	ReceivableAccountID uint       `json:"receivable_account_id"`
	TransactionID       *uint      `json:"transaction_id"`
	FailureReason       string     `json:"failure_reason,omitempty"`
	CompletedAt         *time.Time `json:"completed_at"`
	CreatedAt           time.Time  `json:"created_at"`
}

// ToResponse converts Payment to PaymentResponse
func (p *Payment) ToResponse() PaymentResponse {
	return PaymentResponse{
		ID:                  p.ID,
		GUID:                p.GUID,
		PaymentNumber:       p.PaymentNumber,
		CustomerName:        p.CustomerName,
		PaymentDate:         FormatDate(p.PaymentDate),
		Amount:              amount.String(p.Amount),
		PaymentMethod:       p.PaymentMethod,
		Reference:           p.Reference,
		Status:              p.Status,
		InvoiceID:           p.InvoiceID,
		CashAccountID:       p.CashAccountID,
		ReceivableAccountID: p.ReceivableAccountID,
		TransactionID:       p.TransactionID,
		FailureReason:       p.FailureReason,
		CompletedAt:         p.CompletedAt,
		CreatedAt:           p.CreatedAt,
	}
}
