package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/fintera-ledger/pkg/amount"
)

// Invoice status constants
const (
	InvoiceStatusDraft         = "draft"
	InvoiceStatusSent          = "sent"
	InvoiceStatusPartiallyPaid = "partially_paid"
	InvoiceStatusPaid          = "paid"
	InvoiceStatusVoid          = "void"
)

// Invoice is a receivable billed to a customer
type Invoice struct {
	ID                  uint              `gorm:"primaryKey" json:"id"`
	GUID                string            `gorm:"size:36;not null;uniqueIndex" json:"guid"`
	InvoiceNumber       string            `gorm:"size:30;not null;uniqueIndex" json:"invoice_number"`
	CustomerName        string            `gorm:"size:150;not null;index" json:"customer_name"`
	InvoiceDate         time.Time         `gorm:"type:date;not null;index" json:"invoice_date"`
	DueDate             time.Time         `gorm:"type:date;not null;index" json:"due_date"`
	ReceivableAccountID uint              `gorm:"not null" json:"receivable_account_id"`
	Subtotal            decimal.Decimal   `gorm:"type:numeric(18,2);not null" json:"subtotal"`
	TaxAmount           decimal.Decimal   `gorm:"type:numeric(18,2);not null" json:"tax_amount"`
	TotalAmount         decimal.Decimal   `gorm:"type:numeric(18,2);not null" json:"total_amount"`
	PaidAmount          decimal.Decimal   `gorm:"type:numeric(18,2);not null;default:0" json:"paid_amount"`
	BalanceAmount       decimal.Decimal   `gorm:"type:numeric(18,2);not null" json:"balance_amount"`
	Status              string            `gorm:"size:20;not null;index" json:"status"`
	Notes               string            `gorm:"type:text" json:"notes"`
	TransactionID       *uint             `gorm:"index" json:"transaction_id"`
	CreatedAt           time.Time         `gorm:"index" json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
	LineItems           []InvoiceLineItem `gorm:"foreignKey:InvoiceID" json:"line_items"`
}

// TableName specifies the table name for Invoice
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceLineItem is a billed line; amount and tax are computed on create
type InvoiceLineItem struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	InvoiceID        uint            `gorm:"not null;index" json:"invoice_id"`
	LineNumber       int             `gorm:"not null" json:"line_number"`
	Description      string          `gorm:"size:255;not null" json:"description"`
	Quantity         decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"quantity"`
	UnitPrice        decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"unit_price"`
	Amount           decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	TaxCodeID        *uint           `json:"tax_code_id"`
	TaxAmount        decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"tax_amount"`
	RevenueAccountID uint            `gorm:"not null" json:"revenue_account_id"`
}

// TableName specifies the table name for InvoiceLineItem
func (InvoiceLineItem) TableName() string {
	return "invoice_line_items"
}

// FormatInvoiceNumber renders the public invoice number for an id
func FormatInvoiceNumber(id uint) string {
	return fmt.Sprintf("INV-%06d", id)
}

// MayPost returns true if the invoice can be sent and posted to the ledger
func (i *Invoice) MayPost() bool {
	return i.Status == InvoiceStatusDraft
}

// MayVoid returns true if the invoice can be voided
func (i *Invoice) MayVoid() bool {
	return i.Status == InvoiceStatusDraft
}

// AcceptsPayments returns true once the invoice is on the ledger and not settled
func (i *Invoice) AcceptsPayments() bool {
	return i.Status == InvoiceStatusSent || i.Status == InvoiceStatusPartiallyPaid
}

// IsOverdue returns true if an open invoice is past its due date
func (i *Invoice) IsOverdue() bool {
	return i.AcceptsPayments() && Date(i.DueDate).Before(Today())
}

// InvoiceLineItemResponse is the JSON response format for a line item
type InvoiceLineItemResponse struct {
	ID               uint   `json:"id"`
	LineNumber       int    `json:"line_number"`
	Description      string `json:"description"`
	Quantity         string `json:"quantity"`
	UnitPrice        string `json:"unit_price"`
	Amount           string `json:"amount"`
	TaxCodeID        *uint  `json:"tax_code_id"`
	TaxAmount        string `json:"tax_amount"`
	RevenueAccountID uint   `json:"revenue_account_id"`
}

// InvoiceResponse is the JSON response format
type InvoiceResponse struct {
	ID                  uint                      `json:"id"`
	GUID                string                    `json:"guid"`
	InvoiceNumber       string                    `json:"invoice_number"`
	CustomerName        string                    `json:"customer_name"`
	InvoiceDate         string                    `json:"invoice_date"`
	DueDate             string                    `json:"due_date"`
	ReceivableAccountID uint                      `json:"receivable_account_id"`
	Subtotal            string                    `json:"subtotal"`
	TaxAmount           string                    `json:"tax_amount"`
	TotalAmount         string                    `json:"total_amount"`
	PaidAmount          string                    `json:"paid_amount"`
	BalanceAmount       string                    `json:"balance_amount"`
	Status              string                    `json:"status"`
	IsOverdue           bool                      `json:"is_overdue"`
	Notes               string                    `json:"notes"`
	TransactionID       *uint                     `json:"transaction_id"`
	CreatedAt           time.Time                 `json:"created_at"`
	LineItems           []InvoiceLineItemResponse `json:"line_items"`
}

// ToResponse converts Invoice to InvoiceResponse
func (i *Invoice) ToResponse() InvoiceResponse {
	lines := make([]InvoiceLineItemResponse, 0, len(i.LineItems))
	for _, l := range i.LineItems {
		lines = append(lines, InvoiceLineItemResponse{
			ID:               l.ID,
			LineNumber:       l.LineNumber,
			Description:      l.Description,
			Quantity:         l.Quantity.String(),
			UnitPrice:        amount.String(l.UnitPrice),
			Amount:           amount.String(l.Amount),
			TaxCodeID:        l.TaxCodeID,
			TaxAmount:        amount.String(l.TaxAmount),
			RevenueAccountID: l.RevenueAccountID,
		})
	}

	return InvoiceResponse{
		ID:                  i.ID,
		GUID:                i.GUID,
		InvoiceNumber:       i.InvoiceNumber,
		CustomerName:        i.CustomerName,
		InvoiceDate:         FormatDate(i.InvoiceDate),
		DueDate:             FormatDate(i.DueDate),
		ReceivableAccountID: i.ReceivableAccountID,
		Subtotal:            amount.String(i.Subtotal),
		TaxAmount:           amount.String(i.TaxAmount),
		TotalAmount:         amount.String(i.TotalAmount),
		PaidAmount:          amount.String(i.PaidAmount),
		BalanceAmount:       amount.String(i.BalanceAmount),
		Status:              i.Status,
		IsOverdue:           i.IsOverdue(),
		Notes:               i.Notes,
		TransactionID:       i.TransactionID,
		CreatedAt:           i.CreatedAt,
		LineItems:           lines,
	}
}
