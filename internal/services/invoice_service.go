package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sjperalta/fintera-ledger/internal/models"
	"github.com/sjperalta/fintera-ledger/internal/repository"
	"github.com/sjperalta/fintera-ledger/internal/statemachine"
	"github.com/sjperalta/fintera-ledger/pkg/amount"
	"github.com/sjperalta/fintera-ledger/pkg/logger"
	"gorm.io/gorm"
)

// DefaultPaymentTerms is used when an invoice has no due date
const DefaultPaymentTerms = 30 * 24 * time.Hour

var hundred = decimal.NewFromInt(100)

// InvoiceLineInput is one billed line
type InvoiceLineInput struct {
	Description      string
	Quantity         decimal.Decimal
	UnitPrice        decimal.Decimal
	TaxCodeID        *uint
	RevenueAccountID uint
}

// CreateInvoiceInput describes a draft invoice
type CreateInvoiceInput struct {
	CustomerName        string
	InvoiceDate         time.Time
	DueDate             time.Time
	ReceivableAccountID uint
	Notes               string
	Lines               []InvoiceLineInput
}

type InvoiceService struct {
	repos *repository.Repositories
}

func NewInvoiceService(repos *repository.Repositories) *InvoiceService {
	return &InvoiceService{repos: repos}
}

func (s *InvoiceService) Get(ctx context.Context, id uint) (*models.Invoice, error) {
	invoice, err := s.repos.Invoice.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "invoice", id)
	}
	return invoice, nil
}

func (s *InvoiceService) List(ctx context.Context, query *repository.ListQuery) ([]models.Invoice, int64, error) {
	return s.repos.Invoice.List(ctx, query)
}

// Create stores a draft invoice with totals computed from lines and tax codes
func (s *InvoiceService) Create(ctx context.Context, input CreateInvoiceInput, actor Actor) (*models.Invoice, error) {
	customer := strings.TrimSpace(input.CustomerName)
	switch {
	case customer == "":
		return nil, invalid("customer_name is required")
	case input.InvoiceDate.IsZero():
		return nil, invalid("invoice_date is required")
	case input.ReceivableAccountID == 0:
		return nil, invalid("receivable_account_id is required")
	case len(input.Lines) == 0:
		return nil, invalid("at least one line item is required")
	}

	invoiceDate := models.Date(input.InvoiceDate)
	dueDate := models.Date(invoiceDate.Add(DefaultPaymentTerms))
	if !input.DueDate.IsZero() {
		dueDate = models.Date(input.DueDate)
	}
	if dueDate.Before(invoiceDate) {
		return nil, invalid("due_date is before invoice_date")
	}

	var invoice *models.Invoice
	err := s.repos.WithTx(ctx, func(tx *repository.Repositories) error {
		if _, err := requireAccount(ctx, tx, input.ReceivableAccountID, models.AccountTypeAsset); err != nil {
			return err
		}

		invoice = &models.Invoice{
			GUID:                uuid.NewString(),
			CustomerName:        customer,
			InvoiceDate:         invoiceDate,
			DueDate:             dueDate,
			ReceivableAccountID: input.ReceivableAccountID,
			Status:              models.InvoiceStatusDraft,
			Notes:               strings.TrimSpace(input.Notes),
			Subtotal:            decimal.Zero,
			TaxAmount:           decimal.Zero,
			PaidAmount:          decimal.Zero,
		}
		// Placeholder until the id is known
		invoice.InvoiceNumber = invoice.GUID

		for i, line := range input.Lines {
			item, err := buildLineItem(ctx, tx, i+1, line, invoiceDate)
			if err != nil {
				return err
			}
			invoice.LineItems = append(invoice.LineItems, *item)
			invoice.Subtotal = invoice.Subtotal.Add(item.Amount)
			invoice.TaxAmount = invoice.TaxAmount.Add(item.TaxAmount)
		}
		invoice.TotalAmount = invoice.Subtotal.Add(invoice.TaxAmount)
		invoice.BalanceAmount = invoice.TotalAmount
		if !invoice.TotalAmount.IsPositive() {
			return invalid("invoice total must be positive")
		}

		if err := tx.Invoice.Create(ctx, invoice); err != nil {
			return err
		}
		invoice.InvoiceNumber = models.FormatInvoiceNumber(invoice.ID)
		if err := tx.Invoice.SetNumber(ctx, invoice.ID, invoice.InvoiceNumber); err != nil {
			return err
		}
		return audit(ctx, tx, actor, models.AuditActionCreate, "invoice", invoice.ID,
			"Created invoice %s for %s, total %s", invoice.InvoiceNumber, customer, amount.String(invoice.TotalAmount))
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func buildLineItem(ctx context.Context, tx *repository.Repositories, number int, line InvoiceLineInput, date time.Time) (*models.InvoiceLineItem, error) {
	if strings.TrimSpace(line.Description) == "" {
		return nil, invalid("line %d: description is required", number)
	}
	if !line.Quantity.IsPositive() {
		return nil, invalid("line %d: quantity must be positive", number)
	}
	if !line.Quantity.Equal(line.Quantity.Round(4)) {
		return nil, invalid("line %d: quantity supports at most 4 decimal places", number)
	}
	if line.UnitPrice.IsNegative() {
		return nil, invalid("line %d: unit_price cannot be negative", number)
	}
	if err := amount.CheckPrecision(line.UnitPrice); err != nil {
		return nil, invalid("line %d: unit_price: %v", number, err)
	}
	if _, err := requireAccount(ctx, tx, line.RevenueAccountID, models.AccountTypeRevenue); err != nil {
		return nil, err
	}

	item := &models.InvoiceLineItem{
		LineNumber:       number,
		Description:      strings.TrimSpace(line.Description),
		Quantity:         line.Quantity,
		UnitPrice:        line.UnitPrice,
		Amount:           amount.Round(line.Quantity.Mul(line.UnitPrice)),
		TaxAmount:        decimal.Zero,
		RevenueAccountID: line.RevenueAccountID,
	}

	if line.TaxCodeID != nil {
		code, err := tx.TaxCode.FindByID(ctx, *line.TaxCodeID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid("line %d: tax code %d does not exist", number, *line.TaxCodeID)
		}
		if err != nil {
			return nil, err
		}
		if code.Type != models.TaxTypeSales || !code.EffectiveOn(date) {
			return nil, invalid("line %d: tax code %s does not apply on %s", number, code.Code, models.FormatDate(date))
		}
		taxID := code.ID
		item.TaxCodeID = &taxID
		item.TaxAmount = amount.Round(item.Amount.Mul(code.Rate).Div(hundred))
	}
	return item, nil
}

// requireAccount loads an active account of the given type
func requireAccount(ctx context.Context, tx *repository.Repositories, id uint, typ models.AccountType) (*models.Account, error) {
	if id == 0 {
		return nil, invalid("%s account is required", typ)
	}
	account, err := tx.Account.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalid("account %d does not exist", id)
	}
	if err != nil {
		return nil, err
	}
	if account.Type != typ {
		return nil, invalid("account %s must be a %s account", account.Code, typ)
	}
	if !account.IsActive {
		return nil, invalid("account %s is inactive", account.Code)
	}
	return account, nil
}

// Post sends the invoice and records it on the ledger in one transaction
func (s *InvoiceService) Post(ctx context.Context, id uint, actor Actor) (*models.Invoice, error) {
	var invoice *models.Invoice
	err := s.repos.WithTx(ctx, func(tx *repository.Repositories) error {
		var err error
		invoice, err = tx.Invoice.FindByID(ctx, id)
		if err != nil {
			return translate(err, "invoice", id)
		}
		if err := statemachine.NewInvoiceFSM(invoice).Post(ctx); err != nil {
			return translate(err, "invoice", id)
		}

		entries, err := invoiceEntries(ctx, tx, invoice)
		if err != nil {
			return err
		}
		invoiceID := invoice.ID
		draft, err := createDraftTx(ctx, tx, CreateTransactionInput{
			Description:   "Invoice " + invoice.InvoiceNumber + " - " + invoice.CustomerName,
			Date:          invoice.InvoiceDate,
			Entries:       entries,
			ReferenceType: models.ReferenceInvoice,
			ReferenceID:   &invoiceID,
		}, actor)
		if err != nil {
			return err
		}
		if _, err := postTx(ctx, tx, draft.ID, actor); err != nil {
			return err
		}

		invoice.TransactionID = &draft.ID
		if err := tx.Invoice.Update(ctx, invoice); err != nil {
			return err
		}
		return audit(ctx, tx, actor, models.AuditActionPost, "invoice", invoice.ID,
			"Posted invoice %s as %s", invoice.InvoiceNumber, draft.Number)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Invoice posted", "invoice_id", invoice.ID, "number", invoice.InvoiceNumber)
	return invoice, nil
}

// invoiceEntries debits the receivable for the total and credits revenue and tax accounts
func invoiceEntries(ctx context.Context, tx *repository.Repositories, invoice *models.Invoice) ([]EntryInput, error) {
	entries := []EntryInput{{
		AccountID:    invoice.ReceivableAccountID,
		DebitAmount:  invoice.TotalAmount,
		CreditAmount: decimal.Zero,
		Description:  "Receivable " + invoice.InvoiceNumber,
	}}

	var revenueOrder []uint
	revenue := make(map[uint]decimal.Decimal)
	var taxOrder []uint
	tax := make(map[uint]decimal.Decimal)
	for _, line := range invoice.LineItems {
		if _, ok := revenue[line.RevenueAccountID]; !ok {
			revenueOrder = append(revenueOrder, line.RevenueAccountID)
		}
		revenue[line.RevenueAccountID] = revenue[line.RevenueAccountID].Add(line.Amount)
		if line.TaxCodeID != nil && line.TaxAmount.IsPositive() {
			if _, ok := tax[*line.TaxCodeID]; !ok {
				taxOrder = append(taxOrder, *line.TaxCodeID)
			}
			tax[*line.TaxCodeID] = tax[*line.TaxCodeID].Add(line.TaxAmount)
		}
	}

	for _, accountID := range revenueOrder {
		if v := revenue[accountID]; v.IsPositive() {
			entries = append(entries, EntryInput{AccountID: accountID, DebitAmount: decimal.Zero, CreditAmount: v, Description: "Revenue " + invoice.InvoiceNumber})
		}
	}

	codes, err := tx.TaxCode.FindByIDs(ctx, taxOrder)
	if err != nil {
		return nil, err
	}
	taxAccounts := make(map[uint]models.TaxCode, len(codes))
	for _, c := range codes {
		taxAccounts[c.ID] = c
	}
	for _, codeID := range taxOrder {
		code, ok := taxAccounts[codeID]
		if !ok {
			return nil, invalid("tax code %d no longer exists", codeID)
		}
		entries = append(entries, EntryInput{AccountID: code.TaxAccountID, DebitAmount: decimal.Zero, CreditAmount: tax[codeID], Description: "Tax " + code.Code + " " + invoice.InvoiceNumber})
	}
	return entries, nil
}

// Void cancels a draft invoice
func (s *InvoiceService) Void(ctx context.Context, id uint, actor Actor) (*models.Invoice, error) {
	var invoice *models.Invoice
	err := s.repos.WithTx(ctx, func(tx *repository.Repositories) error {
		var err error
		invoice, err = tx.Invoice.FindByID(ctx, id)
		if err != nil {
			return translate(err, "invoice", id)
		}
		if err := statemachine.NewInvoiceFSM(invoice).Void(ctx); err != nil {
			return translate(err, "invoice", id)
		}
		if err := tx.Invoice.Update(ctx, invoice); err != nil {
			return err
		}
		return audit(ctx, tx, actor, models.AuditActionVoid, "invoice", invoice.ID, "Voided invoice %s", invoice.InvoiceNumber)
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// recomputeInvoice derives paid, balance and status from completed payments
func recomputeInvoice(ctx context.Context, tx *repository.Repositories, invoiceID uint) (*models.Invoice, error) {
	invoice, err := tx.Invoice.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, translate(err, "invoice", invoiceID)
	}
	paid, err := tx.Payment.SumCompletedForInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	invoice.PaidAmount = paid
	invoice.BalanceAmount = invoice.TotalAmount.Sub(paid)
	if err := statemachine.NewInvoiceFSM(invoice).ApplyPaid(ctx, paid); err != nil {
		return nil, translate(err, "invoice", invoiceID)
	}
	if err := tx.Invoice.Update(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}
