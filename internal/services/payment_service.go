package services

import (
	"context"
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

// CreatePaymentInput describes money received from a customer
type CreatePaymentInput struct {
	CustomerName        string
	PaymentDate         time.Time
	Amount              decimal.Decimal
	PaymentMethod       string
	Reference           string
	InvoiceID           *uint
	CashAccountID       uint
	ReceivableAccountID uint
}

type PaymentService struct {
	repos *repository.Repositories
}

func NewPaymentService(repos *repository.Repositories) *PaymentService {
	return &PaymentService{repos: repos}
}

func (s *PaymentService) Get(ctx context.Context, id uint) (*models.Payment, error) {
	payment, err := s.repos.Payment.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "payment", id)
	}
	return payment, nil
}

func (s *PaymentService) ListByInvoice(ctx context.Context, invoiceID uint) ([]models.Payment, error) {
	return s.repos.Payment.ListByInvoice(ctx, invoiceID)
}

func (s *PaymentService) List(ctx context.Context, query *repository.ListQuery) ([]models.Payment, int64, error) {
	return s.repos.Payment.List(ctx, query)
}

// Create records a pending payment. Nothing reaches the ledger until Complete.
func (s *PaymentService) Create(ctx context.Context, input CreatePaymentInput, actor Actor) (*models.Payment, error) {
	if !input.Amount.IsPositive() {
		return nil, invalid("amount must be positive")
	}
	if err := amount.CheckPrecision(input.Amount); err != nil {
		return nil, invalid("amount: %v", err)
	}
	method := strings.TrimSpace(input.PaymentMethod)
	if method == "" {
		method = models.PaymentMethodBankTransfer
	}
	if !models.ValidPaymentMethod(method) {
		return nil, invalid("unknown payment_method %q", method)
	}
	date := models.Today()
	if !input.PaymentDate.IsZero() {
		date = models.Date(input.PaymentDate)
	}

	payment := &models.Payment{
		GUID:                uuid.NewString(),
		CustomerName:        strings.TrimSpace(input.CustomerName),
		PaymentDate:         date,
		Amount:              input.Amount,
		PaymentMethod:       method,
		Reference:           strings.TrimSpace(input.Reference),
		Status:              models.PaymentStatusPending,
		InvoiceID:           input.InvoiceID,
		CashAccountID:       input.CashAccountID,
		ReceivableAccountID: input.ReceivableAccountID,
	}
	payment.PaymentNumber = payment.GUID

	err := s.repos.WithTx(ctx, func(tx *repository.Repositories) error {
		if _, err := requireAccount(ctx, tx, input.CashAccountID, models.AccountTypeAsset); err != nil {
			return err
		}

		if input.InvoiceID != nil {
			invoice, err := tx.Invoice.FindByID(ctx, *input.InvoiceID)
			if err != nil {
				return translate(err, "invoice", *input.InvoiceID)
			}
			if !invoice.AcceptsPayments() {
				return wrap(ErrInvalidTransition, "invoice %s is %s and does not accept payments", invoice.InvoiceNumber, invoice.Status)
			}
			if input.Amount.GreaterThan(invoice.BalanceAmount) {
				return wrap(ErrOverpayment, "payment %s exceeds balance %s of %s",
					amount.String(input.Amount), amount.String(invoice.BalanceAmount), invoice.InvoiceNumber)
			}
			if payment.ReceivableAccountID == 0 {
				payment.ReceivableAccountID = invoice.ReceivableAccountID
			}
			if payment.CustomerName == "" {
				payment.CustomerName = invoice.CustomerName
			}
		}
		if payment.CustomerName == "" {
			return invalid("customer_name is required")
		}
		if _, err := requireAccount(ctx, tx, payment.ReceivableAccountID, models.AccountTypeAsset); err != nil {
			return err
		}

		if err := tx.Payment.Create(ctx, payment); err != nil {
			return err
		}
		payment.PaymentNumber = models.FormatPaymentNumber(payment.ID)
		if err := tx.Payment.SetNumber(ctx, payment.ID, payment.PaymentNumber); err != nil {
			return err
		}
		return audit(ctx, tx, actor, models.AuditActionCreate, "payment", payment.ID,
			"Recorded payment %s of %s from %s", payment.PaymentNumber, amount.String(payment.Amount), payment.CustomerName)
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// Complete posts the receipt to the ledger and settles the linked invoice
func (s *PaymentService) Complete(ctx context.Context, id uint, actor Actor) (*models.Payment, error) {
	var payment *models.Payment
	err := s.repos.WithTx(ctx, func(tx *repository.Repositories) error {
		var err error
		payment, err = tx.Payment.FindByID(ctx, id)
		if err != nil {
			return translate(err, "payment", id)
		}
		if err := statemachine.NewPaymentFSM(payment).Complete(ctx); err != nil {
			return translate(err, "payment", id)
		}

		if payment.InvoiceID != nil {
			invoice, err := tx.Invoice.FindByID(ctx, *payment.InvoiceID)
			if err != nil {
				return translate(err, "invoice", *payment.InvoiceID)
			}
			if !invoice.AcceptsPayments() {
				return wrap(ErrInvalidTransition, "invoice %s is %s and does not accept payments", invoice.InvoiceNumber, invoice.Status)
			}
			if payment.Amount.GreaterThan(invoice.BalanceAmount) {
				return wrap(ErrOverpayment, "payment %s exceeds balance %s of %s",
					amount.String(payment.Amount), amount.String(invoice.BalanceAmount), invoice.InvoiceNumber)
			}
		}

		paymentID := payment.ID
		draft, err := createDraftTx(ctx, tx, CreateTransactionInput{
			Description: "Payment " + payment.PaymentNumber + " - " + payment.CustomerName,
			Date:        payment.PaymentDate,
			Entries: []EntryInput{
				{AccountID: payment.CashAccountID, DebitAmount: payment.Amount, CreditAmount: decimal.Zero, Description: payment.PaymentMethod + " " + payment.Reference},
				{AccountID: payment.ReceivableAccountID, DebitAmount: decimal.Zero, CreditAmount: payment.Amount, Description: "Receipt " + payment.PaymentNumber},
			},
			ReferenceType: models.ReferencePayment,
			ReferenceID:   &paymentID,
		}, actor)
		if err != nil {
			return err
		}
		if _, err := postTx(ctx, tx, draft.ID, actor); err != nil {
			return err
		}

		now := time.Now()
		payment.TransactionID = &draft.ID
		payment.CompletedAt = &now
		if err := tx.Payment.Update(ctx, payment); err != nil {
			return err
		}
		if payment.InvoiceID != nil {
			if _, err := recomputeInvoice(ctx, tx, *payment.InvoiceID); err != nil {
				return err
			}
		}
		return audit(ctx, tx, actor, models.AuditActionComplete, "payment", payment.ID,
			"Completed payment %s as %s", payment.PaymentNumber, draft.Number)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Payment completed", "payment_id", payment.ID, "amount", amount.String(payment.Amount))
	return payment, nil
}

// Fail marks a pending payment as failed
func (s *PaymentService) Fail(ctx context.Context, id uint, reason string, actor Actor) (*models.Payment, error) {
	var payment *models.Payment
	err := s.repos.WithTx(ctx, func(tx *repository.Repositories) error {
		var err error
		payment, err = tx.Payment.FindByID(ctx, id)
		if err != nil {
			return translate(err, "payment", id)
		}
		if err := statemachine.NewPaymentFSM(payment).Fail(ctx); err != nil {
			return translate(err, "payment", id)
		}
		payment.FailureReason = strings.TrimSpace(reason)
		if err := tx.Payment.Update(ctx, payment); err != nil {
			return err
		}
		return audit(ctx, tx, actor, models.AuditActionFail, "payment", payment.ID,
			"Payment %s failed: %s", payment.PaymentNumber, payment.FailureReason)
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// Reverse undoes a completed payment on the ledger and reopens its invoice balance
func (s *PaymentService) Reverse(ctx context.Context, id uint, actor Actor) (*models.Payment, error) {
	var payment *models.Payment
	err := s.repos.WithTx(ctx, func(tx *repository.Repositories) error {
		var err error
		payment, err = tx.Payment.FindByID(ctx, id)
		if err != nil {
			return translate(err, "payment", id)
		}
		if err := statemachine.NewPaymentFSM(payment).Reverse(ctx); err != nil {
			return translate(err, "payment", id)
		}

		if payment.TransactionID != nil {
			if _, err := reverseTx(ctx, tx, *payment.TransactionID, actor); err != nil {
				return err
			}
		}
		if err := tx.Payment.Update(ctx, payment); err != nil {
			return err
		}
		if payment.InvoiceID != nil {
			if _, err := recomputeInvoice(ctx, tx, *payment.InvoiceID); err != nil {
				return err
			}
		}
		return audit(ctx, tx, actor, models.AuditActionReverse, "payment", payment.ID, "Reversed payment %s", payment.PaymentNumber)
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}
