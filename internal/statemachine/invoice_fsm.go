package statemachine

import (
	"context"

	"github.com/looplab/fsm"
	"github.com/shopspring/decimal"
	"github.com/sjperalta/fintera-ledger/internal/models"
)

// InvoiceFSM wraps an invoice with its state machine
type InvoiceFSM struct {
	invoice *models.Invoice
	fsm     *fsm.FSM
}

var invoiceOpen = []string{models.InvoiceStatusSent, models.InvoiceStatusPartiallyPaid, models.InvoiceStatusPaid}

// NewInvoiceFSM creates a new invoice state machine
func NewInvoiceFSM(invoice *models.Invoice) *InvoiceFSM {
	inf := &InvoiceFSM{invoice: invoice}

	inf.fsm = fsm.NewFSM(
		invoice.Status,
		fsm.Events{
			// draft → sent (posted to the ledger)
			{Name: "post", Src: []string{models.InvoiceStatusDraft}, Dst: models.InvoiceStatusSent},

			// draft → void
			{Name: "void", Src: []string{models.InvoiceStatusDraft}, Dst: models.InvoiceStatusVoid},

			// payment activity moves between the open states
			{Name: "settle", Src: invoiceOpen, Dst: models.InvoiceStatusPaid},
			{Name: "settle_partially", Src: invoiceOpen, Dst: models.InvoiceStatusPartiallyPaid},
			{Name: "unsettle", Src: invoiceOpen, Dst: models.InvoiceStatusSent},
		},
		fsm.Callbacks{},
	)

	return inf
}

// Post transitions a draft invoice to sent
func (i *InvoiceFSM) Post(ctx context.Context) error {
	return i.event(ctx, "post")
}

// Void transitions a draft invoice to void
func (i *InvoiceFSM) Void(ctx context.Context) error {
	return i.event(ctx, "void")
}

// ApplyPaid moves the invoice to the status matching paid against its total
func (i *InvoiceFSM) ApplyPaid(ctx context.Context, paid decimal.Decimal) error {
	var name string
	switch {
	case paid.GreaterThanOrEqual(i.invoice.TotalAmount):
		name = "settle"
	case paid.IsPositive():
		name = "settle_partially"
	default:
		name = "unsettle"
	}
	return i.event(ctx, name)
}

func (i *InvoiceFSM) event(ctx context.Context, name string) error {
	if err := fire(ctx, i.fsm, "invoice", name); err != nil {
		return err
	}
	i.invoice.Status = i.fsm.Current()
	return nil
}

// Current returns the current state
func (i *InvoiceFSM) Current() string {
	return i.fsm.Current()
}
