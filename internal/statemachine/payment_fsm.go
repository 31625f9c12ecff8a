package statemachine

import (
	"context"

	"github.com/looplab/fsm"
	"github.com/sjperalta/fintera-ledger/internal/models"
)

// PaymentFSM wraps a payment with its state machine
type PaymentFSM struct {
	payment *models.Payment
	fsm     *fsm.FSM
}

// NewPaymentFSM creates a new payment state machine
func NewPaymentFSM(payment *models.Payment) *PaymentFSM {
	pfsm := &PaymentFSM{
		payment: payment,
	}

	pfsm.fsm = fsm.NewFSM(
		payment.Status,
		fsm.Events{
			// pending → completed (posted to the ledger)
			{Name: "complete", Src: []string{models.PaymentStatusPending}, Dst: models.PaymentStatusCompleted},

			// pending → failed
			{Name: "fail", Src: []string{models.PaymentStatusPending}, Dst: models.PaymentStatusFailed},

			// completed → reversed (ledger posting reversed)
			{Name: "reverse", Src: []string{models.PaymentStatusCompleted}, Dst: models.PaymentStatusReversed},
		},
		fsm.Callbacks{},
	)

	return pfsm
}

// Complete transitions payment to completed state
func (p *PaymentFSM) Complete(ctx context.Context) error {
	return p.event(ctx, "complete")
}

// Fail transitions payment to failed state
func (p *PaymentFSM) Fail(ctx context.Context) error {
	return p.event(ctx, "fail")
}

// Reverse transitions a completed payment to reversed
func (p *PaymentFSM) Reverse(ctx context.Context) error {
	return p.event(ctx, "reverse")
}

func (p *PaymentFSM) event(ctx context.Context, name string) error {
	if err := fire(ctx, p.fsm, "payment", name); err != nil {
		return err
	}
	p.payment.Status = p.fsm.Current()
	return nil
}

// Current returns the current state
func (p *PaymentFSM) Current() string {
	return p.fsm.Current()
}

// Can checks if a transition is possible
func (p *PaymentFSM) Can(event string) bool {
	return p.fsm.Can(event)
}
