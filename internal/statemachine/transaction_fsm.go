package statemachine

import (
	"context"

	"github.com/looplab/fsm"
	"github.com/sjperalta/fintera-ledger/internal/models"
)

// TransactionFSM wraps a journal transaction with its state machine
type TransactionFSM struct {
	txn *models.Transaction
	fsm *fsm.FSM
}

// NewTransactionFSM creates a new transaction state machine
func NewTransactionFSM(txn *models.Transaction) *TransactionFSM {
	tf := &TransactionFSM{txn: txn}

	tf.fsm = fsm.NewFSM(
		txn.Status,
		fsm.Events{
			// draft → posted
			{Name: "post", Src: []string{models.TransactionStatusDraft}, Dst: models.TransactionStatusPosted},

			// posted → reversed
			{Name: "reverse", Src: []string{models.TransactionStatusPosted}, Dst: models.TransactionStatusReversed},

			// draft → void
			{Name: "void", Src: []string{models.TransactionStatusDraft}, Dst: models.TransactionStatusVoid},
		},
		fsm.Callbacks{},
	)

	return tf
}

// Post transitions the transaction to posted
func (t *TransactionFSM) Post(ctx context.Context) error {
	return t.event(ctx, "post")
}

// Reverse transitions the transaction to reversed
func (t *TransactionFSM) Reverse(ctx context.Context) error {
	return t.event(ctx, "reverse")
}

// Void transitions the transaction to void
func (t *TransactionFSM) Void(ctx context.Context) error {
	return t.event(ctx, "void")
}

func (t *TransactionFSM) event(ctx context.Context, name string) error {
	if err := fire(ctx, t.fsm, "transaction", name); err != nil {
		return err
	}
	t.txn.Status = t.fsm.Current()
	return nil
}

// Current returns the current state
func (t *TransactionFSM) Current() string {
	return t.fsm.Current()
}

// Can checks if a transition is possible
func (t *TransactionFSM) Can(event string) bool {
	return t.fsm.Can(event)
}
