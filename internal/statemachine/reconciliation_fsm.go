package statemachine

import (
	"context"

	"github.com/looplab/fsm"
	"github.com/sjperalta/fintera-ledger/internal/models"
)

// ReconciliationFSM wraps a reconciliation with its state machine
type ReconciliationFSM struct {
	rec *models.Reconciliation
	fsm *fsm.FSM
}

var reconciliationActive = []string{
	models.ReconciliationStatusPending,
	models.ReconciliationStatusInProgress,
	models.ReconciliationStatusDiscrepancy,
}

// NewReconciliationFSM creates a new reconciliation state machine
func NewReconciliationFSM(rec *models.Reconciliation) *ReconciliationFSM {
	rf := &ReconciliationFSM{rec: rec}

	rf.fsm = fsm.NewFSM(
		rec.Status,
		fsm.Events{
			// matching or unmatching items keeps work in progress
			{Name: "match", Src: reconciliationActive, Dst: models.ReconciliationStatusInProgress},

			// totals agree → completed (terminal)
			{Name: "complete", Src: reconciliationActive, Dst: models.ReconciliationStatusCompleted},

			// totals disagree on completion
			{Name: "flag_discrepancy", Src: reconciliationActive, Dst: models.ReconciliationStatusDiscrepancy},
		},
		fsm.Callbacks{},
	)

	return rf
}

// Match records matching activity
func (r *ReconciliationFSM) Match(ctx context.Context) error {
	return r.event(ctx, "match")
}

// Complete transitions the reconciliation to completed
func (r *ReconciliationFSM) Complete(ctx context.Context) error {
	return r.event(ctx, "complete")
}

// FlagDiscrepancy transitions the reconciliation to discrepancy
func (r *ReconciliationFSM) FlagDiscrepancy(ctx context.Context) error {
	return r.event(ctx, "flag_discrepancy")
}

func (r *ReconciliationFSM) event(ctx context.Context, name string) error {
	if err := fire(ctx, r.fsm, "reconciliation", name); err != nil {
		return err
	}
	r.rec.Status = r.fsm.Current()
	return nil
}

// Current returns the current state
func (r *ReconciliationFSM) Current() string {
	return r.fsm.Current()
}
