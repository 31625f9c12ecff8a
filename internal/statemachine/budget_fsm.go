package statemachine

import (
	"context"

	"github.com/looplab/fsm"
	"github.com/sjperalta/fintera-ledger/internal/models"
)

// BudgetFSM wraps a budget with its state machine
type BudgetFSM struct {
	budget *models.Budget
	fsm    *fsm.FSM
}

// NewBudgetFSM creates a new budget state machine
func NewBudgetFSM(budget *models.Budget) *BudgetFSM {
	bf := &BudgetFSM{budget: budget}

	bf.fsm = fsm.NewFSM(
		budget.Status,
		fsm.Events{
			{Name: "activate", Src: []string{models.BudgetStatusDraft}, Dst: models.BudgetStatusActive},
			{Name: "close", Src: []string{models.BudgetStatusActive}, Dst: models.BudgetStatusClosed},
		},
		fsm.Callbacks{},
	)

	return bf
}

// Activate transitions the budget to active
func (b *BudgetFSM) Activate(ctx context.Context) error {
	if err := fire(ctx, b.fsm, "budget", "activate"); err != nil {
		return err
	}
	b.budget.Status = b.fsm.Current()
	return nil
}

// Close transitions the budget to closed
func (b *BudgetFSM) Close(ctx context.Context) error {
	if err := fire(ctx, b.fsm, "budget", "close"); err != nil {
		return err
	}
	b.budget.Status = b.fsm.Current()
	return nil
}
