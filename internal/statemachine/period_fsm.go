package statemachine

import (
	"context"
	"time"

	"github.com/looplab/fsm"
	"github.com/sjperalta/fintera-ledger/internal/models"
)

// PeriodFSM wraps a fiscal period with its state machine
type PeriodFSM struct {
	period *models.FiscalPeriod
	fsm    *fsm.FSM
}

// NewPeriodFSM creates a new fiscal period state machine
func NewPeriodFSM(period *models.FiscalPeriod) *PeriodFSM {
	pf := &PeriodFSM{period: period}

	pf.fsm = fsm.NewFSM(
		period.Status,
		fsm.Events{
			{Name: "close", Src: []string{models.PeriodStatusOpen}, Dst: models.PeriodStatusClosed},
			{Name: "reopen", Src: []string{models.PeriodStatusClosed}, Dst: models.PeriodStatusOpen},
			{Name: "lock", Src: []string{models.PeriodStatusOpen, models.PeriodStatusClosed}, Dst: models.PeriodStatusLocked},

			// locked periods only reopen through an audited admin override
			{Name: "override_reopen", Src: []string{models.PeriodStatusLocked}, Dst: models.PeriodStatusOpen},
		},
		fsm.Callbacks{
			"enter_" + models.PeriodStatusClosed: func(_ context.Context, _ *fsm.Event) {
				now := time.Now()
				pf.period.ClosedAt = &now
			},
			"enter_" + models.PeriodStatusLocked: func(_ context.Context, _ *fsm.Event) {
				now := time.Now()
				pf.period.LockedAt = &now
			},
			"enter_" + models.PeriodStatusOpen: func(_ context.Context, _ *fsm.Event) {
				pf.period.ClosedAt = nil
				pf.period.LockedAt = nil
			},
		},
	)

	return pf
}

// Close transitions the period to closed
func (p *PeriodFSM) Close(ctx context.Context) error {
	return p.event(ctx, "close")
}

// Reopen transitions a closed period back to open
func (p *PeriodFSM) Reopen(ctx context.Context) error {
	return p.event(ctx, "reopen")
}

// Lock transitions the period to locked
func (p *PeriodFSM) Lock(ctx context.Context) error {
	return p.event(ctx, "lock")
}

// OverrideReopen transitions a locked period back to open
func (p *PeriodFSM) OverrideReopen(ctx context.Context) error {
	return p.event(ctx, "override_reopen")
}

func (p *PeriodFSM) event(ctx context.Context, name string) error {
	if err := fire(ctx, p.fsm, "fiscal period", name); err != nil {
		return err
	}
	p.period.Status = p.fsm.Current()
	return nil
}

// Current returns the current state
func (p *PeriodFSM) Current() string {
	return p.fsm.Current()
}

// Can checks if a transition is possible
func (p *PeriodFSM) Can(event string) bool {
	return p.fsm.Can(event)
}
