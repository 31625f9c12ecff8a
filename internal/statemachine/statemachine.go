// Package statemachine holds the lifecycle tables of the ledger documents.
// Every wrapper keeps the model's Status field in sync with its FSM.
package statemachine

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"
)

// ErrTransition is returned when an event is not allowed from the current state
var ErrTransition = errors.New("invalid state transition")

// fire runs event on f and reports disallowed transitions as ErrTransition.
func fire(ctx context.Context, f *fsm.FSM, entity, event string) error {
	if err := f.Event(ctx, event); err != nil {
		var noTransition fsm.NoTransitionError
		if errors.As(err, &noTransition) {
			return nil
		}
		return fmt.Errorf("%w: cannot %s %s in state %s", ErrTransition, event, entity, f.Current())
	}
	return nil
}
