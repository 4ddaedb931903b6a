package statemachine

import (
	"context"
	"fmt"

	"github.com/edusupply/schola-api/internal/models"
	"github.com/looplab/fsm"
)

// LPOFSM wraps a purchase order with its fulfillment state machine.
// Fulfillment only moves forward: pending → partial → completed.
type LPOFSM struct {
	lpo *models.LPO
	fsm *fsm.FSM
}

// NewLPOFSM creates a state machine seeded with the order's current status
func NewLPOFSM(lpo *models.LPO) *LPOFSM {
	l := &LPOFSM{lpo: lpo}

	l.fsm = fsm.NewFSM(
		lpo.Status,
		fsm.Events{
			// first delivery that leaves items open
			{Name: "deliver", Src: []string{models.LPOStatusPending}, Dst: models.LPOStatusPartial},

			// delivery that covers every ordered item
			{Name: "complete", Src: []string{models.LPOStatusPending, models.LPOStatusPartial}, Dst: models.LPOStatusCompleted},
		},
		fsm.Callbacks{},
	)

	return l
}

// Advance moves the order to the status derived from its items. A no-op when
// the derived status equals the current one; an error when the move would go
// backwards (completed orders never reopen).
func (l *LPOFSM) Advance(ctx context.Context, derived string) error {
	if derived == l.lpo.Status {
		return nil
	}

	var event string
	switch derived {
	case models.LPOStatusPartial:
		event = "deliver"
	case models.LPOStatusCompleted:
		event = "complete"
	default:
		return fmt.Errorf("order cannot return to status %q from %q", derived, l.lpo.Status)
	}

	if err := l.fsm.Event(ctx, event); err != nil {
		return fmt.Errorf("invalid fulfillment transition %s → %s: %w", l.lpo.Status, derived, err)
	}

	l.lpo.Status = l.fsm.Current()
	return nil
}
