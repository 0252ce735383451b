package queue

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/audit"
	domain "github.com/BruksfildServices01/barber-queue/internal/domain/queue"
)

type TransitionStatus struct {
	engine *Engine
}

func NewTransitionStatus(engine *Engine) *TransitionStatus {
	return &TransitionStatus{engine: engine}
}

// Execute moves an appointment to status. Leaving the waiting line closes the
// gap behind it; a cancellation also notifies the cancelled client.
func (uc *TransitionStatus) Execute(
	ctx context.Context,
	actor Actor,
	key domain.Key,
	appointmentID uint,
	status string,
	reason string,
) (*Result, error) {
	to, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	return uc.engine.mutate(ctx, actor, key, audit.ActionStatusChanged, func(p *domain.Partition, now time.Time) (effects, error) {
		a, err := p.Get(appointmentID)
		if err != nil {
			return effects{}, err
		}
		from, held := a.Status, a.Position()

		changes, err := p.Transition(appointmentID, to, now)
		if err != nil {
			return effects{}, err
		}

		eff := effects{
			appointmentID: appointmentID,
			changes:       changes,
			metadata:      map[string]any{"from": from, "to": to},
		}
		if to == domain.StatusCancelled {
			eff.intents = append(eff.intents, domain.Intent{
				Kind:          domain.IntentCancelled,
				AppointmentID: appointmentID,
				Payload:       domain.IntentPayload{OldPosition: held, Reason: reason},
			})
		}
		return eff, nil
	})
}
