package queue

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/audit"
	domain "github.com/BruksfildServices01/barber-queue/internal/domain/queue"
)

// ChangePriority records a new tier. With reorder set, the waiting line is
// re-sorted in the same commit.
type ChangePriority struct {
	engine *Engine
}

func NewChangePriority(engine *Engine) *ChangePriority {
	return &ChangePriority{engine: engine}
}

func (uc *ChangePriority) Execute(
	ctx context.Context,
	actor Actor,
	key domain.Key,
	appointmentID uint,
	priority string,
	reorder bool,
) (*Result, error) {
	tier, err := domain.ParseTier(priority)
	if err != nil {
		return nil, err
	}

	return uc.engine.mutate(ctx, actor, key, audit.ActionPriorityChanged, func(p *domain.Partition, _ time.Time) (effects, error) {
		old, err := p.ChangePriority(appointmentID, tier)
		if err != nil {
			return effects{}, err
		}

		eff := effects{
			appointmentID: appointmentID,
			metadata:      map[string]any{"from": old, "to": tier, "reorder": reorder},
		}
		if old != tier {
			eff.intents = append(eff.intents, domain.Intent{
				Kind:          domain.IntentPriorityChanged,
				AppointmentID: appointmentID,
				Payload:       domain.IntentPayload{OldPriority: old, NewPriority: tier},
			})
		}
		if reorder {
			eff.changes = p.Reorder(uc.engine.rank)
		}
		return eff, nil
	})
}
