package queue

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/audit"
	domain "github.com/BruksfildServices01/barber-queue/internal/domain/queue"
)

// AddScheduledToQueue turns a fixed-time booking into a waiting-line entry,
// typically when the client arrives early or the slot is lost.
type AddScheduledToQueue struct {
	engine *Engine
}

func NewAddScheduledToQueue(engine *Engine) *AddScheduledToQueue {
	return &AddScheduledToQueue{engine: engine}
}

func (uc *AddScheduledToQueue) Execute(
	ctx context.Context,
	actor Actor,
	key domain.Key,
	appointmentID uint,
	urgent bool,
) (*Result, error) {
	return uc.engine.mutate(ctx, actor, key, audit.ActionConvertedToQueue, func(p *domain.Partition, now time.Time) (effects, error) {
		pos, changes, err := p.ConvertToQueue(appointmentID, urgent, now)
		if err != nil {
			return effects{}, err
		}

		// a própria mudança vira converted_to_queue, não position_changed
		var others []domain.PositionChange
		for _, ch := range changes {
			if ch.AppointmentID != appointmentID {
				others = append(others, ch)
			}
		}
		return effects{
			appointmentID: appointmentID,
			changes:       others,
			intents: []domain.Intent{{
				Kind:          domain.IntentConvertedToQueue,
				AppointmentID: appointmentID,
				Payload:       domain.IntentPayload{NewPosition: pos},
			}},
			metadata: map[string]any{"position": pos, "urgent": urgent},
		}, nil
	})
}
