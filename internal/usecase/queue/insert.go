package queue

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/audit"
	domain "github.com/BruksfildServices01/barber-queue/internal/domain/queue"
)

// InsertIntoQueue accepts a queue appointment into the barber's waiting line.
type InsertIntoQueue struct {
	engine *Engine
}

func NewInsertIntoQueue(engine *Engine) *InsertIntoQueue {
	return &InsertIntoQueue{engine: engine}
}

func (uc *InsertIntoQueue) Execute(
	ctx context.Context,
	actor Actor,
	key domain.Key,
	appointmentID uint,
	urgent bool,
) (*Result, error) {
	return uc.engine.mutate(ctx, actor, key, audit.ActionQueueInserted, func(p *domain.Partition, now time.Time) (effects, error) {
		pos, changes, err := p.Insert(appointmentID, urgent, now)
		if err != nil {
			return effects{}, err
		}
		return effects{
			appointmentID: appointmentID,
			changes:       changes,
			metadata:      map[string]any{"position": pos, "urgent": urgent},
		}, nil
	})
}
