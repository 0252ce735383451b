package queue

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/audit"
	domain "github.com/BruksfildServices01/barber-queue/internal/domain/queue"
)

type MoveToPosition struct {
	engine *Engine
}

func NewMoveToPosition(engine *Engine) *MoveToPosition {
	return &MoveToPosition{engine: engine}
}

func (uc *MoveToPosition) Execute(
	ctx context.Context,
	actor Actor,
	key domain.Key,
	appointmentID uint,
	newPosition int,
) (*Result, error) {
	return uc.engine.mutate(ctx, actor, key, audit.ActionQueueMoved, func(p *domain.Partition, _ time.Time) (effects, error) {
		a, err := p.Get(appointmentID)
		if err != nil {
			return effects{}, err
		}
		from := a.Position()

		changes, err := p.MoveToPosition(appointmentID, newPosition)
		if err != nil {
			return effects{}, err
		}
		return effects{
			appointmentID: appointmentID,
			changes:       changes,
			metadata:      map[string]any{"from": from, "to": newPosition},
		}, nil
	})
}
