package queue

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/audit"
	domain "github.com/BruksfildServices01/barber-queue/internal/domain/queue"
)

// ReorderQueue re-sorts the waiting line by tier rank, keeping arrival order
// inside each tier.
type ReorderQueue struct {
	engine *Engine
}

func NewReorderQueue(engine *Engine) *ReorderQueue {
	return &ReorderQueue{engine: engine}
}

func (uc *ReorderQueue) Execute(ctx context.Context, actor Actor, key domain.Key) (*Result, error) {
	return uc.engine.mutate(ctx, actor, key, audit.ActionQueueReordered, func(p *domain.Partition, _ time.Time) (effects, error) {
		changes := p.Reorder(uc.engine.rank)
		return effects{
			changes:  changes,
			metadata: map[string]any{"moved": len(changes)},
		}, nil
	})
}
