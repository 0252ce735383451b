package queue

import (
	"context"

	domain "github.com/BruksfildServices01/barber-queue/internal/domain/queue"
)

// ComposeTimeline builds the day view from one committed snapshot. It never
// takes the partition lock.
type ComposeTimeline struct {
	engine *Engine
}

func NewComposeTimeline(engine *Engine) *ComposeTimeline {
	return &ComposeTimeline{engine: engine}
}

func (uc *ComposeTimeline) Execute(ctx context.Context, key domain.Key) (domain.Timeline, error) {
	if _, err := domain.ParseDate(key.Date, nil); err != nil {
		return domain.Timeline{}, err
	}
	p, sched, err := uc.engine.snapshot(ctx, key)
	if err != nil {
		return domain.Timeline{}, err
	}
	return domain.Compose(p, sched)
}

type WaitingEntry struct {
	Appointment domain.Appointment
	Projection  domain.Projection
}

type QueueView struct {
	Key     domain.Key
	Version int64
	Serving []domain.Appointment
	Waiting []WaitingEntry
}

// ListQueue returns the waiting line with estimates computed from the current
// order, plus whoever is in the chair.
type ListQueue struct {
	engine *Engine
}

func NewListQueue(engine *Engine) *ListQueue {
	return &ListQueue{engine: engine}
}

func (uc *ListQueue) Execute(ctx context.Context, key domain.Key) (*QueueView, error) {
	if _, err := domain.ParseDate(key.Date, nil); err != nil {
		return nil, err
	}
	p, sched, err := uc.engine.snapshot(ctx, key)
	if err != nil {
		return nil, err
	}
	hours, breaks, err := sched.Bounds(key.Date)
	if err != nil {
		return nil, err
	}

	projections := domain.Estimate(p.Entries(), p.Anchor(hours.Start), breaks)
	waiting := p.Waiting()
	view := &QueueView{
		Key:     key,
		Version: p.Version,
		Serving: p.Serving(),
		Waiting: make([]WaitingEntry, 0, len(waiting)),
	}
	for i, a := range waiting {
		view.Waiting = append(view.Waiting, WaitingEntry{Appointment: a, Projection: projections[i]})
	}
	return view, nil
}
