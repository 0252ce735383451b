package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-queue/internal/audit"
	"github.com/BruksfildServices01/barber-queue/internal/changefeed"
	domain "github.com/BruksfildServices01/barber-queue/internal/domain/queue"
	"github.com/BruksfildServices01/barber-queue/internal/partition"
	"github.com/BruksfildServices01/barber-queue/internal/timezone"
)

// Actor is who asked for a mutation; it only feeds the audit trail.
type Actor struct {
	BarbershopID uint
	UserID       uint
}

type Deps struct {
	Repo       domain.Repository
	Locker     partition.Locker
	Feed       changefeed.Feed
	Audit      *audit.Dispatcher
	Logger     *slog.Logger
	TierRank   domain.TierRank
	MaxRetries int
	Now        func() time.Time
}

// Engine runs every queue mutation the same way: lock the barber day, load
// it, apply the change, refresh estimates, persist atomically, then announce.
type Engine struct {
	repo    domain.Repository
	locker  partition.Locker
	feed    changefeed.Feed
	audit   *audit.Dispatcher
	log     *slog.Logger
	rank    domain.TierRank
	retries int
	now     func() time.Time
}

func NewEngine(d Deps) *Engine {
	if d.Locker == nil {
		d.Locker = partition.NewLocalLocker()
	}
	if d.TierRank == nil {
		d.TierRank = domain.DefaultTierRank()
	}
	if d.Now == nil {
		d.Now = timezone.Now
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return &Engine{
		repo:    d.Repo,
		locker:  d.Locker,
		feed:    d.Feed,
		audit:   d.Audit,
		log:     d.Logger,
		rank:    d.TierRank,
		retries: d.MaxRetries,
		now:     d.Now,
	}
}

// Result is what a committed (or no-op) mutation reports back.
type Result struct {
	AppointmentID        uint
	Position             int
	EstimatedWaitMinutes int
	Version              int64
	Changes              []domain.PositionChange
	Intents              []domain.Intent
	Waiting              []domain.Appointment
}

// effects is what a mutation step hands back to the engine.
type effects struct {
	appointmentID uint
	changes       []domain.PositionChange
	intents       []domain.Intent
	metadata      map[string]any
}

type mutation func(p *domain.Partition, now time.Time) (effects, error)

func (e *Engine) mutate(ctx context.Context, actor Actor, key domain.Key, action string, fn mutation) (*Result, error) {
	if _, err := domain.ParseDate(key.Date, nil); err != nil {
		return nil, err
	}

	unlock, err := e.locker.Lock(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", key, err)
	}
	defer unlock()

	sched, err := e.repo.GetDaySchedule(ctx, key.BarberID, key.Date)
	if err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		p, err := e.repo.LoadPartition(ctx, key)
		if err != nil {
			return nil, err
		}

		eff, err := fn(p, e.now())
		if err != nil {
			return nil, err
		}

		if _, err := p.Recompute(sched); err != nil {
			return nil, err
		}
		changes := domain.MergeChanges(eff.changes)
		intents := p.BuildIntents(changes, eff.intents)
		for i := range intents {
			intents[i].ID = uuid.NewString()
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%s left %s inconsistent: %w", action, key, err)
		}

		if !p.HasChanges() {
			return e.result(p, eff.appointmentID, nil, nil), nil
		}

		err = e.repo.SavePartition(ctx, p, intents)
		if errors.Is(err, domain.ErrConcurrentConflict) && attempt < e.retries {
			e.log.Warn("partition conflict, retrying",
				"barber_id", key.BarberID, "date", key.Date, "action", action, "attempt", attempt+1)
			continue
		}
		if err != nil {
			return nil, err
		}

		e.committed(ctx, actor, p, action, eff)
		return e.result(p, eff.appointmentID, changes, intents), nil
	}
}

func (e *Engine) committed(ctx context.Context, actor Actor, p *domain.Partition, action string, eff effects) {
	e.log.Info("queue mutation committed",
		"action", action,
		"barber_id", p.Key.BarberID,
		"date", p.Key.Date,
		"version", p.Version,
		"appointment_id", eff.appointmentID,
	)

	if e.feed != nil {
		ev := changefeed.Event{
			BarberID:  p.Key.BarberID,
			Date:      p.Key.Date,
			Version:   p.Version,
			Operation: action,
			At:        e.now(),
		}
		if err := e.feed.Publish(ctx, ev); err != nil {
			e.log.Warn("change event not published", "barber_id", p.Key.BarberID, "date", p.Key.Date, "err", err)
		}
	}

	ev := audit.Event{
		BarbershopID: actor.BarbershopID,
		Action:       action,
		Entity:       audit.EntityAppointment,
		Metadata:     eff.metadata,
	}
	if actor.UserID != 0 {
		uid := actor.UserID
		ev.UserID = &uid
	}
	if eff.appointmentID != 0 {
		id := eff.appointmentID
		ev.EntityID = &id
	}
	e.audit.Dispatch(ev)
}

func (e *Engine) result(p *domain.Partition, id uint, changes []domain.PositionChange, intents []domain.Intent) *Result {
	res := &Result{
		AppointmentID: id,
		Version:       p.Version,
		Changes:       changes,
		Intents:       intents,
		Waiting:       p.Waiting(),
	}
	if res.Intents == nil {
		res.Intents = []domain.Intent{}
	}
	if id != 0 {
		if a, err := p.Get(id); err == nil {
			res.Position = a.Position()
			res.EstimatedWaitMinutes = a.EstimatedWaitMinutes
		}
	}
	return res
}

// snapshot loads a partition and its business hours without taking the lock.
func (e *Engine) snapshot(ctx context.Context, key domain.Key) (*domain.Partition, domain.DaySchedule, error) {
	sched, err := e.repo.GetDaySchedule(ctx, key.BarberID, key.Date)
	if err != nil {
		return nil, domain.DaySchedule{}, err
	}
	p, err := e.repo.LoadPartition(ctx, key)
	if err != nil {
		return nil, domain.DaySchedule{}, err
	}
	return p, sched, nil
}
