package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barber-queue/internal/domain/queue"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

type QueueGormRepository struct {
	db       *gorm.DB
	defaults queue.DaySchedule
}

var _ queue.Repository = (*QueueGormRepository)(nil)

// NewQueueGormRepository uses defaults for barbers without working_hours rows.
func NewQueueGormRepository(db *gorm.DB, defaults queue.DaySchedule) *QueueGormRepository {
	return &QueueGormRepository{db: db, defaults: defaults}
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *QueueGormRepository) FindAppointment(ctx context.Context, id uint) (*queue.Appointment, error) {
	var row models.Appointment
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("appointment %d: %w", id, queue.ErrNotFound)
		}
		return nil, err
	}
	a, err := toDomain(row)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// --------------------------------------------------
// Partition
// --------------------------------------------------

// LoadPartition reads the partition version before its rows, inside one
// snapshot. A writer committing in between leaves rows newer than the version,
// which the next save rejects.
func (r *QueueGormRepository) LoadPartition(ctx context.Context, key queue.Key) (*queue.Partition, error) {
	var (
		version int64
		rows    []models.Appointment
	)

	err := r.snapshot(ctx, func(tx *gorm.DB) error {
		var part models.QueuePartition
		err := tx.Where("barber_id = ? AND date = ?", key.BarberID, key.Date).Take(&part).Error
		switch {
		case err == nil:
			version = part.Version
		case errors.Is(err, gorm.ErrRecordNotFound):
			version = 0
		default:
			return err
		}

		return tx.
			Where("barber_id = ? AND date = ?", key.BarberID, key.Date).
			Order("id ASC").
			Find(&rows).Error
	})
	if err != nil {
		return nil, classify(err)
	}

	apps := make([]queue.Appointment, 0, len(rows))
	for _, row := range rows {
		a, err := toDomain(row)
		if err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return queue.NewPartition(key, version, apps)
}

// SavePartition bumps the partition version, writes every dirty appointment
// guarded by its record version and stores the intents, all in one transaction.
func (r *QueueGormRepository) SavePartition(ctx context.Context, p *queue.Partition, intents []queue.Intent) error {
	rows, err := intentRows(intents)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := bumpPartition(tx, p.Key, p.Version); err != nil {
			return err
		}

		for _, a := range p.Dirty() {
			res := tx.Model(&models.Appointment{}).
				Where("id = ? AND version = ?", a.ID, a.Version).
				Updates(columns(a))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("appointment %d changed since load: %w", a.ID, queue.ErrConcurrentConflict)
			}
		}

		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return classify(err)
	}

	p.Committed()
	return nil
}

func bumpPartition(tx *gorm.DB, key queue.Key, expected int64) error {
	if expected == 0 {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.QueuePartition{
			BarberID: key.BarberID,
			Date:     key.Date,
			Version:  1,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("partition %s created concurrently: %w", key, queue.ErrConcurrentConflict)
		}
		return nil
	}

	res := tx.Model(&models.QueuePartition{}).
		Where("barber_id = ? AND date = ? AND version = ?", key.BarberID, key.Date, expected).
		Updates(map[string]any{
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("partition %s moved past version %d: %w", key, expected, queue.ErrConcurrentConflict)
	}
	return nil
}

// snapshot runs fn in a read-only repeatable-read transaction on postgres so
// both reads see the same commit. SQLite transactions already do.
func (r *QueueGormRepository) snapshot(ctx context.Context, fn func(tx *gorm.DB) error) error {
	db := r.db.WithContext(ctx)
	if db.Dialector.Name() != "postgres" {
		return db.Transaction(fn)
	}
	return db.Transaction(fn, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
}

// classify maps postgres serialization failures and deadlocks to a conflict so
// the caller retries them like a version mismatch.
func classify(err error) error {
	if err == nil || errors.Is(err, queue.ErrConcurrentConflict) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "23505":
			return fmt.Errorf("%s (%s): %w", pgErr.Message, pgErr.Code, queue.ErrConcurrentConflict)
		}
	}
	return err
}

// --------------------------------------------------
// Business hours
// --------------------------------------------------

func (r *QueueGormRepository) GetDaySchedule(ctx context.Context, barberID uint, date string) (queue.DaySchedule, error) {
	day, err := queue.ParseDate(date, r.defaults.Location)
	if err != nil {
		return queue.DaySchedule{}, err
	}

	var wh models.WorkingHours
	err = r.db.WithContext(ctx).
		Where("barber_id = ? AND weekday = ?", barberID, int(day.Weekday())).
		Take(&wh).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.defaults, nil
	}
	if err != nil {
		return queue.DaySchedule{}, err
	}

	return scheduleFromWorkingHours(wh, r.defaults.Location)
}

func scheduleFromWorkingHours(wh models.WorkingHours, loc *time.Location) (queue.DaySchedule, error) {
	sched := queue.DaySchedule{Location: loc}
	if !wh.Active {
		// dia de folga: expediente vazio
		return sched, nil
	}

	open, err := queue.ParseTimeOfDay(wh.StartTime)
	if err != nil {
		return queue.DaySchedule{}, err
	}
	closing, err := queue.ParseTimeOfDay(wh.EndTime)
	if err != nil {
		return queue.DaySchedule{}, err
	}
	if closing < open {
		return queue.DaySchedule{}, fmt.Errorf("working hours %s-%s: %w", wh.StartTime, wh.EndTime, queue.ErrInvalidTime)
	}
	sched.Open, sched.Close = open, closing

	if wh.LunchStart != "" && wh.LunchEnd != "" {
		lunch, err := queue.ParseWindows(wh.LunchStart + "-" + wh.LunchEnd)
		if err != nil {
			return queue.DaySchedule{}, err
		}
		sched.Breaks = lunch
	}
	return sched, nil
}

// --------------------------------------------------
// Mapping
// --------------------------------------------------

// toDomain rejects rows whose kind disagrees with the columns they fill.
func toDomain(row models.Appointment) (queue.Appointment, error) {
	status, err := queue.ParseStatus(row.Status)
	if err != nil {
		return queue.Appointment{}, fmt.Errorf("appointment %d: %w", row.ID, queue.ErrInvalidState)
	}
	priority, err := queue.ParseTier(row.Priority)
	if err != nil {
		return queue.Appointment{}, fmt.Errorf("appointment %d: %w", row.ID, queue.ErrInvalidState)
	}

	a := queue.Appointment{
		ID:                   row.ID,
		BarberID:             row.BarberID,
		ClientID:             row.ClientID,
		Date:                 row.Date,
		Status:               status,
		Priority:             priority,
		DurationMinutes:      row.DurationMinutes,
		EstimatedWaitMinutes: row.EstimatedWaitMinutes,
		InsertedAt:           row.InsertedAt,
		StartedAt:            row.StartedAt,
		CompletedAt:          row.CompletedAt,
		CancelledAt:          row.CancelledAt,
		Version:              row.Version,
	}

	switch queue.Kind(row.Kind) {
	case queue.KindQueue:
		if row.StartTime != nil {
			return queue.Appointment{}, fmt.Errorf("queue appointment %d has a start time: %w", row.ID, queue.ErrInvalidState)
		}
		pos := 0
		if row.Position != nil {
			pos = *row.Position
		}
		a.Slot = queue.QueueSlot{Position: pos}
	case queue.KindScheduled:
		if row.Position != nil {
			return queue.Appointment{}, fmt.Errorf("scheduled appointment %d has a position: %w", row.ID, queue.ErrInvalidState)
		}
		if row.StartTime == nil {
			return queue.Appointment{}, fmt.Errorf("scheduled appointment %d has no start time: %w", row.ID, queue.ErrInvalidState)
		}
		a.Slot = queue.ScheduledSlot{Start: *row.StartTime}
	default:
		return queue.Appointment{}, fmt.Errorf("appointment %d has kind %q: %w", row.ID, row.Kind, queue.ErrInvalidState)
	}
	return a, nil
}

func columns(a queue.Appointment) map[string]any {
	cols := map[string]any{
		"kind":                   string(a.Kind()),
		"status":                 string(a.Status),
		"priority":               string(a.Priority),
		"estimated_wait_minutes": a.EstimatedWaitMinutes,
		"started_at":             a.StartedAt,
		"completed_at":           a.CompletedAt,
		"cancelled_at":           a.CancelledAt,
		"inserted_at":            a.InsertedAt,
		"position":               nil,
		"start_time":             nil,
		"version":                gorm.Expr("version + 1"),
	}
	if pos := a.Position(); pos > 0 {
		cols["position"] = pos
	}
	if start, ok := a.StartTime(); ok {
		cols["start_time"] = start
	}
	return cols
}

func intentRows(intents []queue.Intent) ([]models.NotificationIntent, error) {
	rows := make([]models.NotificationIntent, 0, len(intents))
	for _, in := range intents {
		payload, err := json.Marshal(in.Payload)
		if err != nil {
			return nil, fmt.Errorf("encode intent %s: %w", in.ID, err)
		}
		rows = append(rows, models.NotificationIntent{
			ID:                in.ID,
			BarberID:          in.BarberID,
			Date:              in.Date,
			AppointmentID:     in.AppointmentID,
			RecipientClientID: in.RecipientClientID,
			Kind:              string(in.Kind),
			Payload:           string(payload),
		})
	}
	return rows, nil
}
