package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	dbpkg "github.com/BruksfildServices01/barber-queue/internal/db"
	"github.com/BruksfildServices01/barber-queue/internal/domain/queue"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

const day = "2026-03-10" // terça

var key = queue.Key{BarberID: 7, Date: day}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:queue_repo_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, dbpkg.Migrate(db))
	return db
}

func defaults() queue.DaySchedule {
	breaks, _ := queue.ParseWindows("12:00-13:00")
	return queue.DaySchedule{Open: 8 * 60, Close: 17 * 60, Breaks: breaks, Location: time.UTC}
}

func intPtr(v int) *int { return &v }

func seedQueue(t *testing.T, db *gorm.DB, id uint, pos int) {
	t.Helper()
	row := models.Appointment{
		ID:              id,
		BarberID:        key.BarberID,
		ClientID:        100 + id,
		Date:            day,
		Kind:            string(queue.KindQueue),
		Status:          string(queue.StatusScheduled),
		Priority:        string(queue.TierNormal),
		DurationMinutes: 30,
		InsertedAt:      time.Date(2026, 3, 10, 7, 0, int(id), 0, time.UTC),
	}
	if pos > 0 {
		row.Position = intPtr(pos)
	} else {
		row.Status = string(queue.StatusPending)
	}
	require.NoError(t, db.Create(&row).Error)
}

func TestLoadPartition_EmptyDay(t *testing.T) {
	repo := NewQueueGormRepository(setupDB(t), defaults())

	p, err := repo.LoadPartition(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.Version)
	assert.Equal(t, 0, p.Len())
}

func TestSavePartition_PersistsMovesAndIntents(t *testing.T) {
	db := setupDB(t)
	seedQueue(t, db, 1, 1)
	seedQueue(t, db, 2, 2)
	seedQueue(t, db, 3, 3)
	repo := NewQueueGormRepository(db, defaults())
	ctx := context.Background()

	p, err := repo.LoadPartition(ctx, key)
	require.NoError(t, err)
	changes, err := p.MoveToPosition(3, 1)
	require.NoError(t, err)
	intents := p.BuildIntents(changes, nil)
	for i := range intents {
		intents[i].ID = fmt.Sprintf("intent-%d", i)
	}

	require.NoError(t, repo.SavePartition(ctx, p, intents))
	assert.Equal(t, int64(1), p.Version)
	assert.False(t, p.HasChanges())

	reloaded, err := repo.LoadPartition(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reloaded.Version)
	var order []uint
	for _, a := range reloaded.Waiting() {
		order = append(order, a.ID)
	}
	assert.Equal(t, []uint{3, 1, 2}, order)

	var stored []models.NotificationIntent
	require.NoError(t, db.Order("id").Find(&stored).Error)
	require.Len(t, stored, 3)
	assert.Equal(t, string(queue.IntentPositionChanged), stored[0].Kind)
	assert.Nil(t, stored[0].PublishedAt)
	assert.Contains(t, stored[0].Payload, "new_position")
}

func TestSavePartition_PersistsInsertedAt(t *testing.T) {
	db := setupDB(t)
	seedQueue(t, db, 1, 1)
	seedQueue(t, db, 2, 0)
	repo := NewQueueGormRepository(db, defaults())
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 11, 30, 0, 0, time.UTC)

	p, err := repo.LoadPartition(ctx, key)
	require.NoError(t, err)
	_, _, err = p.Insert(2, false, now)
	require.NoError(t, err)
	require.NoError(t, repo.SavePartition(ctx, p, nil))

	reloaded, err := repo.LoadPartition(ctx, key)
	require.NoError(t, err)
	a, err := reloaded.Get(2)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Position())
	assert.True(t, a.InsertedAt.Equal(now), "inserted_at = %s", a.InsertedAt)
}

func TestSavePartition_StaleVersionConflicts(t *testing.T) {
	db := setupDB(t)
	seedQueue(t, db, 1, 1)
	seedQueue(t, db, 2, 2)
	repo := NewQueueGormRepository(db, defaults())
	ctx := context.Background()

	first, err := repo.LoadPartition(ctx, key)
	require.NoError(t, err)
	second, err := repo.LoadPartition(ctx, key)
	require.NoError(t, err)

	_, err = first.MoveToPosition(2, 1)
	require.NoError(t, err)
	require.NoError(t, repo.SavePartition(ctx, first, nil))

	_, err = second.Transition(1, queue.StatusCancelled, time.Now())
	require.NoError(t, err)
	err = repo.SavePartition(ctx, second, nil)
	assert.ErrorIs(t, err, queue.ErrConcurrentConflict)
	assert.True(t, second.HasChanges())

	reloaded, err := repo.LoadPartition(ctx, key)
	require.NoError(t, err)
	a, _ := reloaded.Get(1)
	assert.Equal(t, queue.StatusScheduled, a.Status)
	assert.Equal(t, 2, a.Position())
}

func TestSavePartition_StaleRecordVersionConflicts(t *testing.T) {
	db := setupDB(t)
	seedQueue(t, db, 1, 1)
	repo := NewQueueGormRepository(db, defaults())
	ctx := context.Background()

	p, err := repo.LoadPartition(ctx, key)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Appointment{}).Where("id = ?", 1).Update("version", 5).Error)

	_, err = p.ChangePriority(1, queue.TierHigh)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.SavePartition(ctx, p, nil), queue.ErrConcurrentConflict)

	var part models.QueuePartition
	assert.ErrorIs(t, db.Where("barber_id = ?", key.BarberID).Take(&part).Error, gorm.ErrRecordNotFound)
}

func TestLoadPartition_RejectsInconsistentRows(t *testing.T) {
	db := setupDB(t)
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.Appointment{
		ID: 1, BarberID: key.BarberID, Date: day,
		Kind: string(queue.KindQueue), Status: string(queue.StatusScheduled), Priority: "normal",
		StartTime: &start, Position: intPtr(1),
	}).Error)

	_, err := NewQueueGormRepository(db, defaults()).LoadPartition(context.Background(), key)
	assert.ErrorIs(t, err, queue.ErrInvalidState)
}

func TestLoadPartition_RejectsGapInPositions(t *testing.T) {
	db := setupDB(t)
	seedQueue(t, db, 1, 1)
	seedQueue(t, db, 2, 3)

	_, err := NewQueueGormRepository(db, defaults()).LoadPartition(context.Background(), key)
	assert.ErrorIs(t, err, queue.ErrInvalidState)
}

func TestFindAppointment(t *testing.T) {
	db := setupDB(t)
	seedQueue(t, db, 1, 1)
	repo := NewQueueGormRepository(db, defaults())

	a, err := repo.FindAppointment(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, queue.KindQueue, a.Kind())
	assert.Equal(t, 1, a.Position())

	_, err = repo.FindAppointment(context.Background(), 99)
	assert.ErrorIs(t, err, queue.ErrNotFound)
}

func TestGetDaySchedule(t *testing.T) {
	db := setupDB(t)
	repo := NewQueueGormRepository(db, defaults())
	ctx := context.Background()

	sched, err := repo.GetDaySchedule(ctx, 7, day)
	require.NoError(t, err)
	assert.Equal(t, defaults(), sched)

	require.NoError(t, db.Create(&models.WorkingHours{
		BarberID: 7, Weekday: int(time.Tuesday), Active: true,
		StartTime: "09:00", EndTime: "18:00", LunchStart: "13:00", LunchEnd: "14:00",
	}).Error)
	require.NoError(t, db.Create(&models.WorkingHours{
		BarberID: 7, Weekday: int(time.Wednesday), Active: false,
	}).Error)

	sched, err = repo.GetDaySchedule(ctx, 7, day)
	require.NoError(t, err)
	assert.Equal(t, "09:00", sched.Open.String())
	assert.Equal(t, "18:00", sched.Close.String())
	require.Len(t, sched.Breaks, 1)
	assert.Equal(t, "13:00", sched.Breaks[0].Start.String())

	sched, err = repo.GetDaySchedule(ctx, 7, "2026-03-11")
	require.NoError(t, err)
	assert.Equal(t, sched.Open, sched.Close)

	_, err = repo.GetDaySchedule(ctx, 7, "amanhã")
	assert.ErrorIs(t, err, queue.ErrInvalidDate)
}

func TestClassify(t *testing.T) {
	assert.ErrorIs(t, classify(&pgconn.PgError{Code: "40001", Message: "could not serialize access"}), queue.ErrConcurrentConflict)
	assert.ErrorIs(t, classify(fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "40P01"})), queue.ErrConcurrentConflict)

	other := &pgconn.PgError{Code: "23503"}
	assert.Same(t, other, classify(other))
	assert.Nil(t, classify(nil))
}
