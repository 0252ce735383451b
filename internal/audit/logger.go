package audit

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-queue/internal/models"
)

// Ações registradas pelo motor da fila.
const (
	ActionQueueInserted    = "queue_inserted"
	ActionQueueMoved       = "queue_moved"
	ActionPriorityChanged  = "queue_priority_changed"
	ActionQueueReordered   = "queue_reordered"
	ActionStatusChanged    = "appointment_status_changed"
	ActionConvertedToQueue = "appointment_converted_to_queue"
)

const EntityAppointment = "appointment"

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(ctx context.Context, ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	row := models.AuditLog{
		BarbershopID: ev.BarbershopID,
		UserID:       ev.UserID,
		Action:       ev.Action,
		Entity:       ev.Entity,
		EntityID:     ev.EntityID,
		Metadata:     metaJSON,
	}

	return l.db.WithContext(ctx).Create(&row).Error
}
