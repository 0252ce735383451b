package models

import "time"

// Appointment is a row of either kind. Kind decides which of StartTime and
// Position is meaningful; the other stays NULL.
type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarbershopID uint `gorm:"index" json:"barbershop_id"`
	BarberID     uint `gorm:"index:idx_appointment_partition,priority:1" json:"barber_id"`
	ClientID     uint `json:"client_id"`

	// dia da partição (YYYY-MM-DD no fuso da barbearia)
	Date string `gorm:"size:10;index:idx_appointment_partition,priority:2" json:"date"`

	Kind      string     `gorm:"size:20;not null;default:'scheduled'" json:"kind"`
	StartTime *time.Time `json:"start_time"`
	Position  *int       `json:"position"`

	Status   string `gorm:"size:20;not null;default:'pending'" json:"status"`
	Priority string `gorm:"size:20;not null;default:'normal'" json:"priority"`

	DurationMinutes      int `gorm:"not null;default:30" json:"duration_minutes"`
	EstimatedWaitMinutes int `gorm:"not null;default:0" json:"estimated_wait_minutes"`

	InsertedAt  time.Time  `json:"inserted_at"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	Notes   string `gorm:"size:255" json:"notes"`
	Version int64  `gorm:"not null;default:0" json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
