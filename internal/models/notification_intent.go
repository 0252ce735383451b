package models

import "time"

// NotificationIntent is the outbox row written in the same transaction as the
// queue mutation that produced it.
type NotificationIntent struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	BarberID          uint   `gorm:"index" json:"barber_id"`
	Date              string `gorm:"size:10" json:"date"`
	AppointmentID     uint   `json:"appointment_id"`
	RecipientClientID uint   `json:"recipient_client_id"`
	Kind              string `gorm:"size:40;not null" json:"kind"`
	Payload           string `gorm:"type:text" json:"payload"`

	PublishedAt *time.Time `gorm:"index" json:"published_at"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
}
