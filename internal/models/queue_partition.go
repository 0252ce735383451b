package models

import "time"

// QueuePartition holds the optimistic version of one barber day. Every
// committed mutation of the day bumps it.
type QueuePartition struct {
	BarberID uint   `gorm:"primaryKey;autoIncrement:false" json:"barber_id"`
	Date     string `gorm:"primaryKey;size:10" json:"date"`
	Version  int64  `gorm:"not null;default:0" json:"version"`

	UpdatedAt time.Time `json:"updated_at"`
}
