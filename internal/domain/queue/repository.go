package queue

import "context"

// Repository is the appointment store the engine runs against.
type Repository interface {
	// FindAppointment loads a single appointment by id.
	FindAppointment(ctx context.Context, id uint) (*Appointment, error)

	// LoadPartition returns the current committed state of a barber day.
	LoadPartition(ctx context.Context, key Key) (*Partition, error)

	// SavePartition writes the dirty appointments and intents atomically. It
	// fails with ErrConcurrentConflict when the partition moved since load.
	SavePartition(ctx context.Context, p *Partition, intents []Intent) error

	// GetDaySchedule resolves business hours and breaks for a barber day.
	GetDaySchedule(ctx context.Context, barberID uint, date string) (DaySchedule, error)
}
