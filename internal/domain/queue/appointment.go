package queue

import "time"

// DefaultDurationMinutes is used for entries with no usable duration.
const DefaultDurationMinutes = 30

type Appointment struct {
	ID       uint
	BarberID uint
	ClientID uint
	Date     string

	Status   Status
	Priority Tier
	Slot     Slot

	DurationMinutes      int
	EstimatedWaitMinutes int

	InsertedAt  time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time

	// Version is the record version seen at load time.
	Version int64
}

func (a *Appointment) Kind() Kind {
	if a.Slot == nil {
		return KindScheduled
	}
	return a.Slot.Kind()
}

// Position returns the waiting-line position, or 0.
func (a *Appointment) Position() int {
	if qs, ok := a.Slot.(QueueSlot); ok {
		return qs.Position
	}
	return 0
}

// StartTime returns the fixed start of a scheduled appointment.
func (a *Appointment) StartTime() (time.Time, bool) {
	if ss, ok := a.Slot.(ScheduledSlot); ok {
		return ss.Start, true
	}
	return time.Time{}, false
}

// Waiting reports whether the appointment is part of the partition's waiting line.
func (a *Appointment) Waiting() bool {
	return a.Kind() == KindQueue && a.Status == StatusScheduled
}

func (a *Appointment) setPosition(pos int) {
	a.Slot = QueueSlot{Position: pos}
}

func (a *Appointment) EffectiveDuration() int {
	return EffectiveDuration(a.DurationMinutes)
}

func EffectiveDuration(minutes int) int {
	if minutes <= 0 {
		return DefaultDurationMinutes
	}
	return minutes
}
