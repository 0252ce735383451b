package queue

import "time"

type Kind string

const (
	KindScheduled Kind = "scheduled"
	KindQueue     Kind = "queue"
)

// Slot is where an appointment sits in the day: either a fixed start time or a
// place in the waiting line, never both.
type Slot interface {
	Kind() Kind
	isSlot()
}

type ScheduledSlot struct {
	Start time.Time
}

func (ScheduledSlot) Kind() Kind { return KindScheduled }
func (ScheduledSlot) isSlot()    {}

// QueueSlot holds the 1-based position in the waiting line. Zero means the
// appointment is not waiting (not yet accepted, being served, or finished).
type QueueSlot struct {
	Position int
}

func (QueueSlot) Kind() Kind { return KindQueue }
func (QueueSlot) isSlot()    {}
