package queue

import (
	"fmt"
	"time"
)

// ConvertToQueue turns an accepted scheduled appointment into a queue entry.
// The fixed start time is dropped. There is no way back.
func (p *Partition) ConvertToQueue(id uint, urgent bool, now time.Time) (int, []PositionChange, error) {
	a, err := p.Get(id)
	if err != nil {
		return 0, nil, err
	}
	if a.Kind() != KindScheduled {
		return 0, nil, fmt.Errorf("appointment %d is already %s: %w", id, a.Kind(), ErrInvalidState)
	}
	if a.Status != StatusScheduled {
		return 0, nil, fmt.Errorf("appointment %d is %s: %w", id, a.Status, ErrInvalidState)
	}

	a.Slot = QueueSlot{}
	p.touch(a)
	return p.Insert(id, urgent, now)
}
