package queue

import "time"

// Anchor is where the waiting line starts: business open, or later if a queue
// customer is still in the chair past that time.
func (p *Partition) Anchor(open time.Time) time.Time {
	anchor := open
	for _, a := range p.Serving() {
		if a.StartedAt == nil {
			continue
		}
		end := a.StartedAt.Add(time.Duration(a.EffectiveDuration()) * time.Minute)
		if end.After(anchor) {
			anchor = end
		}
	}
	return anchor
}

// Recompute refreshes EstimatedWaitMinutes on every waiting entry and returns
// the projections it used.
func (p *Partition) Recompute(sched DaySchedule) ([]Projection, error) {
	hours, breaks, err := sched.Bounds(p.Key.Date)
	if err != nil {
		return nil, err
	}
	projections := Estimate(p.Entries(), p.Anchor(hours.Start), breaks)
	for _, pr := range projections {
		a := p.byID[pr.AppointmentID]
		if a.EstimatedWaitMinutes != pr.WaitMinutes {
			a.EstimatedWaitMinutes = pr.WaitMinutes
			p.touch(a)
		}
	}
	return projections, nil
}
