package queue

import (
	"fmt"
	"sort"
	"time"
)

// Interval is a half-open [Start, End) time range.
type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) Minutes() int {
	if !i.End.After(i.Start) {
		return 0
	}
	return int(i.End.Sub(i.Start) / time.Minute)
}

func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// Overlap returns how long i and o share.
func (i Interval) Overlap(o Interval) time.Duration {
	start := i.Start
	if o.Start.After(start) {
		start = o.Start
	}
	end := i.End
	if o.End.Before(end) {
		end = o.End
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start)
}

// Entry is one waiting appointment as seen by the estimator.
type Entry struct {
	AppointmentID   uint
	Position        int
	DurationMinutes int
}

type Projection struct {
	AppointmentID uint
	Position      int
	Start         time.Time
	End           time.Time
	WaitMinutes   int
}

// Estimate walks entries in the given order from anchor, accumulating each
// duration. Whenever the running clock sits inside a break it jumps to the end
// of that break before the next entry is placed.
func Estimate(entries []Entry, anchor time.Time, breaks []Interval) []Projection {
	sorted := make([]Interval, len(breaks))
	copy(sorted, breaks)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	out := make([]Projection, 0, len(entries))
	clock := anchor
	for _, e := range entries {
		clock = skipBreaks(clock, sorted)
		end := clock.Add(time.Duration(EffectiveDuration(e.DurationMinutes)) * time.Minute)
		out = append(out, Projection{
			AppointmentID: e.AppointmentID,
			Position:      e.Position,
			Start:         clock,
			End:           end,
			WaitMinutes:   int(clock.Sub(anchor) / time.Minute),
		})
		clock = end
	}
	return out
}

// EstimateFor returns the projection of a single entry.
func EstimateFor(entries []Entry, anchor time.Time, breaks []Interval, appointmentID uint) (Projection, error) {
	for _, p := range Estimate(entries, anchor, breaks) {
		if p.AppointmentID == appointmentID {
			return p, nil
		}
	}
	return Projection{}, fmt.Errorf("appointment %d is not waiting: %w", appointmentID, ErrNotFound)
}

// skipBreaks expects breaks sorted by start; back-to-back breaks chain.
func skipBreaks(clock time.Time, breaks []Interval) time.Time {
	for _, b := range breaks {
		if b.Contains(clock) {
			clock = b.End
		}
	}
	return clock
}
