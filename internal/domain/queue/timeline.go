package queue

import (
	"sort"
	"time"
)

type BlockKind string

const (
	BlockScheduled BlockKind = "scheduled"
	BlockQueue     BlockKind = "queue"
	BlockBreak     BlockKind = "break"
	BlockGap       BlockKind = "gap"
)

var blockOrder = map[BlockKind]int{
	BlockBreak:     0,
	BlockScheduled: 1,
	BlockQueue:     2,
	BlockGap:       3,
}

// Block is one typed segment of a barber day. Queue blocks carry their
// position; position 0 is the customer currently in the chair.
type Block struct {
	Kind          BlockKind `json:"kind"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	AppointmentID uint      `json:"appointment_id,omitempty"`
	ClientID      uint      `json:"client_id,omitempty"`
	Position      int       `json:"position,omitempty"`
	Status        Status    `json:"status,omitempty"`
	Priority      Tier      `json:"priority,omitempty"`
}

func (b Block) Interval() Interval {
	return Interval{Start: b.Start, End: b.End}
}

type Conflict struct {
	First          Block `json:"first"`
	Second         Block `json:"second"`
	OverlapMinutes int   `json:"overlap_minutes"`
}

// Capacity compares the waiting line with the free time left in the day.
// It is informational; nothing is refused because of it.
type Capacity struct {
	QueueMinutes    int  `json:"queue_minutes"`
	FreeMinutes     int  `json:"free_minutes"`
	Fits            bool `json:"fits"`
	OverflowMinutes int  `json:"overflow_minutes"`
}

type Timeline struct {
	BarberID  uint       `json:"barber_id"`
	Date      string     `json:"date"`
	Open      time.Time  `json:"open"`
	Close     time.Time  `json:"close"`
	Blocks    []Block    `json:"blocks"`
	Conflicts []Conflict `json:"conflicts"`
	Capacity  Capacity   `json:"capacity"`
}

// Compose merges scheduled, queue and break blocks of a partition into one day
// view. Queue projections are always recomputed from the current order; the
// stored estimates are ignored.
func Compose(p *Partition, sched DaySchedule) (Timeline, error) {
	hours, breaks, err := sched.Bounds(p.Key.Date)
	if err != nil {
		return Timeline{}, err
	}

	var blocks []Block
	for _, b := range breaks {
		blocks = append(blocks, Block{Kind: BlockBreak, Start: b.Start, End: b.End})
	}

	for _, a := range p.items {
		start, fixed := a.StartTime()
		if !fixed || (a.Status != StatusScheduled && a.Status != StatusOngoing) {
			continue
		}
		blocks = append(blocks, Block{
			Kind:          BlockScheduled,
			Start:         start,
			End:           start.Add(time.Duration(a.EffectiveDuration()) * time.Minute),
			AppointmentID: a.ID,
			ClientID:      a.ClientID,
			Status:        a.Status,
			Priority:      a.Priority,
		})
	}

	for _, a := range p.Serving() {
		if a.StartedAt == nil {
			continue
		}
		blocks = append(blocks, Block{
			Kind:          BlockQueue,
			Start:         *a.StartedAt,
			End:           a.StartedAt.Add(time.Duration(a.EffectiveDuration()) * time.Minute),
			AppointmentID: a.ID,
			ClientID:      a.ClientID,
			Status:        a.Status,
			Priority:      a.Priority,
		})
	}

	queueMinutes := 0
	for _, pr := range Estimate(p.Entries(), p.Anchor(hours.Start), breaks) {
		a := p.byID[pr.AppointmentID]
		queueMinutes += a.EffectiveDuration()
		blocks = append(blocks, Block{
			Kind:          BlockQueue,
			Start:         pr.Start,
			End:           pr.End,
			AppointmentID: a.ID,
			ClientID:      a.ClientID,
			Position:      pr.Position,
			Status:        a.Status,
			Priority:      a.Priority,
		})
	}

	// tempo livre para a fila: expediente menos agendados, pausas e quem está na cadeira
	var fixed []Interval
	for _, b := range blocks {
		if b.Kind == BlockQueue && b.Position > 0 {
			continue
		}
		fixed = append(fixed, b.Interval())
	}
	free := 0
	for _, g := range uncovered(hours, fixed) {
		free += g.Minutes()
	}

	var covered []Interval
	for _, b := range blocks {
		covered = append(covered, b.Interval())
	}
	for _, g := range uncovered(hours, covered) {
		blocks = append(blocks, Block{Kind: BlockGap, Start: g.Start, End: g.End})
	}

	sortBlocks(blocks)

	capacity := Capacity{
		QueueMinutes: queueMinutes,
		FreeMinutes:  free,
		Fits:         queueMinutes <= free,
	}
	if !capacity.Fits {
		capacity.OverflowMinutes = queueMinutes - free
	}

	return Timeline{
		BarberID:  p.Key.BarberID,
		Date:      p.Key.Date,
		Open:      hours.Start,
		Close:     hours.End,
		Blocks:    blocks,
		Conflicts: detectConflicts(blocks),
		Capacity:  capacity,
	}, nil
}

func sortBlocks(blocks []Block) {
	sort.SliceStable(blocks, func(i, j int) bool {
		if !blocks[i].Start.Equal(blocks[j].Start) {
			return blocks[i].Start.Before(blocks[j].Start)
		}
		if blocks[i].Kind != blocks[j].Kind {
			return blockOrder[blocks[i].Kind] < blockOrder[blocks[j].Kind]
		}
		return blocks[i].Position < blocks[j].Position
	})
}

// detectConflicts expects blocks sorted by start.
func detectConflicts(blocks []Block) []Conflict {
	conflicts := []Conflict{}
	for i := range blocks {
		if blocks[i].Kind == BlockGap {
			continue
		}
		for j := i + 1; j < len(blocks); j++ {
			if !blocks[j].Start.Before(blocks[i].End) {
				break
			}
			if blocks[j].Kind == BlockGap {
				continue
			}
			if overlap := blocks[i].Interval().Overlap(blocks[j].Interval()); overlap > 0 {
				conflicts = append(conflicts, Conflict{
					First:          blocks[i],
					Second:         blocks[j],
					OverlapMinutes: int(overlap / time.Minute),
				})
			}
		}
	}
	return conflicts
}

// uncovered returns the parts of window not covered by any interval.
func uncovered(window Interval, intervals []Interval) []Interval {
	if !window.End.After(window.Start) {
		return nil
	}
	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	var out []Interval
	cursor := window.Start
	for _, iv := range sorted {
		if !iv.End.After(cursor) {
			continue
		}
		if iv.Start.After(cursor) {
			end := iv.Start
			if end.After(window.End) {
				end = window.End
			}
			if end.After(cursor) {
				out = append(out, Interval{Start: cursor, End: end})
			}
		}
		if iv.End.After(cursor) {
			cursor = iv.End
		}
		if !cursor.Before(window.End) {
			return out
		}
	}
	if cursor.Before(window.End) {
		out = append(out, Interval{Start: cursor, End: window.End})
	}
	return out
}
