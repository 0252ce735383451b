package queue

import "sort"

// Reorder sorts the waiting line by tier rank, then by arrival (InsertedAt), with
// the current position as the last tie-break. Only entries that
// actually moved are returned, so a second call on a sorted line returns nothing.
func (p *Partition) Reorder(rank TierRank) []PositionChange {
	line := p.waiting()
	sort.SliceStable(line, func(i, j int) bool {
		ri, rj := rank.Of(line[i].Priority), rank.Of(line[j].Priority)
		if ri != rj {
			return ri < rj
		}
		ti, tj := line[i].InsertedAt, line[j].InsertedAt
		if !ti.IsZero() && !tj.IsZero() && !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return line[i].Position() < line[j].Position()
	})

	var changes []PositionChange
	for i, a := range line {
		if want := i + 1; a.Position() != want {
			changes = append(changes, p.move(a, want))
		}
	}
	return changes
}
