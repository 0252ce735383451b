package queue

import (
	"fmt"
	"sort"
	"time"
)

// Key identifies one barber day. All queue state is partitioned by it.
type Key struct {
	BarberID uint
	Date     string
}

func (k Key) String() string {
	return fmt.Sprintf("%d:%s", k.BarberID, k.Date)
}

// PositionChange records a waiting-line move. From == 0 means the appointment
// just joined the line.
type PositionChange struct {
	AppointmentID uint
	ClientID      uint
	From          int
	To            int
}

// Partition owns the appointments of one barber day. Callers never touch the
// positions directly; every mutation goes through its methods, which keep the
// waiting line dense and unique.
type Partition struct {
	Key     Key
	Version int64

	items []*Appointment
	byID  map[uint]*Appointment
	dirty map[uint]struct{}
}

// NewPartition builds a partition from stored appointments and rejects data that
// breaks the waiting-line invariants instead of repairing it.
func NewPartition(key Key, version int64, appointments []Appointment) (*Partition, error) {
	p := &Partition{
		Key:     key,
		Version: version,
		byID:    make(map[uint]*Appointment, len(appointments)),
		dirty:   map[uint]struct{}{},
	}
	for i := range appointments {
		a := appointments[i]
		if a.BarberID != key.BarberID || a.Date != key.Date {
			return nil, fmt.Errorf("appointment %d belongs to %d:%s, not %s: %w",
				a.ID, a.BarberID, a.Date, key, ErrInvalidState)
		}
		if _, dup := p.byID[a.ID]; dup {
			return nil, fmt.Errorf("appointment %d loaded twice: %w", a.ID, ErrInvalidState)
		}
		p.items = append(p.items, &a)
		p.byID[a.ID] = &a
	}
	sort.Slice(p.items, func(i, j int) bool { return p.items[i].ID < p.items[j].ID })

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks position uniqueness and density plus the kind/field coupling.
func (p *Partition) Validate() error {
	seen := map[int]uint{}
	for _, a := range p.items {
		if a.Slot == nil {
			return fmt.Errorf("appointment %d has no slot: %w", a.ID, ErrInvalidState)
		}
		pos := a.Position()
		switch {
		case a.Waiting() && pos <= 0:
			return fmt.Errorf("waiting appointment %d has no position: %w", a.ID, ErrInvalidState)
		case !a.Waiting() && pos != 0:
			return fmt.Errorf("appointment %d (%s/%s) holds position %d: %w", a.ID, a.Kind(), a.Status, pos, ErrInvalidState)
		}
		if pos == 0 {
			continue
		}
		if other, dup := seen[pos]; dup {
			return fmt.Errorf("appointments %d and %d share position %d: %w", other, a.ID, pos, ErrInvalidState)
		}
		seen[pos] = a.ID
	}
	for pos := 1; pos <= len(seen); pos++ {
		if _, ok := seen[pos]; !ok {
			return fmt.Errorf("waiting line has a gap at position %d: %w", pos, ErrInvalidState)
		}
	}
	return nil
}

// ======================================================
// Reads
// ======================================================

func (p *Partition) Get(id uint) (*Appointment, error) {
	a, ok := p.byID[id]
	if !ok {
		return nil, fmt.Errorf("appointment %d in %s: %w", id, p.Key, ErrNotFound)
	}
	return a, nil
}

// Waiting returns the waiting line ordered by position.
func (p *Partition) Waiting() []Appointment {
	out := make([]Appointment, 0, len(p.items))
	for _, a := range p.waiting() {
		out = append(out, *a)
	}
	return out
}

// Serving returns the queue appointments currently in the chair.
func (p *Partition) Serving() []Appointment {
	var out []Appointment
	for _, a := range p.items {
		if a.Kind() == KindQueue && a.Status == StatusOngoing {
			out = append(out, *a)
		}
	}
	return out
}

// Entries is the waiting line in estimator form.
func (p *Partition) Entries() []Entry {
	w := p.waiting()
	out := make([]Entry, 0, len(w))
	for _, a := range w {
		out = append(out, Entry{
			AppointmentID:   a.ID,
			Position:        a.Position(),
			DurationMinutes: a.DurationMinutes,
		})
	}
	return out
}

func (p *Partition) Len() int {
	return len(p.waiting())
}

func (p *Partition) waiting() []*Appointment {
	var out []*Appointment
	for _, a := range p.items {
		if a.Waiting() {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position() < out[j].Position() })
	return out
}

// ======================================================
// Change tracking
// ======================================================

func (p *Partition) touch(a *Appointment) {
	p.dirty[a.ID] = struct{}{}
}

func (p *Partition) HasChanges() bool {
	return len(p.dirty) > 0
}

// Dirty returns copies of the appointments modified since load.
func (p *Partition) Dirty() []Appointment {
	var out []Appointment
	for _, a := range p.items {
		if _, ok := p.dirty[a.ID]; ok {
			out = append(out, *a)
		}
	}
	return out
}

// Committed is called by the store after a successful write.
func (p *Partition) Committed() {
	for id := range p.dirty {
		p.byID[id].Version++
	}
	p.dirty = map[uint]struct{}{}
	p.Version++
}

func (p *Partition) move(a *Appointment, to int) PositionChange {
	ch := PositionChange{AppointmentID: a.ID, ClientID: a.ClientID, From: a.Position(), To: to}
	a.setPosition(to)
	p.touch(a)
	return ch
}

// ======================================================
// Position operations
// ======================================================

// Insert accepts a queue appointment into the waiting line. Urgent inserts take
// position 1 and push everyone back; others go to the end. Joining the line
// stamps InsertedAt, the arrival order used by Reorder.
func (p *Partition) Insert(id uint, urgent bool, now time.Time) (int, []PositionChange, error) {
	a, err := p.Get(id)
	if err != nil {
		return 0, nil, err
	}
	if a.Kind() != KindQueue {
		return 0, nil, fmt.Errorf("appointment %d is %s: %w", id, a.Kind(), ErrInvalidState)
	}
	if a.Position() != 0 {
		return 0, nil, fmt.Errorf("appointment %d already at position %d: %w", id, a.Position(), ErrInvalidState)
	}
	switch a.Status {
	case StatusPending:
		if err := CanTransition(a.Status, StatusScheduled); err != nil {
			return 0, nil, err
		}
	case StatusScheduled:
	default:
		return 0, nil, fmt.Errorf("appointment %d is %s: %w", id, a.Status, ErrInvalidState)
	}

	// a convertida já está com QueueSlot{0}; não conta como parte da fila
	var line []*Appointment
	for _, other := range p.waiting() {
		if other.ID != a.ID {
			line = append(line, other)
		}
	}
	var changes []PositionChange
	pos := len(line) + 1
	if urgent {
		pos = 1
		for i := len(line) - 1; i >= 0; i-- {
			changes = append(changes, p.move(line[i], line[i].Position()+1))
		}
	}

	a.Status = StatusScheduled
	a.InsertedAt = now
	changes = append(changes, p.move(a, pos))
	return pos, changes, nil
}

// MoveToPosition places an entry at newPosition, shifting the entries in
// between by one towards the vacated slot.
func (p *Partition) MoveToPosition(id uint, newPosition int) ([]PositionChange, error) {
	a, err := p.Get(id)
	if err != nil {
		return nil, err
	}
	if !a.Waiting() {
		return nil, fmt.Errorf("appointment %d is not waiting: %w", id, ErrInvalidState)
	}
	n := p.Len()
	if newPosition < 1 || newPosition > n {
		return nil, fmt.Errorf("position %d outside 1..%d: %w", newPosition, n, ErrInvalidPosition)
	}

	old := a.Position()
	if newPosition == old {
		return nil, nil
	}

	var changes []PositionChange
	for _, other := range p.waiting() {
		pos := other.Position()
		switch {
		case other.ID == a.ID:
			continue
		case newPosition < old && pos >= newPosition && pos < old:
			changes = append(changes, p.move(other, pos+1))
		case newPosition > old && pos > old && pos <= newPosition:
			changes = append(changes, p.move(other, pos-1))
		}
	}
	changes = append(changes, p.move(a, newPosition))
	return changes, nil
}

// CollapseAfterRemoval closes the hole left at removedPosition.
func (p *Partition) CollapseAfterRemoval(removedPosition int) []PositionChange {
	var changes []PositionChange
	for _, a := range p.waiting() {
		if pos := a.Position(); pos > removedPosition {
			changes = append(changes, p.move(a, pos-1))
		}
	}
	return changes
}

// ChangePriority records the new tier only. Reordering is a separate step.
func (p *Partition) ChangePriority(id uint, tier Tier) (Tier, error) {
	a, err := p.Get(id)
	if err != nil {
		return "", err
	}
	if !tier.Valid() {
		return "", fmt.Errorf("priority %q: %w", tier, ErrInvalidPriority)
	}
	if a.Status.Terminal() {
		return "", fmt.Errorf("appointment %d is %s: %w", id, a.Status, ErrInvalidState)
	}
	old := a.Priority
	if old != tier {
		a.Priority = tier
		p.touch(a)
	}
	return old, nil
}

// Transition moves an appointment through the status machine. Leaving the
// waiting line (ongoing, done, cancelled) collapses the positions behind it.
func (p *Partition) Transition(id uint, to Status, now time.Time) ([]PositionChange, error) {
	a, err := p.Get(id)
	if err != nil {
		return nil, err
	}
	if err := CanTransition(a.Status, to); err != nil {
		return nil, fmt.Errorf("appointment %d: %w", id, err)
	}
	if to == StatusScheduled && a.Kind() == KindQueue {
		// aceitar na fila passa pelo Insert, que atribui a posição
		_, changes, err := p.Insert(id, false, now)
		return changes, err
	}

	held := a.Position()
	a.Status = to
	switch to {
	case StatusOngoing:
		a.StartedAt = &now
	case StatusDone:
		a.CompletedAt = &now
	case StatusCancelled:
		a.CancelledAt = &now
	}
	if a.Kind() == KindQueue {
		a.setPosition(0)
		a.EstimatedWaitMinutes = 0
	}
	p.touch(a)

	if held == 0 {
		return nil, nil
	}
	return p.CollapseAfterRemoval(held), nil
}

// MergeChanges folds several change lists into one net move per appointment,
// dropping entries that ended where they started.
func MergeChanges(lists ...[]PositionChange) []PositionChange {
	var order []uint
	net := map[uint]PositionChange{}
	for _, list := range lists {
		for _, ch := range list {
			prev, ok := net[ch.AppointmentID]
			if !ok {
				order = append(order, ch.AppointmentID)
				net[ch.AppointmentID] = ch
				continue
			}
			prev.To = ch.To
			net[ch.AppointmentID] = prev
		}
	}
	var out []PositionChange
	for _, id := range order {
		if ch := net[id]; ch.From != ch.To {
			out = append(out, ch)
		}
	}
	return out
}
