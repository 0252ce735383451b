package changefeed

import (
	"context"
	"sync"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/domain/queue"
)

// Event announces that a barber day committed a new version. Subscribers
// reload the partition; the event carries no queue state.
type Event struct {
	BarberID  uint      `json:"barber_id"`
	Date      string    `json:"date"`
	Version   int64     `json:"version"`
	Operation string    `json:"operation"`
	At        time.Time `json:"at"`
}

func (e Event) Key() queue.Key {
	return queue.Key{BarberID: e.BarberID, Date: e.Date}
}

// Feed fans partition commits out to live readers.
type Feed interface {
	Publish(ctx context.Context, ev Event) error
	// Subscribe delivers events for key until ctx ends, then closes the channel.
	Subscribe(ctx context.Context, key queue.Key) (<-chan Event, error)
}

// LocalFeed is the single-instance feed. Slow subscribers miss events rather
// than block writers.
type LocalFeed struct {
	mu   sync.Mutex
	subs map[queue.Key]map[chan Event]struct{}
}

func NewLocalFeed() *LocalFeed {
	return &LocalFeed{subs: map[queue.Key]map[chan Event]struct{}{}}
}

func (f *LocalFeed) Publish(_ context.Context, ev Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs[ev.Key()] {
		select {
		case ch <- ev:
		default:
		}
	}
	return nil
}

func (f *LocalFeed) Subscribe(ctx context.Context, key queue.Key) (<-chan Event, error) {
	ch := make(chan Event, 16)

	f.mu.Lock()
	if f.subs[key] == nil {
		f.subs[key] = map[chan Event]struct{}{}
	}
	f.subs[key][ch] = struct{}{}
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		delete(f.subs[key], ch)
		if len(f.subs[key]) == 0 {
			delete(f.subs, key)
		}
		f.mu.Unlock()
		close(ch)
	}()
	return ch, nil
}
