package timezone

import (
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/BruksfildServices01/barber-queue/internal/domain/queue"
)

const DefaultTimezone = "America/Sao_Paulo"

var (
	mu    sync.RWMutex
	cache = map[string]*time.Location{}
)

// Location resolves tz, falling back to the shop default and then UTC when
// the zone database does not know it.
func Location(tz string) *time.Location {
	if tz == "" {
		tz = DefaultTimezone
	}

	mu.RLock()
	loc, ok := cache[tz]
	mu.RUnlock()
	if ok {
		return loc
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		if tz != DefaultTimezone {
			return Location(DefaultTimezone)
		}
		loc = time.UTC
	}

	mu.Lock()
	cache[tz] = loc
	mu.Unlock()
	return loc
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Now() time.Time {
	return time.Now().In(Location(DefaultTimezone))
}

// Clock returns a now function reading wall time in the shop's zone.
func Clock(loc *time.Location) func() time.Time {
	if loc == nil {
		return Now
	}
	return func() time.Time { return time.Now().In(loc) }
}

// Today is the partition date of t in loc.
func Today(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(queue.DateLayout)
}
