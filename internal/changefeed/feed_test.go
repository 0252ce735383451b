package changefeed

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-queue/internal/domain/queue"
)

var day = queue.Key{BarberID: 3, Date: "2026-03-10"}

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "channel closed")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}

func testFeed(t *testing.T, f Feed) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := f.Subscribe(ctx, day)
	require.NoError(t, err)

	other := Event{BarberID: 3, Date: "2026-03-11", Version: 9}
	require.NoError(t, f.Publish(context.Background(), other))
	require.NoError(t, f.Publish(context.Background(), Event{BarberID: 3, Date: day.Date, Version: 4, Operation: "move"}))

	ev := receive(t, ch)
	assert.Equal(t, int64(4), ev.Version)
	assert.Equal(t, "move", ev.Operation)

	cancel()
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestLocalFeed(t *testing.T) {
	f := NewLocalFeed()
	testFeed(t, f)

	assert.Eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		return len(f.subs) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestRedisFeed(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	testFeed(t, NewRedisFeed(rdb, nil))
}
