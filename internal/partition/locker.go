package partition

import (
	"context"
	"sync"

	"github.com/BruksfildServices01/barber-queue/internal/domain/queue"
)

// Locker serializes mutations of one barber day. Different days never block
// each other.
type Locker interface {
	Lock(ctx context.Context, key queue.Key) (unlock func(), err error)
}

// LocalLocker is the in-process locker used when the API runs as a single
// instance.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[queue.Key]*slot
}

type slot struct {
	sem  chan struct{}
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: map[queue.Key]*slot{}}
}

func (l *LocalLocker) Lock(ctx context.Context, key queue.Key) (func(), error) {
	l.mu.Lock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{sem: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	l.mu.Unlock()

	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(key, s)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.sem
			l.release(key, s)
		})
	}, nil
}

func (l *LocalLocker) release(key queue.Key, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}
