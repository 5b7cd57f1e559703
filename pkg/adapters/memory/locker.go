package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/spiritual/pkg/ports"
)

// Locker implements ports.ProfileLocker within one process.
// The ttl is ignored: locks are held until released.
type Locker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

// slot is dropped once no holder or waiter references it.
type slot struct {
	ch   chan struct{}
	refs int
}

var _ ports.ProfileLocker = (*Locker)(nil)

// NewLocker creates an in-process locker.
func NewLocker() *Locker {
	return &Locker{slots: make(map[string]*slot)}
}

func (l *Locker) acquire(key string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	return s
}

func (l *Locker) release(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}

// Lock blocks until the key is free or ctx is done.
func (l *Locker) Lock(ctx context.Context, key string, _ time.Duration) (ports.UnlockFunc, error) {
	s := l.acquire(key)
	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, s)
		return nil, ctx.Err()
	}
	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			<-s.ch
			l.release(key, s)
		})
		return nil
	}, nil
}
