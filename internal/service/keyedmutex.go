package service

import (
	"context"
	"sync"
	"time"
)

// lockWait is the bounded wait on the per-key write locks. Contention past
// this surfaces as ErrBusy and a 503 at the edge.
const lockWait = 10 * time.Second

type kmEntry struct {
	sem  chan struct{}
	refs int
}

// KeyedMutex serializes writers on a string key. Entries are refcounted and
// evicted when the last holder or waiter leaves, so the map stays bounded
// by the number of in-flight writes.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*kmEntry
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*kmEntry)}
}

// Acquire blocks until the key's lock is held, the wait elapses, or ctx is
// done. On success the returned func releases the lock; it must be called
// exactly once.
func (k *KeyedMutex) Acquire(ctx context.Context, key string, wait time.Duration) (func(), error) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &kmEntry{sem: make(chan struct{}, 1)}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case e.sem <- struct{}{}:
		return func() {
			<-e.sem
			k.release(key, e)
		}, nil
	case <-timer.C:
		k.release(key, e)
		return nil, ErrBusy
	case <-ctx.Done():
		k.release(key, e)
		return nil, ctx.Err()
	}
}

func (k *KeyedMutex) release(key string, e *kmEntry) {
	k.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()
}
