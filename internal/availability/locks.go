package availability

import (
	"context"
	"sync"
)

// lockTable hands out one mutex per Key. Waiting honours ctx so a caller's
// deadline bounds how long a reservation can queue.
type lockTable struct {
	mu    sync.Mutex
	locks map[Key]*keyLock
}

type keyLock struct {
	ch   chan struct{}
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[Key]*keyLock)}
}

// acquire locks keys in the order given, which must be sorted. On failure every
// lock already taken is released and ctx's error is returned.
func (t *lockTable) acquire(ctx context.Context, keys []Key) (func(), error) {
	held := make([]Key, 0, len(keys))
	for _, k := range keys {
		l := t.ref(k)
		select {
		case l.ch <- struct{}{}:
			held = append(held, k)
		case <-ctx.Done():
			t.unref(k)
			t.release(held)
			return nil, ctx.Err()
		}
	}

	var once sync.Once
	return func() { once.Do(func() { t.release(held) }) }, nil
}

func (t *lockTable) release(keys []Key) {
	for i := len(keys) - 1; i >= 0; i-- {
		t.mu.Lock()
		l := t.locks[keys[i]]
		t.mu.Unlock()
		<-l.ch
		t.unref(keys[i])
	}
}

func (t *lockTable) ref(k Key) *keyLock {
	t.mu.Lock()
	defer t.mu.Unlock()

	l, ok := t.locks[k]
	if !ok {
		l = &keyLock{ch: make(chan struct{}, 1)}
		t.locks[k] = l
	}
	l.refs++
	return l
}

func (t *lockTable) unref(k Key) {
	t.mu.Lock()
	defer t.mu.Unlock()

	l := t.locks[k]
	l.refs--
	if l.refs == 0 {
		delete(t.locks, k)
	}
}
