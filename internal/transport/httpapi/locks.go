package httpapi

import "sync"

// turnLocks serializes turns per session id: at most one in-flight turn
// per session, later requests for the same id queue. Entries are dropped
// once the last holder releases, so the map stays bounded by concurrency.
type turnLocks struct {
	mu    sync.Mutex
	locks map[string]*turnLock
}

type turnLock struct {
	sync.Mutex
	refs int
}

func newTurnLocks() *turnLocks {
	return &turnLocks{locks: make(map[string]*turnLock)}
}

func (t *turnLocks) acquire(id string) *turnLock {
	t.mu.Lock()
	l, ok := t.locks[id]
	if !ok {
		l = &turnLock{}
		t.locks[id] = l
	}
	l.refs++
	t.mu.Unlock()

	l.Lock()
	return l
}

func (t *turnLocks) release(id string, l *turnLock) {
	l.Unlock()

	t.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(t.locks, id)
	}
	t.mu.Unlock()
}
