package session

import "sync"

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Locker serializes turns per session id. Two concurrent requests for the
// same session cannot interleave state reads and writes; requests for
// different sessions do not contend. Entries are refcounted and dropped
// once the last holder unlocks, so the map does not grow with the number
// of sessions ever seen.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

func NewLocker() *Locker {
	return &Locker{locks: make(map[string]*lockEntry)}
}

// Lock acquires the mutex for sessionID, creating it on first use, and
// returns the matching unlock func.
func (l *Locker) Lock(sessionID string) func() {
	l.mu.Lock()
	e, ok := l.locks[sessionID]
	if !ok {
		e = &lockEntry{}
		l.locks[sessionID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, sessionID)
		}
		l.mu.Unlock()
	}
}
