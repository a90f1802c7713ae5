package store

import "sync"

// keyedLocks serializes writers per entity key ("route:7",
// "template:Delay"). Bulk operations take the global lock exclusively and
// wait out every keyed holder.
type keyedLocks struct {
	global sync.RWMutex

	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{entries: make(map[string]*lockEntry)}
}

// lock acquires the lock for key and returns its release func.
func (l *keyedLocks) lock(key string) func() {
	l.global.RLock()

	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &lockEntry{}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()

		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.entries, key)
		}
		l.mu.Unlock()

		l.global.RUnlock()
	}
}

// lockAll excludes every keyed writer.
func (l *keyedLocks) lockAll() func() {
	l.global.Lock()
	return l.global.Unlock
}
