package util

import (
	"sync"
)

type refCounter struct {
	readers int
	writers int
}

// KeyLocker hands out non-blocking reader/writer locks per key.
type KeyLocker interface {
	TryLock(key string) bool
	TryRLock(key string) bool
	Unlock(key string)
	RUnlock(key string)
	// Held returns the number of keys with at least one holder.
	Held() int
}

type keyLocker struct {
	inUse map[string]*refCounter
	mtx   sync.Mutex
}

func NewKeyLocker() KeyLocker {
	return &keyLocker{
		inUse: make(map[string]*refCounter),
	}
}

func (l *keyLocker) TryLock(key string) bool {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	c := l.counter(key)
	if c.readers > 0 || c.writers > 0 {
		return false
	}
	c.writers++
	return true
}

func (l *keyLocker) TryRLock(key string) bool {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	c := l.counter(key)
	if c.writers > 0 {
		return false
	}
	c.readers++
	return true
}

func (l *keyLocker) Unlock(key string) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	c, ok := l.inUse[key]
	if !ok || c.writers != 1 {
		panic("unlock of unlocked key " + key)
	}
	c.writers--
	l.release(key, c)
}

func (l *keyLocker) RUnlock(key string) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	c, ok := l.inUse[key]
	if !ok || c.readers < 1 {
		panic("runlock of unlocked key " + key)
	}
	c.readers--
	l.release(key, c)
}

func (l *keyLocker) Held() int {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return len(l.inUse)
}

func (l *keyLocker) counter(key string) *refCounter {
	c, ok := l.inUse[key]
	if !ok {
		c = &refCounter{}
		l.inUse[key] = c
	}
	return c
}

func (l *keyLocker) release(key string, c *refCounter) {
	if c.readers == 0 && c.writers == 0 {
		delete(l.inUse, key)
	}
}
