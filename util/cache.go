package util

import (
	"sync"
	"time"
)

type OnEvict func(key string, val interface{})

// Cache is a bounded map whose entries expire after a fixed TTL. Expired
// entries are dropped lazily on access and in bulk when the cache is full.
type Cache struct {
	OnEvict OnEvict

	ttl      time.Duration
	maxItems int
	entries  map[string]*entry
	mtx      sync.Mutex
	now      func() time.Time
}

type entry struct {
	val    interface{}
	expiry time.Time
}

var noopOnEvict = func(key string, val interface{}) {}

// NewCache returns a cache holding at most maxItems entries for ttl each.
// A zero ttl never expires entries.
func NewCache(ttl time.Duration, maxItems int) *Cache {
	if maxItems < 1 {
		maxItems = 1
	}
	return &Cache{
		OnEvict:  noopOnEvict,
		ttl:      ttl,
		maxItems: maxItems,
		entries:  make(map[string]*entry),
		now:      time.Now,
	}
}

func (c *Cache) Get(key string) (interface{}, bool) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	e := c.entries[key]
	if e == nil {
		return nil, false
	}
	if c.expired(e) {
		c.evict(key, e)
		return nil, false
	}
	return e.val, true
}

func (c *Cache) Set(key string, val interface{}) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.maxItems {
		c.reap()
		if len(c.entries) >= c.maxItems {
			c.evictOldest()
		}
	}
	var expiry time.Time
	if c.ttl > 0 {
		expiry = c.now().Add(c.ttl)
	}
	c.entries[key] = &entry{
		val:    val,
		expiry: expiry,
	}
}

func (c *Cache) Del(key string) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	delete(c.entries, key)
}

func (c *Cache) Len() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return len(c.entries)
}

// Reap drops every expired entry and returns how many were dropped.
func (c *Cache) Reap() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.reap()
}

func (c *Cache) reap() int {
	var reaped int
	for k, e := range c.entries {
		if c.expired(e) {
			c.evict(k, e)
			reaped++
		}
	}
	return reaped
}

func (c *Cache) evictOldest() {
	var oldestKey string
	var oldest *entry
	for k, e := range c.entries {
		if oldest == nil || e.expiry.Before(oldest.expiry) {
			oldestKey, oldest = k, e
		}
	}
	if oldest != nil {
		c.evict(oldestKey, oldest)
	}
}

func (c *Cache) expired(e *entry) bool {
	return !e.expiry.IsZero() && c.now().After(e.expiry)
}

func (c *Cache) evict(key string, e *entry) {
	delete(c.entries, key)
	c.OnEvict(key, e.val)
}
