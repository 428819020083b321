package auth

import (
	"container/list"
	"sync"
	"time"
)

const (
	sessionCacheCapacity = 4096
	sessionCacheTTL      = time.Minute
)

// sessionCache is an LRU of token to resolved session. It only ever
// holds positive results, and only for a short window, so revocations
// take effect within sessionCacheTTL of the durable delete.
type sessionCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	entries  map[string]*sessionEntry
	order    *list.List
}

type sessionEntry struct {
	token     string
	session   Session
	expiresAt time.Time
	element   *list.Element
}

func newSessionCache(capacity int, ttl time.Duration) *sessionCache {
	if capacity <= 0 {
		capacity = sessionCacheCapacity
	}
	if ttl <= 0 {
		ttl = sessionCacheTTL
	}
	return &sessionCache{
		capacity: capacity,
		ttl:      ttl,
		entries:  make(map[string]*sessionEntry),
		order:    list.New(),
	}
}

func (c *sessionCache) get(token string) (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[token]
	if !ok {
		return Anonymous(), false
	}
	if time.Now().After(e.expiresAt) {
		c.remove(e)
		return Anonymous(), false
	}
	c.order.MoveToFront(e.element)
	return e.session, true
}

func (c *sessionCache) set(token string, session Session) {
	if !session.Authenticated {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[token]; ok {
		e.session = session
		e.expiresAt = time.Now().Add(c.ttl)
		c.order.MoveToFront(e.element)
		return
	}

	e := &sessionEntry{
		token:     token,
		session:   session,
		expiresAt: time.Now().Add(c.ttl),
	}
	e.element = c.order.PushFront(e)
	c.entries[token] = e

	if len(c.entries) > c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.remove(oldest.Value.(*sessionEntry))
		}
	}
}

func (c *sessionCache) invalidate(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[token]; ok {
		c.remove(e)
	}
}

// remove expects c.mu to be held.
func (c *sessionCache) remove(e *sessionEntry) {
	c.order.Remove(e.element)
	delete(c.entries, e.token)
}
