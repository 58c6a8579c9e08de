package cache

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// Cache is a tiny TTL map used in front of the report queries. Entries for a
// user must be dropped whenever that user writes a transaction.
type Cache struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[string]entry
}

type entry struct {
	val any
	exp time.Time
}

func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &Cache{
		ttl: ttl,
		m:   make(map[string]entry),
	}
}

// UserKey builds the per-user key for a named report.
func UserKey(report string, userID int64) string {
	return report + ":" + strconv.FormatInt(userID, 10)
}

func (c *Cache) Get(key string) (any, bool) {
	now := time.Now()
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if now.After(e.exp) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return nil, false
	}

	return e.val, true
}

func (c *Cache) Set(key string, val any) {
	c.mu.Lock()
	c.m[key] = entry{val: val, exp: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
}

// InvalidateUser drops every cached report for one user.
func (c *Cache) InvalidateUser(userID int64) {
	suffix := ":" + strconv.FormatInt(userID, 10)

	c.mu.Lock()
	for k := range c.m {
		if strings.HasSuffix(k, suffix) {
			delete(c.m, k)
		}
	}
	c.mu.Unlock()
}

func (c *Cache) Clear() {
	c.mu.Lock()
	c.m = make(map[string]entry)
	c.mu.Unlock()
}
