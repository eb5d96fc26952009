package cache

import (
	"sync"
	"time"

	"docqa/internal/port"
)

// ContentCache is an in-memory TTL+LRU cache of fetched document content,
// keyed by document ID. One cache belongs to one session; it is handed to
// the index builder explicitly, never held as package state.
type ContentCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	order   []string
	maxSize int
	ttl     time.Duration
}

type cacheEntry struct {
	text      string
	timestamp time.Time
}

var _ port.ContentCache = (*ContentCache)(nil)

func NewContentCache(maxSize int, ttl time.Duration) *ContentCache {
	if maxSize <= 0 {
		maxSize = 256
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &ContentCache{
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

func (c *ContentCache) Get(docID string) (string, bool) {
	c.mu.RLock()
	entry, exists := c.entries[docID]
	c.mu.RUnlock()

	if !exists {
		return "", false
	}

	if time.Since(entry.timestamp) > c.ttl {
		c.mu.Lock()
		delete(c.entries, docID)
		c.removeFromOrder(docID)
		c.mu.Unlock()
		return "", false
	}

	c.mu.Lock()
	c.moveToEnd(docID)
	c.mu.Unlock()

	return entry.text, true
}

func (c *ContentCache) Put(docID, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[docID]; exists {
		c.entries[docID] = &cacheEntry{text: text, timestamp: time.Now()}
		c.moveToEnd(docID)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[docID] = &cacheEntry{text: text, timestamp: time.Now()}
	c.order = append(c.order, docID)
}

func (c *ContentCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.order = c.order[:0]
}

func (c *ContentCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *ContentCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *ContentCache) moveToEnd(docID string) {
	c.removeFromOrder(docID)
	c.order = append(c.order, docID)
}

func (c *ContentCache) removeFromOrder(docID string) {
	for i, k := range c.order {
		if k == docID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
