// Package rendercache memoizes rendered message HTML. Markdown
// conversion with syntax highlighting is the most expensive step of a
// render pass, and assistant messages are re-rendered on every state
// change, so the widget keeps a bounded cache keyed by source text.
package rendercache

import (
	"container/list"
	"sync"
	"time"
)

// entryOverhead approximates the fixed bookkeeping cost per entry, in
// bytes, counted against the memory budget alongside the value itself.
const entryOverhead = 64

// Config bounds a cache instance. Immutable once the cache is built.
type Config struct {
	MaxEntries     int
	MaxMemoryBytes int64
	TTL            time.Duration
}

// DefaultConfig is sized for a single widget's conversation history.
func DefaultConfig() Config {
	return Config{
		MaxEntries:     200,
		MaxMemoryBytes: 4 << 20,
		TTL:            30 * time.Minute,
	}
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Evictions int64   `json:"evictions"`
	Size      int     `json:"size"`
	TotalSize int64   `json:"totalSize"`
	HitRate   float64 `json:"hitRate"`
}

type entry struct {
	key        string
	value      string
	sizeBytes  int64
	insertTime time.Time
	// lastAccess ordering is carried by position in the lru list.
}

// Cache is an LRU cache with TTL expiry and a total memory bound.
// Values are plain strings, so callers always hold copies and can never
// mutate a cached entry.
type Cache struct {
	mu      sync.Mutex
	cfg     Config
	entries map[string]*list.Element
	lru     *list.List // front = most recently used

	hits      int64
	misses    int64
	evictions int64
	totalSize int64

	now func() time.Time // test hook
}

// New creates a cache with the given bounds. Non-positive bounds fall
// back to the defaults.
func New(cfg Config) *Cache {
	def := DefaultConfig()
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = def.MaxEntries
	}
	if cfg.MaxMemoryBytes <= 0 {
		cfg.MaxMemoryBytes = def.MaxMemoryBytes
	}
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	return &Cache{
		cfg:     cfg,
		entries: make(map[string]*list.Element),
		lru:     list.New(),
		now:     time.Now,
	}
}

// entrySize is the memory charged for a value.
func entrySize(value string) int64 {
	return int64(len(value)) + entryOverhead
}

// Set stores a rendered value. A value whose own size exceeds the total
// memory budget is never stored; Set is then a silent no-op.
func (c *Cache) Set(key, value string) {
	size := entrySize(value)
	if size > c.cfg.MaxMemoryBytes {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		e := el.Value.(*entry)
		c.totalSize += size - e.sizeBytes
		e.value = value
		e.sizeBytes = size
		e.insertTime = c.now()
		c.lru.MoveToFront(el)
	} else {
		e := &entry{key: key, value: value, sizeBytes: size, insertTime: c.now()}
		c.entries[key] = c.lru.PushFront(e)
		c.totalSize += size
	}

	c.evictLocked()
}

// Get returns the cached value for key, or ok=false on a miss. An
// expired entry is evicted and reported as a miss. A hit refreshes the
// entry's recency.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		c.misses++
		return "", false
	}

	e := el.Value.(*entry)
	if c.now().Sub(e.insertTime) > c.cfg.TTL {
		c.removeLocked(el)
		c.evictions++
		c.misses++
		return "", false
	}

	c.lru.MoveToFront(el)
	c.hits++
	return e.value, true
}

// Clear drops every entry and resets all counters to zero.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.lru.Init()
	c.hits = 0
	c.misses = 0
	c.evictions = 0
	c.totalSize = 0
}

// GetStats returns a snapshot of the cache counters. The hit rate is 0
// when no lookups have occurred.
func (c *Cache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Size:      c.lru.Len(),
		TotalSize: c.totalSize,
	}
	if lookups := c.hits + c.misses; lookups > 0 {
		s.HitRate = float64(c.hits) / float64(lookups)
	}
	return s
}

// evictLocked removes least-recently-used entries until both the entry
// count and memory bounds hold.
func (c *Cache) evictLocked() {
	for c.lru.Len() > c.cfg.MaxEntries || c.totalSize > c.cfg.MaxMemoryBytes {
		oldest := c.lru.Back()
		if oldest == nil {
			return
		}
		c.removeLocked(oldest)
		c.evictions++
	}
}

func (c *Cache) removeLocked(el *list.Element) {
	e := el.Value.(*entry)
	c.lru.Remove(el)
	delete(c.entries, e.key)
	c.totalSize -= e.sizeBytes
}
