// Package cache holds built outlines keyed by their source content.
package cache

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"github.com/warrenburton/Hatch/internal/symbols"
	"github.com/warrenburton/Hatch/internal/version"
)

// DefaultMaxEntries bounds the cache when no size is configured.
const DefaultMaxEntries = 2048

// Key identifies one (build, file, source) triple.
type Key uint64

// KeyFor hashes the builder fingerprint, the file name and the source bytes.
func KeyFor(file string, source []byte) Key {
	d := xxhash.New()
	_, _ = d.WriteString(version.BuildID())
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(file)
	_, _ = d.Write([]byte{0})
	_, _ = d.Write(source)
	return Key(d.Sum64())
}

type entry struct {
	key   Key
	roots []symbols.Symbol
}

// OutlineCache is a bounded, content-addressed outline store. Cached symbol
// trees are shared between callers and must be treated as read-only.
type OutlineCache struct {
	mu         sync.Mutex
	maxEntries int
	entries    map[Key]*list.Element
	order      *list.List // front is oldest

	hits      int64
	misses    int64
	evictions int64
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Evictions int64   `json:"evictions"`
	Entries   int     `json:"entries"`
	HitRate   float64 `json:"hit_rate"`
}

// NewOutlineCache creates a cache holding at most maxEntries outlines.
// A non-positive size selects DefaultMaxEntries.
func NewOutlineCache(maxEntries int) *OutlineCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &OutlineCache{
		maxEntries: maxEntries,
		entries:    make(map[Key]*list.Element),
		order:      list.New(),
	}
}

// Get returns the cached outline for file with this exact source.
func (c *OutlineCache) Get(file string, source []byte) ([]symbols.Symbol, bool) {
	if c == nil {
		return nil, false
	}
	key := KeyFor(file, source)

	c.mu.Lock()
	var roots []symbols.Symbol
	el, ok := c.entries[key]
	if ok {
		roots = el.Value.(*entry).roots
	}
	c.mu.Unlock()

	if !ok {
		atomic.AddInt64(&c.misses, 1)
		return nil, false
	}
	atomic.AddInt64(&c.hits, 1)
	return roots, true
}

// Put stores roots for file and source, evicting the oldest entries when full.
func (c *OutlineCache) Put(file string, source []byte, roots []symbols.Symbol) {
	if c == nil {
		return
	}
	key := KeyFor(file, source)

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*entry).roots = roots
		return
	}
	c.entries[key] = c.order.PushBack(&entry{key: key, roots: roots})

	for c.order.Len() > c.maxEntries {
		oldest := c.order.Front()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*entry).key)
		atomic.AddInt64(&c.evictions, 1)
	}
}

// Len returns the number of cached outlines.
func (c *OutlineCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear drops every entry and resets the counters.
func (c *OutlineCache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[Key]*list.Element)
	c.order.Init()
	c.mu.Unlock()

	atomic.StoreInt64(&c.hits, 0)
	atomic.StoreInt64(&c.misses, 0)
	atomic.StoreInt64(&c.evictions, 0)
}

// Stats returns the current counters.
func (c *OutlineCache) Stats() Stats {
	if c == nil {
		return Stats{}
	}
	hits := atomic.LoadInt64(&c.hits)
	misses := atomic.LoadInt64(&c.misses)
	s := Stats{
		Hits:      hits,
		Misses:    misses,
		Evictions: atomic.LoadInt64(&c.evictions),
		Entries:   c.Len(),
	}
	if total := hits + misses; total > 0 {
		s.HitRate = float64(hits) / float64(total)
	}
	return s
}
