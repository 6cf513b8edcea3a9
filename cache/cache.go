// Package cache keeps recent analysis reports in memory for the HTTP service.
package cache

import (
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/seo-optimizer/seo-analyzer/analyzer"
)

// Cache entry with expiration
type entry struct {
	url       string
	report    *analyzer.SeoReport
	timestamp time.Time
}

// Stats describes the cache contents and lookups since creation
type Stats struct {
	Entries int           `json:"entries"`
	Hits    int           `json:"hits"`
	Misses  int           `json:"misses"`
	TTL     time.Duration `json:"ttl"`
}

// ReportCache is a TTL cache of reports keyed by URL.
// A zero TTL or zero size disables caching.
type ReportCache struct {
	mu         sync.RWMutex
	entries    map[uint64]entry
	ttl        time.Duration
	maxEntries int
	hits       int
	misses     int
	now        func() time.Time
	stop       chan struct{}
	stopOnce   sync.Once
}

// New creates a new cache
func New(ttl time.Duration, maxEntries int) *ReportCache {
	return &ReportCache{
		entries:    make(map[uint64]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
		stop:       make(chan struct{}),
	}
}

// generateKey creates a hash key for the URL
func generateKey(url string) uint64 {
	return xxhash.Sum64String(url)
}

func (c *ReportCache) enabled() bool {
	return c.ttl > 0 && c.maxEntries > 0
}

// Get returns the cached report for url if it has not expired
func (c *ReportCache) Get(url string) (*analyzer.SeoReport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, found := c.entries[generateKey(url)]
	if found && e.url == url && c.now().Sub(e.timestamp) < c.ttl {
		c.hits++
		return e.report, true
	}
	c.misses++
	return nil, false
}

// Set stores a report, evicting the oldest entries when over capacity
func (c *ReportCache) Set(url string, report *analyzer.SeoReport) {
	if !c.enabled() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[generateKey(url)] = entry{url: url, report: report, timestamp: c.now()}
	if len(c.entries) > c.maxEntries {
		c.evictOldestLocked()
	}
}

// Len returns the number of stored entries, expired or not
func (c *ReportCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes every entry
func (c *ReportCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]entry)
}

// Stats returns a snapshot of cache counters
func (c *ReportCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{Entries: len(c.entries), Hits: c.hits, Misses: c.misses, TTL: c.ttl}
}

// Cleanup removes expired entries and enforces the size limit
func (c *ReportCache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if now.Sub(e.timestamp) >= c.ttl {
			delete(c.entries, key)
		}
	}
	if len(c.entries) > c.maxEntries {
		c.evictOldestLocked()
	}
}

func (c *ReportCache) evictOldestLocked() {
	type aged struct {
		key       uint64
		timestamp time.Time
	}
	entries := make([]aged, 0, len(c.entries))
	for key, e := range c.entries {
		entries = append(entries, aged{key, e.timestamp})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].timestamp.Before(entries[j].timestamp)
	})

	for i := 0; i < len(entries)-c.maxEntries; i++ {
		delete(c.entries, entries[i].key)
	}
}

// Start runs Cleanup every interval until Stop is called
func (c *ReportCache) Start(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.Cleanup()
			case <-c.stop:
				return
			}
		}
	}()
}

// Stop ends the cleanup loop. It is safe to call more than once.
func (c *ReportCache) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}
