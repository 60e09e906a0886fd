package metrics

import "sync/atomic"

// CacheMetric counts hits and misses for a memoized computation.
type CacheMetric struct {
	name   string
	hits   atomic.Int64
	misses atomic.Int64
}

func newCacheMetric(name string) *CacheMetric {
	return &CacheMetric{name: name}
}

// Hit records a cache hit.
func (c *CacheMetric) Hit() {
	if Enabled() {
		c.hits.Add(1)
	}
}

// Miss records a cache miss.
func (c *CacheMetric) Miss() {
	if Enabled() {
		c.misses.Add(1)
	}
}

// Stats returns a snapshot of the counters.
func (c *CacheMetric) Stats() CacheStats {
	hits := c.hits.Load()
	misses := c.misses.Load()
	var ratio float64
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return CacheStats{Name: c.name, Hits: hits, Misses: misses, HitRatio: ratio}
}

// Reset clears the counters.
func (c *CacheMetric) Reset() {
	c.hits.Store(0)
	c.misses.Store(0)
}

// CacheStats holds a snapshot of cache statistics.
type CacheStats struct {
	Name     string  `json:"name"`
	Hits     int64   `json:"hits"`
	Misses   int64   `json:"misses"`
	HitRatio float64 `json:"hit_ratio"`
}

// Counter is a monotonically increasing event count.
type Counter struct {
	name string
	n    atomic.Int64
}

func newCounter(name string) *Counter {
	return &Counter{name: name}
}

// Inc adds one to the counter.
func (c *Counter) Inc() {
	if Enabled() {
		c.n.Add(1)
	}
}

// Value returns the current count.
func (c *Counter) Value() int64 {
	return c.n.Load()
}

// Name returns the counter name.
func (c *Counter) Name() string {
	return c.name
}

// Reset zeroes the counter.
func (c *Counter) Reset() {
	c.n.Store(0)
}

var (
	FilterMemo    = newCacheMetric("filter_memo")
	CompletedMemo = newCacheMetric("completed_memo")

	TransitionsSubmitted  = newCounter("transitions_submitted")
	TransitionsSuperseded = newCounter("transitions_superseded")
	StaleResultsDropped   = newCounter("stale_results_dropped")
)

// AllCacheMetrics returns all registered cache metrics.
func AllCacheMetrics() []*CacheMetric {
	return []*CacheMetric{FilterMemo, CompletedMemo}
}

// AllCounters returns all registered counters.
func AllCounters() []*Counter {
	return []*Counter{TransitionsSubmitted, TransitionsSuperseded, StaleResultsDropped}
}
