package derive

import (
	"sync"

	"github.com/vanderheijden86/taskman/pkg/metrics"
	"github.com/vanderheijden86/taskman/pkg/model"
)

// Memo caches the result of the last computation and recomputes only when
// the key changes. Safe for concurrent use so transition workers and the
// update loop can share one instance.
type Memo[K comparable, V any] struct {
	mu    sync.Mutex
	valid bool
	key   K
	value V
	stats *metrics.CacheMetric
}

// NewMemo returns an empty memo that reports hits and misses to stats
// (which may be nil).
func NewMemo[K comparable, V any](stats *metrics.CacheMetric) *Memo[K, V] {
	return &Memo[K, V]{stats: stats}
}

// Get returns the cached value for key, calling compute on a miss.
func (m *Memo[K, V]) Get(key K, compute func() V) V {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.valid && m.key == key {
		if m.stats != nil {
			m.stats.Hit()
		}
		return m.value
	}
	if m.stats != nil {
		m.stats.Miss()
	}
	m.value = compute()
	m.key = key
	m.valid = true
	return m.value
}

// FilterKey identifies one filter computation: a store version and a term.
type FilterKey struct {
	Version uint64
	Term    string
}

// Views bundles the memoized derivations over a versioned task list.
type Views struct {
	filtered  *Memo[FilterKey, []model.Task]
	completed *Memo[uint64, []model.Task]
}

// NewViews returns empty memoized views.
func NewViews() *Views {
	return &Views{
		filtered:  NewMemo[FilterKey, []model.Task](metrics.FilterMemo),
		completed: NewMemo[uint64, []model.Task](metrics.CompletedMemo),
	}
}

// Filtered returns Filter(tasks, term), recomputed only when version or term
// changes.
func (v *Views) Filtered(version uint64, tasks []model.Task, term string) []model.Task {
	return v.filtered.Get(FilterKey{Version: version, Term: term}, func() []model.Task {
		return Filter(tasks, term)
	})
}

// Completed returns Completed(tasks), recomputed only when version changes.
func (v *Views) Completed(version uint64, tasks []model.Task) []model.Task {
	return v.completed.Get(version, func() []model.Task {
		return Completed(tasks)
	})
}
