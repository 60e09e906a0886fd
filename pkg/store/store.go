package store

import (
	"slices"

	"github.com/vanderheijden86/taskman/pkg/model"
)

// Store owns the authoritative task list for one TUI session.
//
// Version increases whenever a dispatch changes the list, which lets derived
// views memoize on (Version, input) instead of comparing slices. Store is not
// safe for concurrent use; it lives on the bubbletea update loop. Off-loop
// readers take a Snapshot.
type Store struct {
	tasks   []model.Task
	version uint64
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Dispatch applies a and reports whether the list changed.
func (s *Store) Dispatch(a Action) bool {
	next := Reduce(s.tasks, a)
	if sameList(next, s.tasks) {
		return false
	}
	s.tasks = next
	s.version++
	return true
}

// Tasks returns the current list. Callers must treat it as read-only.
func (s *Store) Tasks() []model.Task {
	return s.tasks
}

// Snapshot returns a copy of the current list.
func (s *Store) Snapshot() []model.Task {
	return slices.Clone(s.tasks)
}

// Version returns the change counter.
func (s *Store) Version() uint64 {
	return s.version
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// sameList is true when next is literally the slice Reduce was given, which
// is how Reduce signals a no-op.
func sameList(next, prev []model.Task) bool {
	if len(next) != len(prev) {
		return false
	}
	if len(next) == 0 {
		return true
	}
	return &next[0] == &prev[0]
}
