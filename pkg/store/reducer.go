// Package store holds the authoritative task list and the optimistic overlay.
//
// Both are mutated only through pure reducers: Reduce for the task list and
// ReduceOverlay for the overlay. Reducers never validate their input; callers
// check text with ValidText before dispatching Add.
package store

import (
	"strings"

	"github.com/vanderheijden86/taskman/pkg/model"
)

// Action is a task-list transition understood by Reduce.
type Action interface {
	Kind() string
}

// Add appends a new open task.
type Add struct {
	ID   model.TaskID
	Text string
}

// Toggle flips the completion flag of the task with the given id.
type Toggle struct {
	ID model.TaskID
}

// Filter replaces the whole list with Tasks. It is the bulk-replace entry
// point; the UI only uses it when a reconciler confirms an overlay entry.
type Filter struct {
	Tasks []model.Task
}

func (Add) Kind() string    { return "add" }
func (Toggle) Kind() string { return "toggle" }
func (Filter) Kind() string { return "filter" }

// NewAdd builds an Add action with a fresh id from ids.
func NewAdd(ids model.IDSource, text string) Add {
	return Add{ID: ids.Next(), Text: text}
}

// ValidText trims s and reports whether anything is left.
func ValidText(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

// Reduce returns the list that results from applying a to tasks.
//
// tasks is never modified. Toggle copies every element into a new slice, so
// untouched tasks keep their values; when no id matches, tasks itself is
// returned. Unknown actions return tasks unchanged.
func Reduce(tasks []model.Task, a Action) []model.Task {
	switch a := a.(type) {
	case Add:
		next := make([]model.Task, len(tasks), len(tasks)+1)
		copy(next, tasks)
		return append(next, model.Task{ID: a.ID, Text: a.Text})

	case Toggle:
		idx := indexOf(tasks, a.ID)
		if idx < 0 {
			return tasks
		}
		next := make([]model.Task, len(tasks))
		copy(next, tasks)
		next[idx].Completed = !next[idx].Completed
		return next

	case Filter:
		next := make([]model.Task, len(a.Tasks))
		copy(next, a.Tasks)
		return next

	default:
		return tasks
	}
}

func indexOf(tasks []model.Task, id model.TaskID) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}
