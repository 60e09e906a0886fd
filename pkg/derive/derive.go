// Package derive computes the views the UI renders from the task store:
// the search-filtered list and the completed subset.
package derive

import (
	"strings"

	"github.com/vanderheijden86/taskman/pkg/metrics"
	"github.com/vanderheijden86/taskman/pkg/model"
)

// Filter keeps every task whose text contains term, ignoring case.
// An empty term keeps everything. Order is preserved and tasks is not
// modified.
func Filter(tasks []model.Task, term string) []model.Task {
	defer metrics.Timer(metrics.FilterCompute)()

	needle := strings.ToLower(term)
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if Matches(t, needle) {
			out = append(out, t)
		}
	}
	return out
}

// Matches reports whether t's text contains the already lower-cased needle.
func Matches(t model.Task, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Text), needle)
}

// Completed returns the tasks whose Completed flag is set, in order.
func Completed(tasks []model.Task) []model.Task {
	defer metrics.Timer(metrics.CompletedCompute)()

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed {
			out = append(out, t)
		}
	}
	return out
}
