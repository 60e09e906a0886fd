package testutil

import (
	"testing"

	"github.com/vanderheijden86/taskman/pkg/model"
)

// AssertTaskCount verifies the expected number of tasks.
func AssertTaskCount(t testing.TB, tasks []model.Task, expected int) {
	t.Helper()
	if len(tasks) != expected {
		t.Errorf("expected %d tasks, got %d", expected, len(tasks))
	}
}

// AssertNoDuplicateIDs verifies all task IDs are unique.
func AssertNoDuplicateIDs(t testing.TB, tasks []model.Task) {
	t.Helper()
	seen := make(map[model.TaskID]bool)
	for _, task := range tasks {
		if seen[task.ID] {
			t.Errorf("duplicate task ID: %s", task.ID)
		}
		seen[task.ID] = true
	}
}

// AssertSubsequence verifies that sub appears in full in the same relative
// order, element for element.
func AssertSubsequence(t testing.TB, sub, full []model.Task) {
	t.Helper()
	j := 0
	for _, task := range full {
		if j < len(sub) && sub[j] == task {
			j++
		}
	}
	if j != len(sub) {
		t.Errorf("not an ordered subsequence: matched %d of %d tasks", j, len(sub))
	}
}

// AssertAllCompleted verifies every task has Completed set.
func AssertAllCompleted(t testing.TB, tasks []model.Task) {
	t.Helper()
	for _, task := range tasks {
		if !task.Completed {
			t.Errorf("task %s (%q) is not completed", task.ID, task.Text)
		}
	}
}

// AssertTexts verifies the task texts in order.
func AssertTexts(t testing.TB, tasks []model.Task, want ...string) {
	t.Helper()
	if len(tasks) != len(want) {
		t.Errorf("expected texts %q, got %d tasks", want, len(tasks))
		return
	}
	for i, task := range tasks {
		if task.Text != want[i] {
			t.Errorf("task %d: expected %q, got %q", i, want[i], task.Text)
		}
	}
}
