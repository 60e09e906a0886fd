package derive

import (
	"strings"
	"testing"

	"github.com/vanderheijden86/taskman/pkg/metrics"
	"github.com/vanderheijden86/taskman/pkg/model"
	"github.com/vanderheijden86/taskman/pkg/store"
	"github.com/vanderheijden86/taskman/pkg/testutil"
	"pgregory.net/rapid"
)

func taskListGen() *rapid.Generator[[]model.Task] {
	return testutil.TaskList(20, rapid.StringMatching(`[a-zA-Z ]{0,12}`))
}

func TestFilterExactness(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tasks := taskListGen().Draw(t, "tasks")
		term := rapid.StringMatching(`[a-zA-Z]{0,3}`).Draw(t, "term")

		got := Filter(tasks, term)

		lower := strings.ToLower(term)
		var want []model.Task
		for _, task := range tasks {
			if strings.Contains(strings.ToLower(task.Text), lower) {
				want = append(want, task)
			}
		}
		if len(got) != len(want) {
			t.Fatalf("filter(%q) returned %d tasks, want %d", term, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("element %d = %+v, want %+v", i, got[i], want[i])
			}
		}
	})
}

func TestFilterEmptyTermMatchesAll(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tasks := taskListGen().Draw(t, "tasks")
		if got := Filter(tasks, ""); len(got) != len(tasks) {
			t.Fatalf("empty term kept %d of %d", len(got), len(tasks))
		}
	})
}

func TestFilterCaseInsensitive(t *testing.T) {
	tasks := []model.Task{
		{ID: 1, Text: "Buy MILK"},
		{ID: 2, Text: "walk dog"},
		{ID: 3, Text: "milkshake"},
	}

	tests := []struct {
		term string
		want []model.TaskID
	}{
		{"milk", []model.TaskID{1, 3}},
		{"MILK", []model.TaskID{1, 3}},
		{"Dog", []model.TaskID{2}},
		{"eggs", nil},
		{"", []model.TaskID{1, 2, 3}},
	}
	for _, tt := range tests {
		got := Filter(tasks, tt.term)
		if len(got) != len(tt.want) {
			t.Errorf("Filter(%q) returned %d tasks, want %d", tt.term, len(got), len(tt.want))
			continue
		}
		for i, id := range tt.want {
			if got[i].ID != id {
				t.Errorf("Filter(%q)[%d] = %d, want %d", tt.term, i, got[i].ID, id)
			}
		}
	}
}

func TestCompletedIsExactSubset(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tasks := taskListGen().Draw(t, "tasks")
		got := Completed(tasks)

		j := 0
		for _, task := range tasks {
			if !task.Completed {
				continue
			}
			if j >= len(got) || got[j] != task {
				t.Fatalf("missing completed task %+v", task)
			}
			j++
		}
		if j != len(got) {
			t.Fatalf("completed view has %d extra tasks", len(got)-j)
		}
	})
}

func TestCompletedFollowsToggle(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tasks := testutil.NonEmpty(taskListGen()).Draw(t, "tasks")
		target := rapid.SampledFrom(tasks).Draw(t, "target")

		after := Completed(store.Reduce(tasks, store.Toggle{ID: target.ID}))

		inView := false
		for _, task := range after {
			if task.ID == target.ID {
				inView = true
			}
		}
		if inView == target.Completed {
			t.Fatalf("task %d completed=%v before toggle, in view after=%v", target.ID, target.Completed, inView)
		}
	})
}

func TestMemoRecomputesOnlyOnKeyChange(t *testing.T) {
	m := NewMemo[int, string](nil)
	calls := 0
	compute := func() string {
		calls++
		return "v"
	}

	m.Get(1, compute)
	m.Get(1, compute)
	if calls != 1 {
		t.Fatalf("expected 1 compute for repeated key, got %d", calls)
	}
	m.Get(2, compute)
	if calls != 2 {
		t.Fatalf("expected recompute on new key, got %d calls", calls)
	}
	m.Get(1, compute)
	if calls != 3 {
		t.Fatalf("single slot should recompute the evicted key, got %d calls", calls)
	}
}

func TestViewsMemoizeOnVersion(t *testing.T) {
	metrics.SetEnabled(true)
	metrics.ResetAll()

	v := NewViews()
	tasks := []model.Task{{ID: 1, Text: "buy milk", Completed: true}, {ID: 2, Text: "eggs"}}

	first := v.Filtered(1, tasks, "milk")
	second := v.Filtered(1, tasks, "milk")
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("unexpected filter results %+v %+v", first, second)
	}
	if s := metrics.FilterMemo.Stats(); s.Hits != 1 || s.Misses != 1 {
		t.Errorf("expected 1 hit 1 miss, got %+v", s)
	}

	if got := v.Filtered(1, tasks, "eggs"); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("term change should recompute, got %+v", got)
	}

	v.Completed(1, tasks)
	v.Completed(1, tasks)
	if s := metrics.CompletedMemo.Stats(); s.Hits != 1 || s.Misses != 1 {
		t.Errorf("expected completed memo 1 hit 1 miss, got %+v", s)
	}

	toggled := store.Reduce(tasks, store.Toggle{ID: 1})
	if got := v.Completed(2, toggled); len(got) != 0 {
		t.Errorf("version change should recompute, got %+v", got)
	}
}

func TestFilterFixturePreservesOrder(t *testing.T) {
	tasks := testutil.NewDefault().Tasks(500)

	for _, term := range []string{"milk", "DOG", "pay rent", "zzz"} {
		got := Filter(tasks, term)
		testutil.AssertSubsequence(t, got, tasks)
		for _, task := range got {
			if !strings.Contains(strings.ToLower(task.Text), strings.ToLower(term)) {
				t.Errorf("%q matched %q", term, task.Text)
			}
		}
	}

	done := Completed(tasks)
	testutil.AssertSubsequence(t, done, tasks)
	testutil.AssertAllCompleted(t, done)
}
