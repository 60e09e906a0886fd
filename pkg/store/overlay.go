package store

import (
	"context"

	"github.com/vanderheijden86/taskman/pkg/debug"
	"github.com/vanderheijden86/taskman/pkg/model"
)

// OverlayAction is a transition understood by ReduceOverlay.
type OverlayAction interface {
	Kind() string
}

// OverlayAdd appends a fully formed task to the overlay.
type OverlayAdd struct {
	Task model.Task
}

// OverlayConfirm removes an entry the backend accepted.
type OverlayConfirm struct {
	ID model.TaskID
}

// OverlayDiscard removes an entry the backend rejected.
type OverlayDiscard struct {
	ID model.TaskID
}

func (OverlayAdd) Kind() string     { return "overlay_add" }
func (OverlayConfirm) Kind() string { return "overlay_confirm" }
func (OverlayDiscard) Kind() string { return "overlay_discard" }

// Tracer receives the overlay's observability events.
type Tracer interface {
	Trace(event string, fields map[string]any)
}

// ReduceOverlay applies a to overlay. OverlayAdd emits a trace event through
// tr (which may be nil) and the debug log; the event has no other effect.
// Confirm and discard of an unknown id, and unknown actions, return overlay
// unchanged.
func ReduceOverlay(overlay []model.Task, a OverlayAction, tr Tracer) []model.Task {
	switch a := a.(type) {
	case OverlayAdd:
		debug.Log("optimistic add %s %q", a.Task.ID, a.Task.Text)
		if tr != nil {
			tr.Trace("optimistic_add", map[string]any{
				"id":        int64(a.Task.ID),
				"text":      a.Task.Text,
				"completed": a.Task.Completed,
			})
		}
		next := make([]model.Task, len(overlay), len(overlay)+1)
		copy(next, overlay)
		return append(next, a.Task)

	case OverlayConfirm:
		return without(overlay, a.ID)

	case OverlayDiscard:
		return without(overlay, a.ID)

	default:
		return overlay
	}
}

func without(tasks []model.Task, id model.TaskID) []model.Task {
	idx := indexOf(tasks, id)
	if idx < 0 {
		return tasks
	}
	next := make([]model.Task, 0, len(tasks)-1)
	next = append(next, tasks[:idx]...)
	return append(next, tasks[idx+1:]...)
}

// Reconciler confirms or rejects an optimistic task against an authority.
// A nil error confirms the task; any error rejects it.
//
// tm ships without a reconciler, so overlay entries stay visible for the
// life of the session.
type Reconciler interface {
	Reconcile(ctx context.Context, t model.Task) error
}

// ReconcilerFunc adapts a function to Reconciler.
type ReconcilerFunc func(ctx context.Context, t model.Task) error

// Reconcile calls f.
func (f ReconcilerFunc) Reconcile(ctx context.Context, t model.Task) error {
	return f(ctx, t)
}
