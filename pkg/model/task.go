// Package model defines the task record shared by the store, the derived
// views and the terminal UI.
package model

import (
	"fmt"
	"sync/atomic"
	"time"
)

// TaskID identifies a task within one running session.
type TaskID int64

func (id TaskID) String() string {
	return fmt.Sprintf("#%d", int64(id))
}

// Task is a single entry in the task list.
type Task struct {
	ID        TaskID `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// StatusIcon returns the checkbox glyph for the task's completion state.
func (t Task) StatusIcon() string {
	if t.Completed {
		return "[x]"
	}
	return "[ ]"
}

// IDSource mints task ids. Implementations must never hand out the same id
// twice for the lifetime of the source.
type IDSource interface {
	Next() TaskID
}

// Counter is a strictly monotonic IDSource safe for concurrent use.
type Counter struct {
	last atomic.Int64
}

// NewCounter returns a counter whose first id is 1.
func NewCounter() *Counter {
	return &Counter{}
}

// NewCounterFrom seeds the counter from a clock reading so ids remain
// timestamp-derived. Two ids minted within the same millisecond still differ.
func NewCounterFrom(t time.Time) *Counter {
	c := &Counter{}
	c.last.Store(t.UnixMilli() - 1)
	return c
}

// Next returns the next id.
func (c *Counter) Next() TaskID {
	return TaskID(c.last.Add(1))
}
