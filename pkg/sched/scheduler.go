// Package sched is the work queue behind the UI's deferred values and
// transitions.
//
// Work is submitted under a key with a priority. Urgent work runs inline on
// the bubbletea update loop. Transition work runs as a tea.Cmd off the loop,
// bounded by a semaphore, and can be superseded: a newer submission for the
// same key cancels the older one, and the older result is dropped by Accept
// even if it already finished.
package sched

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"runtime/debug"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/semaphore"

	tmdebug "github.com/vanderheijden86/taskman/pkg/debug"
	"github.com/vanderheijden86/taskman/pkg/metrics"
)

// Priority orders submitted work.
type Priority int

const (
	// Urgent work runs immediately and is never cancelled.
	Urgent Priority = iota
	// Transition work may lag, be interrupted and be redone.
	Transition
)

func (p Priority) String() string {
	if p == Urgent {
		return "urgent"
	}
	return "transition"
}

// ErrSuperseded is reported for a transition cancelled by a newer request for
// the same key.
var ErrSuperseded = errors.New("superseded by newer request")

// WorkError wraps a failed or panicking job with its key.
type WorkError struct {
	Key   string
	Cause error
}

func (e WorkError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Key, e.Cause)
}

func (e WorkError) Unwrap() error {
	return e.Cause
}

// Job computes a value. Transition jobs should return early when ctx is done.
type Job func(ctx context.Context) (any, error)

// ResultMsg carries a job's outcome back to the update loop. Pass it to
// Accept before using it.
type ResultMsg struct {
	Key      string
	Gen      uint64
	Priority Priority
	Value    any
	Err      error
	Queued   time.Time
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithWorkers bounds how many transition jobs run at once.
func WithWorkers(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.workers = int64(n)
		}
	}
}

// WithLogLevel sets the verbosity of events written to the logger.
func WithLogLevel(l LogLevel) Option {
	return func(s *Scheduler) {
		s.events.level = l
	}
}

// WithLogger sets the destination for leveled events.
func WithLogger(l *log.Logger) Option {
	return func(s *Scheduler) {
		s.events.logger = l
	}
}

// WithTrace copies every event, regardless of level, to w as JSON lines.
func WithTrace(w io.Writer) Option {
	return func(s *Scheduler) {
		s.events.trace = w
	}
}

// Scheduler tracks per-key generations and the pending state of transitions.
// A single Scheduler is shared by every copy of the UI model.
type Scheduler struct {
	workers int64
	sem     *semaphore.Weighted
	events  *eventLog

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	gens     map[string]uint64
	inflight map[string]context.CancelFunc
	pending  map[string]bool
	stopped  bool
}

// New creates a scheduler. Call Stop when the program exits.
func New(opts ...Option) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		workers:  1,
		events:   &eventLog{level: LogLevelWarn, logger: log.Default()},
		ctx:      ctx,
		cancel:   cancel,
		gens:     make(map[string]uint64),
		inflight: make(map[string]context.CancelFunc),
		pending:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sem = semaphore.NewWeighted(s.workers)
	return s
}

// Submit queues job under key. The returned command yields a ResultMsg.
//
// Urgent jobs run before Submit returns. Transition jobs run when the command
// is executed and mark the key pending until Accept sees the current result.
// Either kind supersedes an unfinished transition for the same key.
func (s *Scheduler) Submit(key string, prio Priority, job Job) tea.Cmd {
	queued := time.Now()

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	gen := s.gens[key] + 1
	s.gens[key] = gen
	if cancel, ok := s.inflight[key]; ok {
		cancel()
		delete(s.inflight, key)
		metrics.TransitionsSuperseded.Inc()
		s.events.emit(LogLevelDebug, "superseded", map[string]any{"key": key, "gen": gen - 1})
	}
	metrics.TransitionsSubmitted.Inc()

	if prio == Urgent {
		delete(s.pending, key)
		s.mu.Unlock()
		s.events.emit(LogLevelTrace, "run_urgent", map[string]any{"key": key, "gen": gen})
		v, err := s.run(s.ctx, key, job)
		msg := ResultMsg{Key: key, Gen: gen, Priority: Urgent, Value: v, Err: err, Queued: queued}
		return func() tea.Msg { return msg }
	}

	ctx, cancel := context.WithCancel(s.ctx)
	s.inflight[key] = cancel
	s.pending[key] = true
	s.mu.Unlock()
	s.events.emit(LogLevelTrace, "queued", map[string]any{"key": key, "gen": gen})

	return func() tea.Msg {
		msg := ResultMsg{Key: key, Gen: gen, Priority: Transition, Queued: queued}
		if err := s.sem.Acquire(ctx, 1); err != nil {
			msg.Err = ErrSuperseded
			return msg
		}
		defer s.sem.Release(1)
		if ctx.Err() != nil {
			msg.Err = ErrSuperseded
			return msg
		}
		msg.Value, msg.Err = s.run(ctx, key, job)
		if ctx.Err() != nil && msg.Err == nil {
			msg.Err = ErrSuperseded
		}
		return msg
	}
}

// run executes job, converting panics and errors into WorkError.
func (s *Scheduler) run(ctx context.Context, key string, job Job) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = WorkError{Key: key, Cause: fmt.Errorf("panic: %v\n%s", r, debug.Stack())}
			s.events.emit(LogLevelError, "job_panic", map[string]any{"key": key, "panic": fmt.Sprint(r)})
		}
	}()
	v, err = job(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.events.emit(LogLevelWarn, "job_error", map[string]any{"key": key, "error": err.Error()})
		err = WorkError{Key: key, Cause: err}
	}
	return v, err
}

// Accept reports whether msg is the latest result for its key. Stale results
// (including every superseded one) return false and must be ignored. A
// current transition result settles the key's pending state.
func (s *Scheduler) Accept(msg ResultMsg) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msg.Gen != s.gens[msg.Key] {
		metrics.StaleResultsDropped.Inc()
		s.events.emit(LogLevelDebug, "drop_stale", map[string]any{
			"key": msg.Key, "gen": msg.Gen, "current": s.gens[msg.Key],
		})
		return false
	}
	if cancel, ok := s.inflight[msg.Key]; ok {
		cancel()
		delete(s.inflight, msg.Key)
	}
	delete(s.pending, msg.Key)

	if msg.Priority == Transition && !msg.Queued.IsZero() {
		latency := time.Since(msg.Queued)
		metrics.TransitionLatency.Record(latency)
		tmdebug.LogTiming("transition "+msg.Key, latency)
		s.events.emit(LogLevelInfo, "settled", map[string]any{
			"key": msg.Key, "gen": msg.Gen, "latency_ms": float64(latency.Microseconds()) / 1000.0,
		})
	}
	return true
}

// Pending reports whether any transition is queued or running.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending) > 0
}

// Trace records an observability event at info level.
func (s *Scheduler) Trace(event string, fields map[string]any) {
	s.events.emit(LogLevelInfo, event, fields)
}

// Stop cancels all in-flight transitions. Later submissions return nil.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.inflight = make(map[string]context.CancelFunc)
	s.pending = make(map[string]bool)
	s.mu.Unlock()
	s.cancel()
}
