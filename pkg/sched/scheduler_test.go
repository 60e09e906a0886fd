package sched

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
)

func quietScheduler(opts ...Option) *Scheduler {
	base := []Option{WithLogger(log.New(io.Discard, "", 0))}
	return New(append(base, opts...)...)
}

func constJob(v any) Job {
	return func(context.Context) (any, error) { return v, nil }
}

func runCmd(t *testing.T, s *Scheduler, key string, prio Priority, job Job) ResultMsg {
	t.Helper()
	cmd := s.Submit(key, prio, job)
	if cmd == nil {
		t.Fatal("Submit returned nil command")
	}
	msg, ok := cmd().(ResultMsg)
	if !ok {
		t.Fatalf("expected ResultMsg, got %T", msg)
	}
	return msg
}

func TestTransitionPendingLifecycle(t *testing.T) {
	s := quietScheduler()
	defer s.Stop()

	if s.Pending() {
		t.Fatal("new scheduler should be idle")
	}
	cmd := s.Submit("filter", Transition, constJob("done"))
	if !s.Pending() {
		t.Fatal("expected pending after transition submit")
	}

	msg := cmd().(ResultMsg)
	if !s.Pending() {
		t.Fatal("result not yet accepted; should still be pending")
	}
	if !s.Accept(msg) {
		t.Fatal("expected current result to be accepted")
	}
	if s.Pending() {
		t.Fatal("expected idle after accept")
	}
	if msg.Value != "done" || msg.Err != nil {
		t.Errorf("unexpected result %+v", msg)
	}
}

func TestNewerRequestSupersedesOlder(t *testing.T) {
	s := quietScheduler()
	defer s.Stop()

	oldCmd := s.Submit("filter", Transition, constJob("old"))
	newCmd := s.Submit("filter", Transition, constJob("new"))

	oldMsg := oldCmd().(ResultMsg)
	if !errors.Is(oldMsg.Err, ErrSuperseded) {
		t.Errorf("expected superseded error for cancelled request, got %v", oldMsg.Err)
	}
	if s.Accept(oldMsg) {
		t.Fatal("superseded result must be dropped")
	}
	if !s.Pending() {
		t.Fatal("newer request still outstanding")
	}

	newMsg := newCmd().(ResultMsg)
	if !s.Accept(newMsg) || newMsg.Value != "new" {
		t.Fatalf("expected newer result accepted, got %+v", newMsg)
	}
	if s.Pending() {
		t.Fatal("expected idle once newest result accepted")
	}
}

func TestFinishedButStaleResultDropped(t *testing.T) {
	s := quietScheduler()
	defer s.Stop()

	first := runCmd(t, s, "filter", Transition, constJob(1))
	second := runCmd(t, s, "filter", Transition, constJob(2))

	if s.Accept(first) {
		t.Error("first result is stale once a second request exists")
	}
	if !s.Accept(second) {
		t.Error("second result should be current")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	s := quietScheduler()
	defer s.Stop()

	a := runCmd(t, s, "filter", Transition, constJob("a"))
	b := runCmd(t, s, "optimistic:1", Transition, constJob("b"))

	if !s.Accept(a) || !s.Accept(b) {
		t.Fatal("requests for different keys must not supersede each other")
	}
}

func TestUrgentRunsInline(t *testing.T) {
	s := quietScheduler()
	defer s.Stop()

	ran := false
	cmd := s.Submit("focus", Urgent, func(context.Context) (any, error) {
		ran = true
		return "ok", nil
	})
	if !ran {
		t.Fatal("urgent job should run before Submit returns")
	}
	if s.Pending() {
		t.Fatal("urgent work never marks pending")
	}
	msg := cmd().(ResultMsg)
	if !s.Accept(msg) || msg.Value != "ok" || msg.Priority != Urgent {
		t.Errorf("unexpected urgent result %+v", msg)
	}
}

func TestUrgentSupersedesTransition(t *testing.T) {
	s := quietScheduler()
	defer s.Stop()

	transition := s.Submit("filter", Transition, constJob("slow"))
	urgent := runCmd(t, s, "filter", Urgent, constJob("fast"))

	if s.Pending() {
		t.Error("urgent submission should clear the superseded transition's pending state")
	}
	if s.Accept(transition().(ResultMsg)) {
		t.Error("transition superseded by urgent work must be dropped")
	}
	if !s.Accept(urgent) {
		t.Error("urgent result should be current")
	}
}

func TestJobErrorWrapped(t *testing.T) {
	s := quietScheduler()
	defer s.Stop()

	boom := errors.New("boom")
	msg := runCmd(t, s, "reconcile:1", Transition, func(context.Context) (any, error) {
		return nil, boom
	})

	var werr WorkError
	if !errors.As(msg.Err, &werr) || werr.Key != "reconcile:1" {
		t.Fatalf("expected WorkError for key, got %v", msg.Err)
	}
	if !errors.Is(msg.Err, boom) {
		t.Error("WorkError should unwrap to cause")
	}
}

func TestJobPanicRecovered(t *testing.T) {
	s := quietScheduler()
	defer s.Stop()

	msg := runCmd(t, s, "filter", Transition, func(context.Context) (any, error) {
		panic("bad")
	})
	if msg.Err == nil || !strings.Contains(msg.Err.Error(), "panic: bad") {
		t.Fatalf("expected recovered panic, got %v", msg.Err)
	}
}

func TestSemaphoreBoundsTransitions(t *testing.T) {
	s := quietScheduler(WithWorkers(1))
	defer s.Stop()

	started := make(chan struct{})
	release := make(chan struct{})
	blocking := s.Submit("a", Transition, func(context.Context) (any, error) {
		close(started)
		<-release
		return nil, nil
	})

	var running sync.WaitGroup
	running.Add(1)
	go func() {
		defer running.Done()
		blocking()
	}()
	<-started

	// A second key's job queues behind the semaphore; superseding it while it
	// waits abandons it without running the job.
	ran := false
	waiting := s.Submit("b", Transition, func(context.Context) (any, error) {
		ran = true
		return nil, nil
	})
	done := make(chan ResultMsg, 1)
	go func() { done <- waiting().(ResultMsg) }()

	time.Sleep(10 * time.Millisecond)
	s.Submit("b", Transition, constJob(nil))

	select {
	case msg := <-done:
		if !errors.Is(msg.Err, ErrSuperseded) {
			t.Errorf("expected waiting job to be superseded, got %v", msg.Err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("superseded waiter did not return")
	}
	if ran {
		t.Error("superseded job should not run")
	}

	close(release)
	running.Wait()
}

func TestStopRejectsNewWork(t *testing.T) {
	s := quietScheduler()
	s.Submit("filter", Transition, constJob(nil))
	s.Stop()

	if s.Pending() {
		t.Error("stop should clear pending state")
	}
	if cmd := s.Submit("filter", Transition, constJob(nil)); cmd != nil {
		t.Error("expected nil command after stop")
	}
}

func TestTraceWriterReceivesJSONEvents(t *testing.T) {
	var buf bytes.Buffer
	s := quietScheduler(WithTrace(&buf), WithLogLevel(LogLevelNone))
	defer s.Stop()

	msg := runCmd(t, s, "filter", Transition, constJob(nil))
	s.Accept(msg)
	s.Trace("optimistic_add", map[string]any{"id": 1, "text": "buy milk"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	events := make([]string, 0, len(lines))
	for _, line := range lines {
		var ev map[string]any
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		if ev["component"] != "scheduler" {
			t.Errorf("unexpected component in %v", ev)
		}
		events = append(events, ev["event"].(string))
	}
	joined := strings.Join(events, ",")
	for _, want := range []string{"queued", "settled", "optimistic_add"} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected %q event, got %v", want, events)
		}
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	s := New(WithLogger(log.New(&buf, "", 0)), WithLogLevel(LogLevelWarn))
	defer s.Stop()

	s.Trace("info_event", nil)
	if buf.Len() != 0 {
		t.Errorf("info event should be filtered at warn level, got %q", buf.String())
	}

	runCmd(t, s, "x", Transition, func(context.Context) (any, error) {
		return nil, errors.New("fail")
	})
	if !strings.Contains(buf.String(), "job_error") {
		t.Errorf("expected job_error at warn level, got %q", buf.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"none": LogLevelNone, "OFF": LogLevelNone, "error": LogLevelError,
		"warning": LogLevelWarn, " info ": LogLevelInfo, "4": LogLevelDebug,
		"trace": LogLevelTrace, "bogus": LogLevelWarn,
	}
	for raw, want := range tests {
		if got := ParseLogLevel(raw); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestDeferred(t *testing.T) {
	d := NewDeferred("")
	d.Set("mi")
	d.Set("milk")
	if !d.Stale() || d.Value() != "" || d.Urgent() != "milk" {
		t.Fatalf("unexpected deferred state urgent=%q value=%q", d.Urgent(), d.Value())
	}
	d.Commit("milk")
	if d.Stale() || d.Value() != "milk" {
		t.Fatalf("expected caught-up deferred value, got %q", d.Value())
	}
}
