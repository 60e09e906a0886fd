package debug

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"
)

func TestLogDisabledWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetEnabled(false)

	Log("hidden %d", 1)
	Dump("task", struct{ ID int }{1})
	LogEnterExit("noop")()

	if buf.Len() != 0 {
		t.Fatalf("expected no output when disabled, got %q", buf.String())
	}
}

func TestLogEnabled(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetEnabled(true)
	defer SetEnabled(false)

	Log("adding %s", "buy milk")
	LogIf(false, "skipped")
	LogIf(true, "kept")

	out := buf.String()
	if !strings.Contains(out, "[TM_DEBUG] ") {
		t.Errorf("expected prefix in output, got %q", out)
	}
	if !strings.Contains(out, "adding buy milk") {
		t.Errorf("expected message in output, got %q", out)
	}
	if strings.Contains(out, "skipped") {
		t.Errorf("LogIf(false) should not write, got %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("LogIf(true) should write, got %q", out)
	}
}

func TestLogEnterExit(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetEnabled(true)
	defer SetEnabled(false)

	LogEnterExit("filter")()

	out := buf.String()
	if !strings.Contains(out, "-> filter") || !strings.Contains(out, "<- filter") {
		t.Errorf("expected enter and exit lines, got %q", out)
	}
}

func TestWriterFollowsSetOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	if Writer() != &buf {
		t.Fatal("Writer should return the SetOutput destination")
	}
}

func TestLogTiming(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	SetEnabled(true)
	defer SetEnabled(false)

	LogTiming("transition filter", 1500*time.Microsecond)

	if got := buf.String(); !strings.Contains(got, "transition filter took 1.5ms") {
		t.Errorf("unexpected timing line %q", got)
	}
}
