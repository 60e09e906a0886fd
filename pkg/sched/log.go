package sched

import (
	"io"
	"log"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

// LogLevel controls scheduler event verbosity.
type LogLevel int

const (
	LogLevelNone LogLevel = iota
	LogLevelError
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelError:
		return "error"
	case LogLevelWarn:
		return "warn"
	case LogLevelInfo:
		return "info"
	case LogLevelDebug:
		return "debug"
	case LogLevelTrace:
		return "trace"
	default:
		return "none"
	}
}

// ParseLogLevel maps a config or env value to a level. Unknown values fall
// back to warn.
func ParseLogLevel(raw string) LogLevel {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "none", "off", "0":
		return LogLevelNone
	case "error", "err", "1":
		return LogLevelError
	case "warn", "warning", "2":
		return LogLevelWarn
	case "info", "3":
		return LogLevelInfo
	case "debug", "4":
		return LogLevelDebug
	case "trace", "5":
		return LogLevelTrace
	default:
		return LogLevelWarn
	}
}

// eventLog writes one JSON object per event. Events at or below level go to
// logger; every event goes to trace when a trace writer is set.
type eventLog struct {
	level  LogLevel
	logger *log.Logger

	traceMu sync.Mutex
	trace   io.Writer
}

func (e *eventLog) emit(level LogLevel, event string, fields map[string]any) {
	if e == nil || level == LogLevelNone {
		return
	}
	toLogger := e.logger != nil && e.level != LogLevelNone && level <= e.level
	if !toLogger && e.trace == nil {
		return
	}

	payload := map[string]any{
		"ts":        time.Now().UTC().Format(time.RFC3339Nano),
		"level":     level.String(),
		"component": "scheduler",
		"event":     event,
	}
	for k, v := range fields {
		payload[k] = v
	}
	b, err := json.Marshal(payload)
	if err != nil {
		if e.logger != nil {
			e.logger.Printf("scheduler: failed to marshal event %s: %v", event, err)
		}
		return
	}

	if toLogger {
		e.logger.Printf("%s", b)
	}
	if e.trace != nil {
		e.traceMu.Lock()
		_, _ = e.trace.Write(append(b, '\n'))
		e.traceMu.Unlock()
	}
}
