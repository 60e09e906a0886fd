package metrics

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
)

// Report is the JSON document written by `tm --metrics` on exit.
type Report struct {
	Timing   []TimingStats    `json:"timing"`
	Cache    []CacheStats     `json:"cache"`
	Counters map[string]int64 `json:"counters"`
}

// Snapshot gathers the current value of every registered metric.
func Snapshot() Report {
	r := Report{
		Timing:   AllTimingStats(),
		Counters: make(map[string]int64),
	}
	for _, c := range AllCacheMetrics() {
		r.Cache = append(r.Cache, c.Stats())
	}
	for _, c := range AllCounters() {
		r.Counters[c.Name()] = c.Value()
	}
	return r
}

// WriteJSON writes an indented Snapshot to w.
func WriteJSON(w io.Writer) error {
	data, err := json.MarshalIndent(Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling metrics: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}
