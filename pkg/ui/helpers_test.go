package ui

import (
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestTruncateRunesHelper(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		max      int
		suffix   string
		expected string
	}{
		{"fits", "buy milk", 10, "…", "buy milk"},
		{"exact", "buy milk", 8, "…", "buy milk"},
		{"ascii cut", "buy milk and eggs", 8, "...", "buy m..."},
		{"zero width", "anything", 0, "…", ""},
		{"suffix too wide", "abcdef", 2, "...", ".."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateRunesHelper(tt.in, tt.max, tt.suffix); got != tt.expected {
				t.Errorf("truncateRunesHelper(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.expected)
			}
		})
	}
}

func TestTruncateRunesHelperWideRunes(t *testing.T) {
	s := "日本語のタスク名前"
	got := truncateRunesHelper(s, 7, "..")
	if w := runewidth.StringWidth(got); w > 7 {
		t.Errorf("expected width <= 7, got %d for %q", w, got)
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("abcdef", 4); got != "abcdef" {
		t.Errorf("padRight should not cut, got %q", got)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct{ i, n, want int }{
		{0, 0, 0}, {5, 0, 0}, {-1, 3, 0}, {1, 3, 1}, {3, 3, 2},
	}
	for _, tt := range tests {
		if got := clamp(tt.i, tt.n); got != tt.want {
			t.Errorf("clamp(%d, %d) = %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}
