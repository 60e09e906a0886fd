// Package testutil provides task fixtures for tests.
// Seeded generators produce deterministic output for reproducible tests;
// the rapid generators feed property tests.
package testutil

import (
	"math/rand"
	"strings"
	"time"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/taskman/pkg/model"
)

// GeneratorConfig controls fixture generation.
type GeneratorConfig struct {
	Seed           int64    // Random seed for determinism (0 = use current time)
	FirstID        int64    // ID of the first task (default: 1)
	Words          []string // Vocabulary for task text (nil = defaultWords)
	MaxWords       int      // Words per task text (default: 3)
	CompletedRatio float64  // Fraction of tasks marked completed
}

var defaultWords = []string{
	"buy", "milk", "eggs", "bread", "walk", "dog", "call", "mum",
	"fix", "bike", "pay", "rent", "book", "dentist", "water", "plants",
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:           42, // Deterministic
		FirstID:        1,
		MaxWords:       3,
		CompletedRatio: 0.3,
	}
}

// Generator creates task fixtures.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.FirstID == 0 {
		cfg.FirstID = 1
	}
	if len(cfg.Words) == 0 {
		cfg.Words = defaultWords
	}
	if cfg.MaxWords <= 0 {
		cfg.MaxWords = 3
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// Text returns one task text of 1..MaxWords words.
func (g *Generator) Text() string {
	n := 1 + g.rng.Intn(g.cfg.MaxWords)
	words := make([]string, n)
	for i := range words {
		words[i] = g.cfg.Words[g.rng.Intn(len(g.cfg.Words))]
	}
	return strings.Join(words, " ")
}

// Tasks returns n tasks with consecutive ids starting at FirstID.
func (g *Generator) Tasks(n int) []model.Task {
	tasks := make([]model.Task, n)
	for i := range tasks {
		tasks[i] = model.Task{
			ID:        model.TaskID(g.cfg.FirstID + int64(i)),
			Text:      g.Text(),
			Completed: g.rng.Float64() < g.cfg.CompletedRatio,
		}
	}
	return tasks
}

// ============================================================================
// Property-test generators
// ============================================================================

// TaskList draws up to maxLen tasks with unique ids 1..n and text from text.
func TaskList(maxLen int, text *rapid.Generator[string]) *rapid.Generator[[]model.Task] {
	return rapid.Custom(func(t *rapid.T) []model.Task {
		n := rapid.IntRange(0, maxLen).Draw(t, "n")
		tasks := make([]model.Task, n)
		for i := range tasks {
			tasks[i] = model.Task{
				ID:        model.TaskID(i + 1),
				Text:      text.Draw(t, "text"),
				Completed: rapid.Bool().Draw(t, "completed"),
			}
		}
		return tasks
	})
}

// NonEmpty restricts a list generator to lists with at least one task.
func NonEmpty(g *rapid.Generator[[]model.Task]) *rapid.Generator[[]model.Task] {
	return g.Filter(func(ts []model.Task) bool { return len(ts) > 0 })
}
