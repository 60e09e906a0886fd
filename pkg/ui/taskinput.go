package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Focuser is the only capability a TaskInput hands out: moving keyboard focus
// to its text field.
type Focuser interface {
	Focus()
}

// TaskInput is the labelled "New task" text field.
type TaskInput struct {
	label   string
	input   textinput.Model
	mounted bool
}

// NewTaskInput creates an unmounted input. It becomes focusable after the
// first window size message.
func NewTaskInput(label string, charLimit int) *TaskInput {
	ti := textinput.New()
	ti.Placeholder = "What needs doing?"
	ti.Prompt = "> "
	ti.CharLimit = charLimit
	ti.Width = 40
	return &TaskInput{label: label, input: ti}
}

// Handle returns the narrow focus handle for this input.
func (t *TaskInput) Handle() Focuser {
	return focusHandle{in: t}
}

type focusHandle struct {
	in *TaskInput
}

// Focus is a no-op until the input is mounted.
func (h focusHandle) Focus() {
	if h.in == nil || !h.in.mounted {
		return
	}
	h.in.input.Focus()
}

func (t *TaskInput) mount(width int) {
	t.mounted = true
	if width > 8 {
		t.input.Width = width - 4
	}
}

func (t *TaskInput) blur() {
	t.input.Blur()
}

func (t *TaskInput) focused() bool {
	return t.input.Focused()
}

func (t *TaskInput) value() string {
	return t.input.Value()
}

func (t *TaskInput) reset() {
	t.input.Reset()
}

func (t *TaskInput) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	t.input, cmd = t.input.Update(msg)
	return cmd
}

func (t *TaskInput) view() string {
	return t.input.View()
}
