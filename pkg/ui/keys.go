package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds every binding the task manager understands.
type KeyMap struct {
	AddTask       key.Binding
	AddOptimistic key.Binding
	Toggle        key.Binding
	Up            key.Binding
	Down          key.Binding
	NextFocus     key.Binding
	PrevFocus     key.Binding
	FocusNewTask  key.Binding
	FocusSearch   key.Binding
	Copy          key.Binding
	Help          key.Binding
	Back          key.Binding
	Quit          key.Binding
	ForceQuit     key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		AddTask:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add task")),
		AddOptimistic: key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "add optimistic")),
		Toggle:        key.NewBinding(key.WithKeys(" ", "enter", "x"), key.WithHelp("space", "toggle")),
		Up:            key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:          key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		NextFocus:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		PrevFocus:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		FocusNewTask:  key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new task")),
		FocusSearch:   key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "search")),
		Copy:          key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy text")),
		Help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Back:          key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back to list")),
		Quit:          key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// contextKeys adapts a KeyMap to help.KeyMap for one UI context.
type contextKeys struct {
	km  KeyMap
	ctx Context
}

var _ help.KeyMap = contextKeys{}

func (c contextKeys) ShortHelp() []key.Binding {
	k := c.km
	switch c.ctx {
	case ContextNewTask:
		return []key.Binding{k.AddTask, k.AddOptimistic, k.NextFocus, k.Back, k.ForceQuit}
	case ContextSearch:
		return []key.Binding{k.NextFocus, k.FocusNewTask, k.Back, k.ForceQuit}
	default:
		return []key.Binding{k.Toggle, k.Up, k.Down, k.NextFocus, k.Help, k.Quit}
	}
}

func (c contextKeys) FullHelp() [][]key.Binding {
	k := c.km
	return [][]key.Binding{
		{k.AddTask, k.AddOptimistic, k.Toggle, k.Copy},
		{k.Up, k.Down, k.NextFocus, k.PrevFocus},
		{k.FocusNewTask, k.FocusSearch, k.Back},
		{k.Help, k.Quit, k.ForceQuit},
	}
}
