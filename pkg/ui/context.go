package ui

// Context identifies what currently owns the keyboard, for context-sensitive
// help.
type Context string

const (
	ContextHelp    Context = "help"
	ContextNewTask Context = "new-task"
	ContextSearch  Context = "search"
	ContextList    Context = "list"
)

// CurrentContext returns the current UI context identifier.
// Priority order: help overlay, then the focused field.
func (m Model) CurrentContext() Context {
	if m.help.ShowAll {
		return ContextHelp
	}
	switch m.activeFocus() {
	case focusNewTask:
		return ContextNewTask
	case focusSearch:
		return ContextSearch
	default:
		return ContextList
	}
}
