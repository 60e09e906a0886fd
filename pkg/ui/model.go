// Package ui provides the terminal user interface for tm.
package ui

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/taskman/pkg/config"
	"github.com/vanderheijden86/taskman/pkg/debug"
	"github.com/vanderheijden86/taskman/pkg/derive"
	"github.com/vanderheijden86/taskman/pkg/model"
	"github.com/vanderheijden86/taskman/pkg/sched"
	"github.com/vanderheijden86/taskman/pkg/store"
)

type focus int

const (
	focusNewTask focus = iota
	focusSearch
	focusList
	focusCount
)

func (f focus) String() string {
	switch f {
	case focusNewTask:
		return "new-task"
	case focusSearch:
		return "search"
	default:
		return "list"
	}
}

const (
	filterKey       = "filter"
	optimisticKeyFx = "optimistic:%d"
	reconcileKeyFx  = "reconcile:%d"
)

// clipboardWrite is swapped out in tests.
var clipboardWrite = clipboard.WriteAll

type optimisticResult struct {
	task model.Task
}

type reconcileResult struct {
	task model.Task
}

// Options wires a Model's collaborators. Zero values get defaults.
type Options struct {
	Config     config.Config
	Theme      *Theme
	Scheduler  *sched.Scheduler
	IDs        model.IDSource
	Reconciler store.Reconciler
}

// Model is the task manager's Bubble Tea model.
type Model struct {
	// Data
	store      *store.Store
	overlay    []model.Task
	ids        model.IDSource
	views      *derive.Views
	sched      *sched.Scheduler
	reconciler store.Reconciler

	// Derived views, refreshed after every store change or term commit
	visible   []model.Task
	completed []model.Task

	// UI Components
	newTask *TaskInput
	search  textinput.Model
	term    sched.Deferred[string]
	spinner spinner.Model
	help    help.Model
	keys    KeyMap
	theme   Theme

	// Focus and view state
	focused  focus
	cursor   int
	spinning bool
	blink    bool
	ready    bool
	width    int
	height   int

	// Status message (for temporary feedback)
	statusMsg     string
	statusIsError bool
}

// NewModel creates an empty task manager.
func NewModel(opts Options) Model {
	cfg := opts.Config
	if cfg.Theme == "" {
		cfg.Theme = config.DefaultConfig().Theme
	}

	theme := NewTheme(cfg.Theme, nil)
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	s := opts.Scheduler
	if s == nil {
		s = sched.New(sched.WithWorkers(cfg.Scheduler.Workers))
	}
	ids := opts.IDs
	if ids == nil {
		ids = model.NewCounter()
	}

	search := textinput.New()
	search.Placeholder = "Filter tasks"
	search.Prompt = "/ "
	search.CharLimit = cfg.UI.CharLimit
	search.Width = 40
	newTask := NewTaskInput("New task", cfg.UI.CharLimit)
	if cfg.UI.NoBlink {
		search.Cursor.SetMode(cursor.CursorStatic)
		newTask.input.Cursor.SetMode(cursor.CursorStatic)
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(theme.Indicator))

	h := help.New()
	h.ShowAll = cfg.UI.ShowHelp

	m := Model{
		store:      store.New(),
		ids:        ids,
		views:      derive.NewViews(),
		sched:      s,
		reconciler: opts.Reconciler,
		newTask:    newTask,
		search:     search,
		term:       sched.NewDeferred(""),
		spinner:    sp,
		help:       h,
		keys:       DefaultKeyMap(),
		theme:      theme,
		focused:    focusNewTask,
		blink:      !cfg.UI.NoBlink,
	}
	m.refreshViews()
	return m
}

func (m Model) Init() tea.Cmd {
	if !m.blink {
		return nil
	}
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	m.syncFocus()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.search.Width = max(10, msg.Width-4)
		m.newTask.mount(msg.Width)
		if !m.ready {
			m.ready = true
			if m.focused == focusNewTask {
				m.newTask.Handle().Focus()
			}
		}

	case sched.ResultMsg:
		cmds = append(cmds, m.handleResult(msg))

	case spinner.TickMsg:
		if !m.sched.Pending() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))

	default:
		// Cursor blink and other component messages.
		cmds = append(cmds, m.updateFocusedInput(msg))
	}

	cmds = append(cmds, m.ensureSpinner())
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.statusMsg = ""
	m.statusIsError = false

	if key.Matches(msg, m.keys.ForceQuit) {
		return tea.Quit
	}
	switch {
	case key.Matches(msg, m.keys.NextFocus):
		m.setFocus((m.focused + 1) % focusCount)
		return nil
	case key.Matches(msg, m.keys.PrevFocus):
		m.setFocus((m.focused + focusCount - 1) % focusCount)
		return nil
	case key.Matches(msg, m.keys.FocusNewTask):
		m.setFocus(focusNewTask)
		return nil
	case key.Matches(msg, m.keys.FocusSearch):
		m.setFocus(focusSearch)
		return nil
	}

	switch m.focused {
	case focusNewTask:
		return m.handleNewTaskKeys(msg)
	case focusSearch:
		return m.handleSearchKeys(msg)
	default:
		return m.handleListKeys(msg)
	}
}

func (m *Model) handleNewTaskKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.AddTask):
		m.addTask()
		return nil
	case key.Matches(msg, m.keys.AddOptimistic):
		return m.addOptimistic()
	case key.Matches(msg, m.keys.Back):
		m.setFocus(focusList)
		return nil
	}
	return m.newTask.update(msg)
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Back) {
		m.setFocus(focusList)
		return nil
	}
	if msg.Type == tea.KeyEnter {
		return nil
	}
	var cmd tea.Cmd
	before := m.search.Value()
	m.search, cmd = m.search.Update(msg)
	if after := m.search.Value(); after != before {
		return tea.Batch(cmd, m.setSearchTerm(after))
	}
	return cmd
}

func (m *Model) handleListKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Back):
		if m.help.ShowAll && key.Matches(msg, m.keys.Back) {
			m.help.ShowAll = false
			return nil
		}
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m.cursor = clamp(m.cursor-1, len(m.visible))
	case key.Matches(msg, m.keys.Down):
		m.cursor = clamp(m.cursor+1, len(m.visible))
	case key.Matches(msg, m.keys.Toggle):
		if len(m.visible) > 0 {
			m.toggle(m.visible[m.cursor].ID)
		}
	case key.Matches(msg, m.keys.Copy):
		m.copySelected()
	}
	return nil
}

func (m *Model) updateFocusedInput(msg tea.Msg) tea.Cmd {
	switch m.focused {
	case focusNewTask:
		return m.newTask.update(msg)
	case focusSearch:
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return cmd
	}
	return nil
}

// activeFocus is the area that owns the keyboard. The new-task handle can
// focus its field from outside Update, so a focused field wins over m.focused.
func (m Model) activeFocus() focus {
	if m.focused != focusNewTask && m.newTask.focused() {
		return focusNewTask
	}
	return m.focused
}

// syncFocus folds a focus change made through the handle into m.focused and
// blurs the other input.
func (m *Model) syncFocus() {
	if f := m.activeFocus(); f != m.focused {
		m.setFocus(f)
	}
}

func (m *Model) setFocus(f focus) {
	m.focused = f
	m.newTask.blur()
	m.search.Blur()
	switch f {
	case focusNewTask:
		m.newTask.Handle().Focus()
	case focusSearch:
		m.search.Focus()
	}
}

// addTask dispatches Add for the new-task text. Blank text is dropped
// without feedback.
func (m *Model) addTask() {
	text, ok := store.ValidText(m.newTask.value())
	if !ok {
		return
	}
	m.store.Dispatch(store.NewAdd(m.ids, text))
	m.newTask.reset()
	m.refreshViews()
}

// addOptimistic submits the new-task text to the overlay as a transition.
func (m *Model) addOptimistic() tea.Cmd {
	text, ok := store.ValidText(m.newTask.value())
	if !ok {
		return nil
	}
	task := model.Task{ID: m.ids.Next(), Text: text}
	m.newTask.reset()
	return m.sched.Submit(fmt.Sprintf(optimisticKeyFx, task.ID), sched.Transition,
		func(context.Context) (any, error) {
			return optimisticResult{task: task}, nil
		})
}

func (m *Model) toggle(id model.TaskID) {
	if m.store.Dispatch(store.Toggle{ID: id}) {
		m.refreshViews()
	}
}

func (m *Model) setSearchTerm(term string) tea.Cmd {
	m.term.Set(term)
	version, tasks, views := m.store.Version(), m.store.Tasks(), m.views
	return m.sched.Submit(filterKey, sched.Transition, func(ctx context.Context) (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		views.Filtered(version, tasks, term)
		return term, nil
	})
}

func (m *Model) handleResult(msg sched.ResultMsg) tea.Cmd {
	accepted := m.sched.Accept(msg)
	debug.LogIf(!accepted, "dropped stale result %s gen=%d", msg.Key, msg.Gen)
	if !accepted {
		return nil
	}

	switch v := msg.Value.(type) {
	case string:
		if msg.Key == filterKey && msg.Err == nil {
			m.term.Commit(v)
			m.refreshViews()
		}

	case optimisticResult:
		m.overlay = store.ReduceOverlay(m.overlay, store.OverlayAdd{Task: v.task}, m.sched)
		debug.Dump("overlay", m.overlay)
		if m.reconciler == nil {
			return nil
		}
		r, task := m.reconciler, v.task
		return m.sched.Submit(fmt.Sprintf(reconcileKeyFx, task.ID), sched.Transition,
			func(ctx context.Context) (any, error) {
				return reconcileResult{task: task}, r.Reconcile(ctx, task)
			})

	case reconcileResult:
		if msg.Err != nil {
			m.overlay = store.ReduceOverlay(m.overlay, store.OverlayDiscard{ID: v.task.ID}, m.sched)
			m.statusMsg = fmt.Sprintf("Rejected %q: %v", v.task.Text, msg.Err)
			m.statusIsError = true
			return nil
		}
		m.overlay = store.ReduceOverlay(m.overlay, store.OverlayConfirm{ID: v.task.ID}, m.sched)
		merged := append(m.store.Snapshot(), v.task)
		m.store.Dispatch(store.Filter{Tasks: merged})
		m.refreshViews()
	}
	return nil
}

// refreshViews recomputes the filtered and completed views from the store and
// the deferred term. Both are memoized on the store version.
func (m *Model) refreshViews() {
	defer debug.LogEnterExit("refreshViews")()
	version, tasks := m.store.Version(), m.store.Tasks()
	m.visible = m.views.Filtered(version, tasks, m.term.Value())
	m.completed = m.views.Completed(version, tasks)
	m.cursor = clamp(m.cursor, len(m.visible))
	debug.Log("views v%d term=%q visible=%d completed=%d", version, m.term.Value(), len(m.visible), len(m.completed))
}

func (m *Model) ensureSpinner() tea.Cmd {
	if m.spinning || !m.sched.Pending() {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

func (m *Model) copySelected() {
	if len(m.visible) == 0 {
		return
	}
	text := m.visible[m.cursor].Text
	if err := clipboardWrite(text); err != nil {
		m.statusMsg = fmt.Sprintf("Copy failed: %v", err)
		m.statusIsError = true
		return
	}
	m.statusMsg = fmt.Sprintf("Copied %q", text)
}

// Stop releases the scheduler.
func (m Model) Stop() {
	m.sched.Stop()
}

// FocusHandle returns the new-task field's focus capability.
func (m Model) FocusHandle() Focuser {
	return m.newTask.Handle()
}

// Tasks returns the authoritative task list (exposed for testing).
func (m Model) Tasks() []model.Task {
	return m.store.Snapshot()
}

// Overlay returns the optimistic tasks.
func (m Model) Overlay() []model.Task {
	return m.overlay
}

// VisibleTasks returns the filtered list currently rendered.
func (m Model) VisibleTasks() []model.Task {
	return m.visible
}

// CompletedTasks returns the completed view.
func (m Model) CompletedTasks() []model.Task {
	return m.completed
}

// SearchTerm returns the term as typed.
func (m Model) SearchTerm() string {
	return m.term.Urgent()
}

// DeferredSearchTerm returns the term the visible list was filtered with.
func (m Model) DeferredSearchTerm() string {
	return m.term.Value()
}

// Pending reports whether a transition is outstanding.
func (m Model) Pending() bool {
	return m.sched.Pending()
}

// FocusState returns the focused area as a string for testing.
func (m Model) FocusState() string {
	return m.activeFocus().String()
}

// NewTaskFocused reports whether the new-task field has keyboard focus.
func (m Model) NewTaskFocused() bool {
	return m.newTask.focused()
}

// StatusMessage returns the status line text and whether it is an error.
func (m Model) StatusMessage() (string, bool) {
	return m.statusMsg, m.statusIsError
}
