package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/taskman/pkg/metrics"
	"github.com/vanderheijden86/taskman/pkg/model"
	"github.com/vanderheijden86/taskman/pkg/version"
)

const defaultViewWidth = 80

func (m Model) View() string {
	defer metrics.Timer(metrics.UIRender)()

	width := m.width
	if width <= 0 {
		width = defaultViewWidth
	}

	var b strings.Builder
	b.WriteString(m.renderHeader(width))
	b.WriteString("\n\n")

	b.WriteString(m.theme.Label.Render(m.newTask.label))
	b.WriteString("\n")
	b.WriteString(m.newTask.view())
	b.WriteString("\n")

	b.WriteString(m.theme.Label.Render("Search"))
	if m.sched.Pending() || m.term.Stale() {
		b.WriteString("  ")
		b.WriteString(m.spinner.View())
		b.WriteString(m.theme.Indicator.Render(" Updating..."))
	}
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n")

	b.WriteString(m.renderSection("Optimistic", m.overlay, width, -1, m.theme.Pending.Render))
	cursor := -1
	if m.activeFocus() == focusList {
		cursor = m.cursor
	}
	b.WriteString(m.renderSection("Tasks", m.visible, width, cursor, nil))
	b.WriteString(m.renderSection("Completed", m.completed, width, -1, m.theme.Done.Render))

	b.WriteString("\n")
	if m.statusMsg != "" {
		style := m.theme.Status
		if m.statusIsError {
			style = m.theme.Error
		}
		b.WriteString(style.Render(truncateRunesHelper(m.statusMsg, width, "...")))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(contextKeys{km: m.keys, ctx: m.CurrentContext()}))
	return b.String()
}

func (m Model) renderHeader(width int) string {
	const title = "Task Manager"
	right := fmt.Sprintf("%s theme · %s", m.theme.Name, version.Version)
	left := padRight(title+" ", width-runewidth.StringWidth(right))
	return m.theme.Title.Render(left) + m.theme.Muted.Render(right)
}

// renderSection renders a titled list. cursor < 0 means no selected row;
// style, when set, is applied to every row's text.
func (m Model) renderSection(title string, tasks []model.Task, width, cursor int, style func(...string) string) string {
	var b strings.Builder
	b.WriteString(m.theme.Section.Render(fmt.Sprintf("%s (%d)", title, len(tasks))))
	b.WriteString("\n")
	if len(tasks) == 0 {
		b.WriteString(m.theme.Muted.Render("  (none)"))
		b.WriteString("\n")
		return b.String()
	}

	textWidth := width - 8
	for i, t := range tasks {
		marker := "  "
		if i == cursor {
			marker = "> "
		}
		text := truncateRunesHelper(t.Text, textWidth, "...")
		line := marker + t.StatusIcon() + " " + text
		switch {
		case i == cursor:
			line = m.theme.Selected.Render(line)
		case style != nil:
			line = marker + t.StatusIcon() + " " + style(text)
		default:
			line = m.theme.Row.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
