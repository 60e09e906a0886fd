package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/taskman/pkg/config"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// themeFg returns hex for ANSI256+ terminals and a safe ANSI color otherwise.
func themeFg(hex string, fallback lipgloss.ANSIColor) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return fallback
	}
	return lipgloss.Color(hex)
}

type palette struct {
	text, muted, primary, success, warning, danger, highlight string
}

var palettes = map[string]palette{
	config.ThemeLight: {
		text:      "#1A1A1A",
		muted:     "#666666",
		primary:   "#6B47D9",
		success:   "#007700",
		warning:   "#B06800",
		danger:    "#CC0000",
		highlight: "#D0D0D0",
	},
	config.ThemeDark: {
		text:      "#F8F8F2",
		muted:     "#6272A4",
		primary:   "#BD93F9",
		success:   "#50FA7B",
		warning:   "#FFB86C",
		danger:    "#FF5555",
		highlight: "#44475A",
	},
}

// Theme is the fixed set of styles for one session. It is built once from
// the configured theme name and handed to NewModel; nothing changes it later.
type Theme struct {
	Name     string
	Renderer *lipgloss.Renderer

	Title     lipgloss.Style
	Label     lipgloss.Style
	Section   lipgloss.Style
	Row       lipgloss.Style
	Selected  lipgloss.Style
	Done      lipgloss.Style
	Pending   lipgloss.Style
	Muted     lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
	Indicator lipgloss.Style
}

// NewTheme builds the theme called name. Unknown names use the light theme.
func NewTheme(name string, r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	p, ok := palettes[name]
	if !ok {
		name = config.ThemeLight
		p = palettes[name]
	}

	t := Theme{Name: name, Renderer: r}
	t.Title = r.NewStyle().Bold(true).Foreground(themeFg(p.primary, lipgloss.ANSIColor(5)))
	t.Label = r.NewStyle().Bold(true).Foreground(themeFg(p.text, lipgloss.ANSIColor(7)))
	t.Section = r.NewStyle().Bold(true).Underline(true).Foreground(themeFg(p.primary, lipgloss.ANSIColor(5))).MarginTop(1)
	t.Row = r.NewStyle().Foreground(themeFg(p.text, lipgloss.ANSIColor(7)))
	t.Selected = r.NewStyle().Bold(true).Foreground(themeFg(p.primary, lipgloss.ANSIColor(5)))
	t.Done = r.NewStyle().Strikethrough(true).Foreground(themeFg(p.success, lipgloss.ANSIColor(2)))
	t.Pending = r.NewStyle().Italic(true).Foreground(themeFg(p.warning, lipgloss.ANSIColor(3)))
	t.Muted = r.NewStyle().Foreground(themeFg(p.muted, lipgloss.ANSIColor(8)))
	t.Status = r.NewStyle().Foreground(themeFg(p.success, lipgloss.ANSIColor(2)))
	t.Error = r.NewStyle().Bold(true).Foreground(themeFg(p.danger, lipgloss.ANSIColor(1)))
	t.Indicator = r.NewStyle().Foreground(themeFg(p.warning, lipgloss.ANSIColor(3)))
	return t
}
