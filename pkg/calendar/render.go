package calendar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
)

// Marks decorates days when rendering a grid for a terminal.
type Marks struct {
	// HasTasks is keyed by date.
	HasTasks map[string]bool
	Today    string
	Selected string
}

// Options controls calendar styling.
type Options struct {
	TitleStyle    lipgloss.Style
	HeaderStyle   lipgloss.Style
	EmptyStyle    lipgloss.Style
	DayStyle      lipgloss.Style
	TaskStyle     lipgloss.Style
	SundayStyle   lipgloss.Style
	TodayStyle    lipgloss.Style
	SelectedStyle lipgloss.Style
	ShowTitle     bool
	ShowHeader    bool
}

// Render produces a multi-line, Monday-first calendar for g.
func Render(g Grid, marks Marks, opts Options) string {
	var lines []string
	if opts.ShowTitle {
		title := g.Title()
		width := len("Mo Tu We Th Fr Sa Su")
		pad := (width - len(title)) / 2
		if pad < 0 {
			pad = 0
		}
		lines = append(lines, strings.Repeat(" ", pad)+opts.TitleStyle.Render(title))
	}
	if opts.ShowHeader {
		lines = append(lines, opts.HeaderStyle.Render(strings.Join(Weekdays, " ")))
	}

	for _, week := range g.Weeks() {
		cells := make([]string, 0, 7)
		for _, c := range week {
			if c.Filler {
				cells = append(cells, opts.EmptyStyle.Render("  "))
				continue
			}
			cells = append(cells, renderDay(c, marks, opts))
		}
		lines = append(lines, strings.Join(cells, " "))
	}
	return strings.Join(lines, "\n")
}

func renderDay(c Cell, marks Marks, opts Options) string {
	text := fmt.Sprintf("%2d", c.Day)

	style := opts.DayStyle
	if c.Sunday {
		style = opts.SundayStyle
	}
	if marks.HasTasks[c.Date] {
		style = style.Inherit(opts.TaskStyle)
	}
	if c.Date == marks.Today {
		style = style.Inherit(opts.TodayStyle)
	}
	if c.Date == marks.Selected {
		style = opts.SelectedStyle.Inherit(style)
	}
	return style.Render(text)
}

// DefaultOptions returns the styling used for terminal rendering.
func DefaultOptions() Options {
	return Options{
		TitleStyle:    lipgloss.NewStyle().Bold(true),
		HeaderStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Bold(true),
		EmptyStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		DayStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		TaskStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
		SundayStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		TodayStyle:    lipgloss.NewStyle().Underline(true),
		SelectedStyle: lipgloss.NewStyle().Background(lipgloss.Color("63")).Foreground(lipgloss.Color("0")),
		ShowTitle:     true,
		ShowHeader:    true,
	}
}
