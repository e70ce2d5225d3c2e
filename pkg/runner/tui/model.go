// Package tui is the terminal surface of the task board. Tasks are picked up
// from the unscheduled list or a day, carried with the cursor and dropped on
// another day or back on the list.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/help"
	"github.com/charmbracelet/bubbles/v2/key"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/taskboard/pkg/board"
	"tableflip.dev/taskboard/pkg/calendar"
)

type focus int

const (
	focusCalendar focus = iota
	focusList
)

const listWidth = 28

// messages
type droppedMsg struct {
	id    string
	to    board.Location
	moved bool
	err   error
}
type reloadedMsg struct{ err error }
type boardChangedMsg struct{}

// Model is the bubbletea model driving a board.
type Model struct {
	board *board.Board
	ctx   context.Context
	keys  keyMap
	help  help.Model

	focus focus
	// day is the cursor's day of the displayed month, 1-based.
	day  int
	item int
	// held is the id of the task being carried, or "".
	held string

	status string

	width  int
	height int

	changes <-chan struct{}
	styles  styles
}

type styles struct {
	calendar calendar.Options
	panel    lipgloss.Style
	active   lipgloss.Style
	title    lipgloss.Style
	cursor   lipgloss.Style
	held     lipgloss.Style
	status   lipgloss.Style
	warning  lipgloss.Style
}

func defaultStyles() styles {
	panel := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	return styles{
		calendar: calendar.DefaultOptions(),
		panel:    panel.BorderForeground(lipgloss.Color("240")),
		active:   panel.BorderForeground(lipgloss.Color("63")),
		title:    lipgloss.NewStyle().Bold(true),
		cursor:   lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true),
		held:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		status:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	}
}

// New creates a model over b with the cursor on today, or the first of the
// displayed month.
func New(ctx context.Context, b *board.Board) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	m := Model{
		board:  b,
		ctx:    ctx,
		keys:   defaultKeyMap(),
		help:   help.New(),
		focus:  focusCalendar,
		day:    1,
		styles: defaultStyles(),
		status: "tab switches list/calendar, space picks up and drops, [ ] change month",
	}
	m.cursorToToday()
	return m
}

// Init waits for directory changes when the board is being followed.
func (m Model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

func waitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return boardChangedMsg{}
	}
}

// Update handles messages and keybindings.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case droppedMsg:
		switch {
		case msg.err != nil:
			m.status = fmt.Sprintf("ERR: task %s shows on %s but its file was not saved: %v", msg.id, msg.to, msg.err)
		case !msg.moved:
			m.status = fmt.Sprintf("Task %s is no longer loaded", msg.id)
		default:
			m.status = fmt.Sprintf("Moved %s to %s", m.describe(msg.id), msg.to)
		}
		m.clampItem()
	case reloadedMsg:
		if msg.err != nil {
			m.status = "ERR: " + msg.err.Error()
		} else {
			m.status = "Reloaded"
		}
		m.clampItem()
	case boardChangedMsg:
		m.status = "Reloaded after changes on disk"
		m.clampItem()
		return m, waitForChange(m.changes)
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		if m.held != "" {
			m.status = fmt.Sprintf("Put back %s", m.describe(m.held))
			m.held = ""
		}
	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusCalendar {
			m.focus = focusList
		} else {
			m.focus = focusCalendar
		}
		m.item = 0
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-7)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(7)
	case key.Matches(msg, m.keys.NextTask):
		if n := len(m.containerTasks()); n > 0 {
			m.item = (m.item + 1) % n
		}
	case key.Matches(msg, m.keys.Grab):
		return m.grab()
	case key.Matches(msg, m.keys.Unschedule):
		id := m.held
		if id == "" {
			id = m.selectedID()
		}
		if id == "" {
			return m, nil
		}
		m.held = ""
		return m, m.drop(id, board.Unscheduled)
	case key.Matches(msg, m.keys.PrevMonth):
		m.board.PrevMonth()
		m.clampDay()
	case key.Matches(msg, m.keys.NextMonth):
		m.board.NextMonth()
		m.clampDay()
	case key.Matches(msg, m.keys.Today):
		m.board.Today()
		m.cursorToToday()
	case key.Matches(msg, m.keys.Reload):
		return m, m.reload()
	}
	return m, nil
}

// grab picks up the selected task, or drops the held one at the cursor.
func (m Model) grab() (tea.Model, tea.Cmd) {
	if m.held == "" {
		id := m.selectedID()
		if id == "" {
			return m, nil
		}
		m.held = id
		m.status = fmt.Sprintf("Carrying %s, move and press space to drop", m.describe(id))
		return m, nil
	}
	id := m.held
	m.held = ""
	return m, m.drop(id, m.target())
}

func (m Model) drop(id string, to board.Location) tea.Cmd {
	b, ctx := m.board, m.ctx
	return func() tea.Msg {
		moved, err := b.Drop(ctx, id, to)
		return droppedMsg{id: id, to: to, moved: moved, err: err}
	}
}

func (m Model) reload() tea.Cmd {
	b, ctx := m.board, m.ctx
	return func() tea.Msg {
		return reloadedMsg{err: b.Reload(ctx)}
	}
}

func (m *Model) moveCursor(delta int) {
	if m.focus == focusList {
		if delta == 1 || delta == -1 {
			// Sideways leaves the list.
			m.focus = focusCalendar
			m.item = 0
			return
		}
		n := len(m.containerTasks())
		if delta > 0 && m.item < n-1 {
			m.item++
		} else if delta < 0 && m.item > 0 {
			m.item--
		}
		return
	}
	y, mo := m.board.Month()
	day := m.day + delta
	if day < 1 || day > calendar.DaysIn(y, mo) {
		return
	}
	m.day = day
	m.item = 0
}

func (m *Model) clampDay() {
	y, mo := m.board.Month()
	if n := calendar.DaysIn(y, mo); m.day > n {
		m.day = n
	}
	m.item = 0
}

func (m *Model) clampItem() {
	n := len(m.containerTasks())
	if m.item >= n {
		m.item = 0
	}
}

func (m *Model) cursorToToday() {
	today := m.board.View().Today
	if g := m.board.Grid(); g.Contains(today) {
		c, _ := g.Lookup(today)
		m.day = c.Day
	}
	m.clampDay()
}

func (m Model) selectedDate() string {
	y, mo := m.board.Month()
	return calendar.Format(time.Date(y, mo, m.day, 12, 0, 0, 0, time.Local))
}

func (m Model) target() board.Location {
	if m.focus == focusList {
		return board.Unscheduled
	}
	return board.Location{Date: m.selectedDate()}
}

func (m Model) containerTasks() []board.TaskView {
	v := m.board.View()
	if m.focus == focusList {
		return v.Unscheduled
	}
	c, _ := v.Cell(m.selectedDate())
	return c.Tasks
}

func (m Model) selectedID() string {
	tasks := m.containerTasks()
	if m.item < 0 || m.item >= len(tasks) {
		return ""
	}
	return tasks[m.item].ID
}

func (m Model) describe(id string) string {
	if t, ok := m.board.Task(id); ok {
		return fmt.Sprintf("%q", t.Description)
	}
	return id
}

// View renders the unscheduled list, the month and the cursor's day.
func (m Model) View() string {
	v := m.board.View()

	marks := calendar.Marks{HasTasks: map[string]bool{}, Today: v.Today}
	for _, c := range v.Cells {
		if len(c.Tasks) > 0 {
			marks.HasTasks[c.Date] = true
		}
	}
	if m.focus == focusCalendar {
		marks.Selected = m.selectedDate()
	}

	listPanel := m.styles.panel
	calPanel := m.styles.active
	if m.focus == focusList {
		listPanel, calPanel = m.styles.active, m.styles.panel
	}

	list := listPanel.Width(listWidth).Render(m.renderTasks("Unscheduled", v.Unscheduled, m.focus == focusList))
	cal := calPanel.Render(calendar.Render(m.board.Grid(), marks, m.styles.calendar))

	cell, _ := v.Cell(m.selectedDate())
	day := m.styles.panel.Width(listWidth).Render(m.renderTasks(dayTitle(m.selectedDate()), cell.Tasks, m.focus == focusCalendar))

	var b strings.Builder
	title := "taskboard"
	if v.Dir != "" {
		title += "  " + v.Dir
	}
	b.WriteString(m.styles.title.Render(title))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, cal, day))
	b.WriteString("\n")
	for _, w := range v.Warnings {
		b.WriteString(m.styles.warning.Render("skipped " + w))
		b.WriteString("\n")
	}
	if m.held != "" {
		b.WriteString(m.styles.held.Render("carrying " + m.describe(m.held)))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.status.Render(m.status))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderTasks(title string, tasks []board.TaskView, focused bool) string {
	lines := []string{m.styles.title.Render(title)}
	if len(tasks) == 0 {
		lines = append(lines, m.styles.status.Render("(none)"))
	}
	for i, t := range tasks {
		prefix := "  "
		style := lipgloss.NewStyle()
		if focused && i == m.item {
			prefix = "> "
			style = m.styles.cursor
		}
		if t.ID == m.held {
			style = m.styles.held
		}
		lines = append(lines, style.Render(prefix+truncate.StringWithTail(t.Description, listWidth-4, "…")))
	}
	return strings.Join(lines, "\n")
}

func dayTitle(date string) string {
	t, err := calendar.ParseDate(date)
	if err != nil {
		return date
	}
	return t.Format("Mon Jan 2")
}
