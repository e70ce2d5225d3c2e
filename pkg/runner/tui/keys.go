package tui

import "github.com/charmbracelet/bubbles/v2/key"

type keyMap struct {
	Left       key.Binding
	Right      key.Binding
	Up         key.Binding
	Down       key.Binding
	Focus      key.Binding
	NextTask   key.Binding
	Grab       key.Binding
	Unschedule key.Binding
	Cancel     key.Binding
	PrevMonth  key.Binding
	NextMonth  key.Binding
	Today      key.Binding
	Reload     key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "day")),
		Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "day")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "week")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "week")),
		Focus:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "list/calendar")),
		NextTask:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next task")),
		Grab:       key.NewBinding(key.WithKeys("space", "enter"), key.WithHelp("space", "pick up/drop")),
		Unschedule: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unschedule")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "put back")),
		PrevMonth:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev month")),
		NextMonth:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next month")),
		Today:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.Grab, k.Unschedule, k.PrevMonth, k.NextMonth, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down, k.Focus, k.NextTask},
		{k.Grab, k.Unschedule, k.Cancel},
		{k.PrevMonth, k.NextMonth, k.Today, k.Reload, k.Quit},
	}
}
