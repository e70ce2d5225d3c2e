package board

import (
	"time"

	"tableflip.dev/taskboard/pkg/calendar"
)

// View is a snapshot of everything a surface needs to draw the board.
type View struct {
	Dir         string     `json:"dir,omitempty"`
	Year        int        `json:"year"`
	Month       time.Month `json:"month"`
	Title       string     `json:"title"`
	Today       string     `json:"today"`
	Weekdays    []string   `json:"weekdays"`
	Cells       []CellView `json:"cells"`
	Unscheduled []TaskView `json:"unscheduled"`
	Warnings    []string   `json:"warnings,omitempty"`
}

// CellView is one calendar cell with the tasks placed on it.
type CellView struct {
	Filler  bool       `json:"filler"`
	Day     int        `json:"day,omitempty"`
	Date    string     `json:"date,omitempty"`
	Sunday  bool       `json:"sunday"`
	IsToday bool       `json:"today"`
	Tasks   []TaskView `json:"tasks,omitempty"`
}

// Weeks splits the cells into rows of seven.
func (v View) Weeks() [][]CellView {
	var weeks [][]CellView
	for i := 0; i < len(v.Cells); i += 7 {
		end := i + 7
		if end > len(v.Cells) {
			end = len(v.Cells)
		}
		weeks = append(weeks, v.Cells[i:end])
	}
	return weeks
}

// Cell returns the day cell for date.
func (v View) Cell(date string) (CellView, bool) {
	for _, c := range v.Cells {
		if !c.Filler && c.Date == date {
			return c, true
		}
	}
	return CellView{}, false
}

// Count returns how many containers in the view show the task with id.
func (v View) Count(id string) int {
	n := 0
	for _, t := range v.Unscheduled {
		if t.ID == id {
			n++
		}
	}
	for _, c := range v.Cells {
		for _, t := range c.Tasks {
			if t.ID == id {
				n++
			}
		}
	}
	return n
}

// View snapshots the board for the displayed month.
func (b *Board) View() View {
	b.mu.RLock()
	defer b.mu.RUnlock()

	today := calendar.Format(b.now())
	v := View{
		Year:        b.grid.Year,
		Month:       b.grid.Month,
		Title:       b.grid.Title(),
		Today:       today,
		Weekdays:    append([]string(nil), calendar.Weekdays...),
		Cells:       make([]CellView, 0, len(b.grid.Cells)),
		Unscheduled: b.present(Unscheduled),
	}
	if b.store != nil {
		v.Dir = b.store.Dir()
	}
	for _, c := range b.grid.Cells {
		if c.Filler {
			v.Cells = append(v.Cells, CellView{Filler: true})
			continue
		}
		v.Cells = append(v.Cells, CellView{
			Day:     c.Day,
			Date:    c.Date,
			Sunday:  c.Sunday,
			IsToday: c.Date == today,
			Tasks:   b.present(Location{Date: c.Date}),
		})
	}
	for _, w := range b.warnings {
		v.Warnings = append(v.Warnings, w.Error())
	}
	return v
}

// Grid returns the displayed calendar grid.
func (b *Board) Grid() calendar.Grid {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.grid
}

func (b *Board) present(loc Location) []TaskView {
	ids := b.containers[loc]
	if len(ids) == 0 {
		return nil
	}
	out := make([]TaskView, 0, len(ids))
	for _, id := range ids {
		if t, ok := b.byID[id]; ok {
			out = append(out, Present(t))
		}
	}
	return out
}
