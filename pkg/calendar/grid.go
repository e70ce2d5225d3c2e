// Package calendar builds month grids whose weeks start on Monday.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// Layout is the date format carried by day cells and task files.
const Layout = "2006-01-02"

// ErrInvalidDate is returned for strings that are not YYYY-MM-DD dates.
var ErrInvalidDate = errors.New("calendar: invalid date")

// Weekdays is the column header of a grid, Monday first.
var Weekdays = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// Cell is either a leading filler or one day of the month.
type Cell struct {
	Filler bool
	Day    int
	// Date is YYYY-MM-DD, empty for fillers.
	Date    string
	Weekday time.Weekday
	Sunday  bool
}

// ISOWeekday returns 1 for Monday through 7 for Sunday, 0 for fillers.
func (c Cell) ISOWeekday() int {
	if c.Filler {
		return 0
	}
	return isoWeekday(c.Weekday)
}

// Grid is one rendered month.
type Grid struct {
	Year   int
	Month  time.Month
	Offset int
	Cells  []Cell
}

// New builds the grid for year and month. Days are dated at local noon so the
// date string never shifts across a timezone boundary.
func New(year int, month time.Month) Grid {
	year, month = Normalize(year, int(month))
	first := time.Date(year, month, 1, 12, 0, 0, 0, time.Local)
	offset := isoWeekday(first.Weekday()) - 1
	days := DaysIn(year, month)

	g := Grid{
		Year:   year,
		Month:  month,
		Offset: offset,
		Cells:  make([]Cell, 0, offset+days),
	}
	for i := 0; i < offset; i++ {
		g.Cells = append(g.Cells, Cell{Filler: true})
	}
	for day := 1; day <= days; day++ {
		date := time.Date(year, month, day, 12, 0, 0, 0, time.Local)
		g.Cells = append(g.Cells, Cell{
			Day:     day,
			Date:    date.Format(Layout),
			Weekday: date.Weekday(),
			Sunday:  date.Weekday() == time.Sunday,
		})
	}
	return g
}

// Days returns the non-filler cells.
func (g Grid) Days() []Cell {
	return g.Cells[g.Offset:]
}

// Lookup returns the day cell carrying date.
func (g Grid) Lookup(date string) (Cell, bool) {
	t, err := ParseDate(date)
	if err != nil || t.Year() != g.Year || t.Month() != g.Month {
		return Cell{}, false
	}
	return g.Cells[g.Offset+t.Day()-1], true
}

// Contains reports whether date falls inside the grid's month.
func (g Grid) Contains(date string) bool {
	_, ok := g.Lookup(date)
	return ok
}

// Weeks splits the cells into rows of seven; the last row may be short.
func (g Grid) Weeks() [][]Cell {
	var weeks [][]Cell
	for i := 0; i < len(g.Cells); i += 7 {
		end := i + 7
		if end > len(g.Cells) {
			end = len(g.Cells)
		}
		weeks = append(weeks, g.Cells[i:end])
	}
	return weeks
}

// Title renders "March 2024".
func (g Grid) Title() string {
	return fmt.Sprintf("%s %d", g.Month, g.Year)
}

// Prev returns the year and month before the grid's month.
func (g Grid) Prev() (int, time.Month) {
	return Normalize(g.Year, int(g.Month)-1)
}

// Next returns the year and month after the grid's month.
func (g Grid) Next() (int, time.Month) {
	return Normalize(g.Year, int(g.Month)+1)
}

// DaysIn returns the number of days in a month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 12, 0, 0, 0, time.Local).Day()
}

// Normalize folds a month number outside 1..12 into the neighbouring years.
func Normalize(year, month int) (int, time.Month) {
	m := month - 1
	year += m / 12
	m %= 12
	if m < 0 {
		m += 12
		year--
	}
	return year, time.Month(m + 1)
}

// ParseDate parses a YYYY-MM-DD string at local noon.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t.Add(12 * time.Hour), nil
}

// Format renders t as YYYY-MM-DD in its own location.
func Format(t time.Time) string {
	return t.Format(Layout)
}

func isoWeekday(d time.Weekday) int {
	if d == time.Sunday {
		return 7
	}
	return int(d)
}
