package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/taskboard/pkg/board"
	"tableflip.dev/taskboard/pkg/calendar"
)

const width = len("11 12 13 14 15 16 17") // an example week

// Month prints a compact Monday-first grid. Days holding tasks are bold,
// Sundays are red and today is underlined.
func (pp *PrettyPrint) Month(v board.View) {
	tf := color.New(color.FgWhite, color.Italic)
	hf := color.New(color.Faint)

	mid := (width - len(v.Title)) / 2
	if mid < 0 {
		mid = 0
	}
	_, _ = tf.Fprintf(pp.out(), "%s%s\n", strings.Repeat(" ", mid), v.Title)
	_, _ = hf.Fprintln(pp.out(), strings.Join(v.Weekdays, " "))

	for _, week := range v.Weeks() {
		cells := make([]string, 0, len(week))
		for _, c := range week {
			if c.Filler {
				cells = append(cells, "  ")
				continue
			}
			cells = append(cells, dayPrinter(c).Sprintf("%2d", c.Day))
		}
		_, _ = fmt.Fprintln(pp.out(), strings.Join(cells, " "))
	}
	_, _ = fmt.Fprintln(pp.out())
}

func dayPrinter(c board.CellView) *color.Color {
	attrs := []color.Attribute{color.FgWhite}
	if len(c.Tasks) == 0 {
		attrs = append(attrs, color.Faint)
	} else {
		attrs = append(attrs, color.Bold)
	}
	if c.Sunday {
		attrs[0] = color.FgRed
	}
	if c.IsToday {
		attrs = append(attrs, color.Underline)
	}
	return color.New(attrs...)
}

// MonthLong prints one line per day with the tasks placed on it, followed by
// the unscheduled list.
func (pp *PrettyPrint) MonthLong(v board.View) {
	p := color.New()
	b := color.New(color.Bold)
	s := color.New(color.Underline)
	bs := color.New(color.Underline, color.Bold)
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)

	pp.Title(v.Title)
	for _, c := range v.Cells {
		if c.Filler {
			continue
		}
		printer := p
		switch {
		case c.Sunday && c.IsToday:
			printer = bs
		case c.Sunday:
			printer = s
		case c.IsToday:
			printer = b
		}
		_, _ = printer.Fprintf(pp.out(), "%2d %s", c.Day, weekdayLetter(c.Date))

		if len(c.Tasks) == 0 {
			_, _ = fmt.Fprintln(pp.out())
			continue
		}
		for i, t := range c.Tasks {
			if i > 0 {
				_, _ = p.Fprint(pp.out(), "    ")
			}
			_, _ = p.Fprint(pp.out(), "  ")
			if pp.ShowID {
				_, _ = y.Fprintf(pp.out(), "%s ", t.ID)
			}
			_, _ = p.Fprintln(pp.out(), pp.describe(t.Description))
		}
	}
	_, _ = fmt.Fprintln(pp.out())

	pp.TitleWithCount("Unscheduled", len(v.Unscheduled))
	pp.Tasks(v.Unscheduled...)
	pp.Warnings(v.Warnings...)
}

func weekdayLetter(date string) string {
	t, err := calendar.ParseDate(date)
	if err != nil {
		return " "
	}
	return t.Weekday().String()[0:1]
}
