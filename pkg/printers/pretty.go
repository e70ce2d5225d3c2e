package printers

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/taskboard/pkg/board"
)

type PrettyPrint struct {
	ShowID bool
	// Width truncates descriptions; zero leaves them whole.
	Width int
	Out   io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out())
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " task")
	default:
		_, _ = c.Fprintln(pp.out(), " tasks")
	}
}

// Tasks prints one row per task: id (when ShowID), date and description.
func (pp *PrettyPrint) Tasks(tasks ...board.TaskView) {
	if len(tasks) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}

	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	d := color.New(color.FgCyan)

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, t := range tasks {
		date := t.Date
		if date == "" {
			date = "-"
		}
		row := []interface{}{d.Sprint(date), pp.describe(t.Description)}
		if pp.ShowID {
			row = append([]interface{}{y.Sprint(t.ID)}, row...)
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	_, _ = fmt.Fprintln(pp.out())
}

// Warnings prints the files that were skipped while loading.
func (pp *PrettyPrint) Warnings(warnings ...string) {
	if len(warnings) == 0 {
		return
	}
	w := color.New(color.FgYellow)
	for _, msg := range warnings {
		_, _ = w.Fprintf(pp.out(), "skipped %s\n", msg)
	}
	_, _ = fmt.Fprintln(pp.out())
}

func (pp *PrettyPrint) describe(s string) string {
	if pp.Width <= 0 {
		return s
	}
	return truncate.StringWithTail(s, uint(pp.Width), "…")
}
