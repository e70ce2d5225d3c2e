package board

import (
	"sort"

	"tableflip.dev/taskboard/pkg/task"
)

// TaskView is a task as presented on the board: a draggable item showing the
// description whose drag payload is the task id.
type TaskView struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Date        string `json:"scheduled_date,omitempty"`
	File        string `json:"file,omitempty"`
	Payload     string `json:"payload"`
	Draggable   bool   `json:"draggable"`
}

// Present builds the view of t.
func Present(t *task.Task) TaskView {
	return TaskView{
		ID:          t.ID,
		Description: t.Description,
		Date:        t.ScheduledDate,
		File:        t.File,
		Payload:     t.ID,
		Draggable:   true,
	}
}

// SortByDate orders views by scheduled date with unscheduled tasks last. Tasks
// on the same date keep their order.
func SortByDate(views []TaskView) {
	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i].Date, views[j].Date
		if a == "" || b == "" {
			return a != "" && b == ""
		}
		return a < b
	})
}
