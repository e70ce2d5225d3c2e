package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tableflip.dev/taskboard/pkg/board"
	"tableflip.dev/taskboard/pkg/commands/options"
	"tableflip.dev/taskboard/pkg/task"
)

func addSchedule(topLevel *cobra.Command) {
	i := &options.InteractiveOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "schedule <id> <date>",
		Short: "schedule a task on a day",
		Long:  "Set the task's scheduled_date to a YYYY-MM-DD day and write its file.",
		Example: `
taskboard schedule 7 2024-03-15
taskboard schedule -i
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if i.Interactive {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		ValidArgsFunction: taskIDCompletions(nil),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, sessionOptions{requireDir: true, quiet: i.Interactive})
			if err != nil {
				return oo.HandleError(err)
			}

			var id, date string
			if i.Interactive {
				id, err = promptTask("Task to schedule", s.board.Tasks())
				if err == nil {
					date, err = promptDate("Date (YYYY-MM-DD)")
				}
				if errors.Is(err, errCancelled) {
					_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled.")
					return nil
				}
				if err != nil {
					return err
				}
			} else {
				id, date = args[0], args[1]
			}

			return oo.HandleError(move(contextOf(cmd), cmd.OutOrStdout(), oo, s, id, board.Location{Date: date}))
		},
	}

	options.InteractiveArgs(cmd, i)
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addUnschedule(topLevel *cobra.Command) {
	i := &options.InteractiveOptions{}
	oo := &options.OutputOptions{}
	scheduledOnly := true

	cmd := &cobra.Command{
		Use:   "unschedule <id>",
		Short: "move a task back to the unscheduled list",
		Long:  "Remove the task's scheduled_date and write its file.",
		Example: `
taskboard unschedule 7
taskboard unschedule -i
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if i.Interactive {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		ValidArgsFunction: taskIDCompletions(&scheduledOnly),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, sessionOptions{requireDir: true, quiet: i.Interactive})
			if err != nil {
				return oo.HandleError(err)
			}

			var id string
			if i.Interactive {
				var candidates []*task.Task
				for _, t := range s.board.Tasks() {
					if t.Scheduled() {
						candidates = append(candidates, t)
					}
				}
				id, err = promptTask("Task to unschedule", candidates)
				if errors.Is(err, errCancelled) {
					_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled.")
					return nil
				}
				if err != nil {
					return err
				}
			} else {
				id = args[0]
			}

			return oo.HandleError(move(contextOf(cmd), cmd.OutOrStdout(), oo, s, id, board.Unscheduled))
		},
	}

	options.InteractiveArgs(cmd, i)
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

// move drops the task on to and reports the result.
func move(ctx context.Context, w io.Writer, oo *options.OutputOptions, s *session, id string, to board.Location) error {
	moved, err := s.board.Drop(ctx, id, to)
	if !moved && err == nil {
		return fmt.Errorf("no task with id %q in %s", id, s.board.Dir())
	}
	if err != nil {
		return err
	}

	t, _ := s.board.Task(id)
	if oo.JSON {
		return oo.WriteJSON(w, board.Present(t))
	}
	if to.IsUnscheduled() {
		_, _ = fmt.Fprintf(w, "Unscheduled %q (%s)\n", t.Description, t.File)
		return nil
	}
	_, _ = fmt.Fprintf(w, "Scheduled %q on %s (%s)\n", t.Description, to.Date, t.File)
	return nil
}
