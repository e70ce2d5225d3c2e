package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/taskboard/pkg/board"
	"tableflip.dev/taskboard/pkg/commands/options"
	"tableflip.dev/taskboard/pkg/printers"
)

func addList(topLevel *cobra.Command) {
	ids := &options.IDOptions{}
	oo := &options.OutputOptions{}
	var scheduled, unscheduled bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "list the tasks in the task directory",
		Example: `
taskboard list
taskboard list --unscheduled -k
taskboard list --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if scheduled && unscheduled {
				return oo.HandleError(errors.New("--scheduled and --unscheduled are exclusive"))
			}
			s, err := openSession(cmd, sessionOptions{requireDir: true})
			if err != nil {
				return oo.HandleError(err)
			}

			views := []board.TaskView{}
			for _, t := range s.board.Tasks() {
				if (scheduled && !t.Scheduled()) || (unscheduled && t.Scheduled()) {
					continue
				}
				views = append(views, board.Present(t))
			}
			board.SortByDate(views)

			if oo.JSON {
				return oo.WriteJSON(cmd.OutOrStdout(), views)
			}

			title := "Tasks"
			switch {
			case scheduled:
				title = "Scheduled"
			case unscheduled:
				title = "Unscheduled"
			}
			pp := &printers.PrettyPrint{ShowID: ids.ShowID, Out: cmd.OutOrStdout()}
			pp.TitleWithCount(title, len(views))
			pp.Tasks(views...)
			pp.Warnings(s.board.View().Warnings...)
			return nil
		},
	}

	options.AddShowIDArgs(cmd, ids)
	options.AddOutputArg(cmd, oo)
	cmd.Flags().BoolVar(&scheduled, "scheduled", false, "Only tasks with a scheduled date.")
	cmd.Flags().BoolVar(&unscheduled, "unscheduled", false, "Only tasks without a scheduled date.")

	topLevel.AddCommand(cmd)
}
