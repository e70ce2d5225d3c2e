package commands

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/taskboard/pkg/commands/options"
	"tableflip.dev/taskboard/pkg/printers"
)

func addMonth(topLevel *cobra.Command) {
	on := &options.OnOptions{}
	ids := &options.IDOptions{}
	oo := &options.OutputOptions{}
	long := false

	cmd := &cobra.Command{
		Use:   "month",
		Short: "print a month of the task board",
		Example: `
taskboard month
taskboard month --on 2024-3 --long
taskboard month --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, sessionOptions{})
			if err != nil {
				return oo.HandleError(err)
			}
			y, m, ok, err := on.GetMonth(time.Now())
			if err != nil {
				return oo.HandleError(err)
			}
			if ok {
				s.board.SetMonth(y, m)
			}

			v := s.board.View()
			if oo.JSON {
				return oo.WriteJSON(cmd.OutOrStdout(), v)
			}

			pp := &printers.PrettyPrint{ShowID: ids.ShowID, Out: cmd.OutOrStdout()}
			pp.Month(v)
			if long {
				pp.MonthLong(v)
				return nil
			}
			pp.Warnings(v.Warnings...)
			return nil
		},
	}

	options.AddOnArgs(cmd, on)
	options.AddShowIDArgs(cmd, ids)
	options.AddOutputArg(cmd, oo)
	cmd.Flags().BoolVarP(&long, "long", "l", false, "List the tasks of every day and the unscheduled list.")

	topLevel.AddCommand(cmd)
}
