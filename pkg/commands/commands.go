package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/taskboard/pkg/commands/options"
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "taskboard",
		Short: base.Wrap80("Schedule the tasks in a folder of JSON files on a monthly calendar."),
		Long: base.Wrap80("Each task is a JSON file with an id, a description and an optional " +
			"scheduled_date. Drag tasks between the unscheduled list and the days of a " +
			"month in the browser (serve) or the terminal (ui), or schedule them from " +
			"the command line. Every move is written back to the task's file."),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	options.AddBoardArgs(cmd)
	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addServe(topLevel)
	addUI(topLevel)
	addMCP(topLevel)
	addMonth(topLevel)
	addList(topLevel)
	addSchedule(topLevel)
	addUnschedule(topLevel)
	addDemo(topLevel)
	addCompletions(topLevel)
	addVersion(topLevel)
}
