package commands

import (
	"strings"

	"github.com/spf13/cobra"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(taskboard completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(taskboard completion)
`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(cmd.OutOrStdout())
		},
	}

	topLevel.AddCommand(cmd)
}

// taskIDCompletions completes the first argument with the ids of loaded
// tasks, optionally only those whose scheduled state matches scheduled.
func taskIDCompletions(scheduled *bool) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		s, err := openSession(cmd, sessionOptions{requireDir: true, quiet: true})
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		var ids []string
		for _, t := range s.board.Tasks() {
			if scheduled != nil && t.Scheduled() != *scheduled {
				continue
			}
			if strings.HasPrefix(t.ID, toComplete) {
				ids = append(ids, t.ID+"\t"+t.Description)
			}
		}
		return ids, cobra.ShellCompDirectiveNoFileComp
	}
}
