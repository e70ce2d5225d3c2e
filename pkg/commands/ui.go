package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/taskboard/pkg/commands/options"
	"tableflip.dev/taskboard/pkg/runner/tui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the terminal task board",
		Example: `
taskboard ui --dir ~/tasks
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, sessionOptions{requireDir: true, quiet: true})
			if err != nil {
				return err
			}
			return tui.Run(contextOf(cmd), s.board, tui.Options{Watch: s.cfg.Watch})
		},
	}

	options.AddServeArgs(cmd, false)
	topLevel.AddCommand(cmd)
}
