package commands

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"tableflip.dev/taskboard/pkg/commands/options"
	"tableflip.dev/taskboard/pkg/runner/web"
)

func addServe(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the task board to a browser",
		Example: `
taskboard serve --dir ~/tasks
taskboard serve --listen 127.0.0.1:9000
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, sessionOptions{})
			if err != nil {
				return err
			}

			r := &web.Runner{
				Board:      s.board,
				Logger:     s.log.WithPrefix("web"),
				ListenAddr: s.cfg.Listen,
				Watch:      s.cfg.Watch,
				OnListening: func(a net.Addr) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task board on http://%s/\n", a)
				},
			}
			return r.Do(contextOf(cmd))
		},
	}

	options.AddServeArgs(cmd, true)
	topLevel.AddCommand(cmd)
}
