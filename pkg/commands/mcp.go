package commands

import (
	"fmt"
	"net"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/taskboard/pkg/runner/mcp"
)

func addMCP(topLevel *cobra.Command) {
	var (
		transport string
		listen    string
		path      string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "start the Model Context Protocol server",
		Long: `Launch an MCP server that lets agents read the task board and schedule or
unschedule tasks. Every change is written to the task's file.`,
		Example: `
taskboard mcp --dir ~/tasks --transport stdio
taskboard mcp --dir ~/tasks --listen 127.0.0.1:0
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := mcp.Transport(strings.ToLower(strings.TrimSpace(transport)))
			if t != mcp.TransportHTTP && t != mcp.TransportStdio {
				return fmt.Errorf("unsupported transport %q (expected http or stdio)", transport)
			}
			// Stdout carries the protocol on stdio; keep logs off it.
			s, err := openSession(cmd, sessionOptions{requireDir: true, quiet: t == mcp.TransportStdio})
			if err != nil {
				return err
			}

			if !strings.HasPrefix(path, "/") {
				path = "/" + path
			}

			runner := mcp.Runner{
				Board:            s.board,
				Logger:           s.log.WithPrefix("mcp"),
				Name:             "taskboard",
				Version:          version,
				Transport:        t,
				HTTPListenAddr:   listen,
				HTTPEndpointPath: path,
				OnHTTPListening: func(a net.Addr) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://%s%s\n", a, path)
				},
			}
			return runner.Do(contextOf(cmd))
		},
	}

	cmd.Flags().StringVar(&transport, "transport", string(mcp.TransportHTTP), "transport to use: http or stdio")
	cmd.Flags().StringVar(&listen, "listen", "127.0.0.1:8081", "address for the HTTP transport (port 0 picks one)")
	cmd.Flags().StringVar(&path, "path", "/mcp", "HTTP endpoint path")

	topLevel.AddCommand(cmd)
}
