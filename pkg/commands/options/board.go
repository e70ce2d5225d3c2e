// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/taskboard/pkg/config"
)

// AddBoardArgs registers the flags every command needs to find and log about
// the task directory. They are persistent so subcommands inherit them.
func AddBoardArgs(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringP(config.KeyDir, "d", "",
		"Task directory. Defaults to the dir set in .taskboard or $TASKBOARD_DIR.")
	flags.String(config.KeyExtension, ".json",
		"Extension of task files inside the directory.")
	flags.String(config.KeyLogLevel, "info",
		"Log level: debug, info, warn or error.")
	flags.String(config.KeyLogFormat, "text",
		"Log format: text, json or logfmt.")
}

// AddServeArgs registers the flags of long-running surfaces.
func AddServeArgs(cmd *cobra.Command, listen bool) {
	if listen {
		cmd.Flags().String(config.KeyListen, "127.0.0.1:8080",
			"Address to serve the board on.")
	}
	cmd.Flags().Bool(config.KeyWatch, true,
		"Reload the board when task files change on disk.")
}
