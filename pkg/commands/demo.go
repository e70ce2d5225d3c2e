package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/taskboard/pkg/calendar"
	"tableflip.dev/taskboard/pkg/config"
	"tableflip.dev/taskboard/pkg/store"
	"tableflip.dev/taskboard/pkg/task"
)

// demoTasks are written by the demo command. Offsets are days from the first
// of the current month; nil leaves the task unscheduled.
var demoTasks = []struct {
	description string
	offset      *int
}{
	{description: "Write report"},
	{description: "Book dentist"},
	{description: "Plan offsite", offset: intPtr(2)},
	{description: "Review pull requests", offset: intPtr(9)},
	{description: "Pay rent", offset: intPtr(0)},
	{description: "Renew passport", offset: intPtr(40)},
}

func intPtr(i int) *int { return &i }

func addDemo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "demo <dir>",
		Short: "write a directory of sample task files",
		Example: `
taskboard demo /tmp/tasks && taskboard serve --dir /tmp/tasks
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.ExpandDir(args[0])
			if err != nil {
				return err
			}
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			p, err := store.Open(dir, store.Options{Extension: cfg.Extension})
			if err != nil {
				return err
			}

			now := time.Now()
			first := time.Date(now.Year(), now.Month(), 1, 12, 0, 0, 0, time.Local)
			wrote, kept := 0, 0
			for i, d := range demoTasks {
				id := strconv.Itoa(i + 1)
				t := task.New(id, d.description)
				t.File = id + cfg.Extension

				// Never clobber a real task.
				if _, err := os.Lstat(filepath.Join(dir, t.File)); err == nil {
					kept++
					continue
				} else if !os.IsNotExist(err) {
					return err
				}

				date := ""
				if d.offset != nil {
					date = calendar.Format(first.AddDate(0, 0, *d.offset))
				}
				if err := p.Save(contextOf(cmd), t, date); err != nil {
					return err
				}
				wrote++
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d tasks to %s\n", wrote, dir)
			if kept > 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Left %d existing files untouched\n", kept)
			}
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
