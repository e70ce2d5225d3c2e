package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/log"

	"tableflip.dev/taskboard/pkg/board"
	"tableflip.dev/taskboard/pkg/logging"
)

// Options configures Run.
type Options struct {
	// Watch reloads the board when the task directory changes on disk.
	Watch  bool
	Logger *log.Logger
}

// Run launches the terminal UI and blocks until the user quits.
func Run(ctx context.Context, b *board.Board, opts Options) error {
	if b == nil {
		return errors.New("tui requires a board")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	m := New(ctx, b)
	if opts.Watch && b.Dir() != "" {
		followCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		changes := make(chan struct{}, 1)
		go func() {
			defer close(changes)
			err := b.Follow(followCtx, func() {
				select {
				case changes <- struct{}{}:
				default:
				}
			})
			if err != nil {
				logger.Warn("watching task directory stopped", "dir", b.Dir(), "err", err)
			}
		}()
		m.changes = changes
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
