package commands

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"tableflip.dev/taskboard/pkg/board"
	"tableflip.dev/taskboard/pkg/config"
	"tableflip.dev/taskboard/pkg/logging"
	"tableflip.dev/taskboard/pkg/store"
)

var errNoDir = errors.New("no task directory: pass --dir or set dir in .taskboard")

// session is the board a command works on, with the config and logger it was
// built from.
type session struct {
	cfg   *config.Config
	log   *log.Logger
	board *board.Board
}

type sessionOptions struct {
	// requireDir fails when no directory is configured. Otherwise the board
	// starts without tasks.
	requireDir bool
	// quiet drops log output, for full-screen surfaces.
	quiet bool
}

// openSession resolves configuration and opens the configured directory.
func openSession(cmd *cobra.Command, opts sessionOptions) (*session, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	logger := logging.Discard()
	if !opts.quiet {
		logger = logging.New(cmd.ErrOrStderr(), logging.Options{
			Level:  cfg.LogLevel,
			Format: cfg.LogFormat,
		})
	}

	b := board.New(board.Options{
		Logger: logger.WithPrefix("board"),
		Opener: func(dir string) (store.Persistence, error) {
			d, err := store.Open(dir, store.Options{
				Extension: cfg.Extension,
				Logger:    logger.WithPrefix("store"),
			})
			if err != nil {
				return nil, err
			}
			return d, nil
		},
	})

	if cfg.Dir == "" {
		if opts.requireDir {
			return nil, errNoDir
		}
		logger.Debug("no task directory configured")
	} else if err := b.Open(contextOf(cmd), cfg.Dir); err != nil {
		return nil, err
	}

	return &session{cfg: cfg, log: logger, board: b}, nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
