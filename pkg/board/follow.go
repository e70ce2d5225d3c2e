package board

import (
	"context"
	"errors"
)

// Follow reloads the board whenever the bound directory changes on disk, and
// calls onChange after each reload. It blocks until ctx is done.
func (b *Board) Follow(ctx context.Context, onChange func()) error {
	b.mu.RLock()
	st := b.store
	b.mu.RUnlock()
	if st == nil {
		return ErrNoDirectory
	}

	events, err := st.Watch(ctx)
	if err != nil {
		return err
	}

	for range events {
		if err := b.Reload(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			b.log.Warn("reload after change failed", "dir", st.Dir(), "err", err)
			continue
		}
		if onChange != nil {
			onChange()
		}
	}
	return nil
}
