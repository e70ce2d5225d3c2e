package board

import (
	"time"

	"tableflip.dev/taskboard/pkg/calendar"
)

// PrevMonth shows the month before the current one.
func (b *Board) PrevMonth() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.render(b.grid.Prev())
}

// NextMonth shows the month after the current one.
func (b *Board) NextMonth() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.render(b.grid.Next())
}

// SetMonth shows the given month. Out of range months wrap into the
// neighbouring years.
func (b *Board) SetMonth(year int, month time.Month) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.render(calendar.Normalize(year, int(month)))
}

// Today shows the month containing today.
func (b *Board) Today() {
	now := b.now()
	b.SetMonth(now.Year(), now.Month())
}

// Month returns the displayed year and month.
func (b *Board) Month() (int, time.Month) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.grid.Year, b.grid.Month
}

// render rebuilds the grid from scratch and re-places every task into it.
func (b *Board) render(year int, month time.Month) {
	b.grid = calendar.New(year, month)
	b.placeAll()
}
