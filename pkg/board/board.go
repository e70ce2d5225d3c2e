// Package board owns the session state of a task board: the displayed month,
// the loaded tasks and where each one is placed, and the directory they were
// loaded from. Every surface (web, terminal, MCP, CLI) drives the same Board.
package board

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"tableflip.dev/taskboard/pkg/calendar"
	"tableflip.dev/taskboard/pkg/logging"
	"tableflip.dev/taskboard/pkg/store"
	"tableflip.dev/taskboard/pkg/task"
)

var (
	// ErrNoDirectory is returned when an operation needs a task directory and
	// none has been opened.
	ErrNoDirectory = errors.New("board: no task directory open")
	// ErrInvalidTarget is returned for drops onto something that is not a day.
	ErrInvalidTarget = errors.New("board: invalid drop target")
)

// Location is where a task is placed: a day, or the unscheduled list when Date
// is empty.
type Location struct {
	Date string
}

// Unscheduled is the location of tasks without a date.
var Unscheduled = Location{}

// IsUnscheduled reports whether l is the unscheduled list.
func (l Location) IsUnscheduled() bool {
	return l.Date == ""
}

func (l Location) String() string {
	if l.IsUnscheduled() {
		return "unscheduled"
	}
	return l.Date
}

// Opener binds a task directory.
type Opener func(dir string) (store.Persistence, error)

// Options configures a Board.
type Options struct {
	// Opener binds directories; defaults to store.Open with default options.
	Opener Opener
	// Now is the clock used for the initial month and today's marker.
	Now    func() time.Time
	Logger *log.Logger
}

// Board is the application state, created once per session.
type Board struct {
	mu sync.RWMutex

	grid  calendar.Grid
	store store.Persistence

	tasks      []*task.Task
	byID       map[string]*task.Task
	placements map[string]Location
	containers map[Location][]string
	warnings   []store.Warning

	writes keyedMutex
	// inflight is held shared by each drop until its file is written, and
	// exclusively by reloads so they never read a file mid-drop.
	inflight sync.RWMutex

	opener Opener
	now    func() time.Time
	log    *log.Logger
}

// New creates a board showing the current month with no directory bound.
func New(opts Options) *Board {
	b := &Board{
		opener: opts.Opener,
		now:    opts.Now,
		log:    opts.Logger,
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.log == nil {
		b.log = logging.Discard()
	}
	if b.opener == nil {
		logger := b.log
		b.opener = func(dir string) (store.Persistence, error) {
			d, err := store.Open(dir, store.Options{Logger: logger})
			if err != nil {
				return nil, err
			}
			return d, nil
		}
	}

	today := b.now()
	b.grid = calendar.New(today.Year(), today.Month())
	b.setTasks(nil, nil)
	return b
}

// Open binds dir and loads its tasks. An empty dir means the selection was
// cancelled and leaves the board untouched.
func (b *Board) Open(ctx context.Context, dir string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		b.log.Debug("directory selection cancelled")
		return nil
	}

	st, err := b.opener(dir)
	if err != nil {
		return err
	}
	res, err := st.Load(ctx)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.store = st
	b.setTasks(res.Tasks, res.Warnings)
	b.mu.Unlock()

	b.log.Info("opened task directory", "dir", st.Dir(), "tasks", len(res.Tasks), "skipped", len(res.Warnings))
	return nil
}

// Reload re-reads the bound directory; files are the source of truth.
func (b *Board) Reload(ctx context.Context) error {
	b.mu.RLock()
	st := b.store
	b.mu.RUnlock()
	if st == nil {
		return ErrNoDirectory
	}

	b.inflight.Lock()
	defer b.inflight.Unlock()

	res, err := st.Load(ctx)
	if err != nil {
		return err
	}

	b.mu.Lock()
	if b.store == st {
		b.setTasks(res.Tasks, res.Warnings)
	}
	b.mu.Unlock()

	b.log.Debug("reloaded task directory", "dir", st.Dir(), "tasks", len(res.Tasks))
	return nil
}

// Dir returns the bound directory, or "" when none is open.
func (b *Board) Dir() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.store == nil {
		return ""
	}
	return b.store.Dir()
}

// Tasks returns copies of the loaded tasks in load order.
func (b *Board) Tasks() []*task.Task {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*task.Task, 0, len(b.tasks))
	for _, t := range b.tasks {
		out = append(out, t.Clone())
	}
	return out
}

// Task returns a copy of the task with id.
func (b *Board) Task(id string) (*task.Task, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	t, ok := b.byID[id]
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

// Placement returns where the task with id is placed.
func (b *Board) Placement(id string) (Location, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	loc, ok := b.placements[id]
	return loc, ok
}

// Drop moves the task with id to target and writes its file. Unknown ids are
// ignored and report moved=false. Dropping a task where it already is still
// rewrites the file.
//
// Drops of the same task are serialized from the in-memory change through the
// file write, so the file always ends with the last placement. Reloads wait for
// writes in flight. A failed write is returned and the in-memory placement is
// kept.
func (b *Board) Drop(ctx context.Context, id string, target Location) (bool, error) {
	if !target.IsUnscheduled() {
		if _, err := calendar.ParseDate(target.Date); err != nil {
			return false, fmt.Errorf("%w: %v", ErrInvalidTarget, err)
		}
	}

	unlock := b.writes.Lock(id)
	defer unlock()
	b.inflight.RLock()
	defer b.inflight.RUnlock()

	b.mu.Lock()
	st := b.store
	t, ok := b.byID[id]
	if !ok || st == nil {
		b.mu.Unlock()
		b.log.Debug("ignoring drop of unknown task", "id", id)
		return false, nil
	}
	from := b.placements[id]
	b.place(id, target)
	t.Schedule(target.Date)
	snapshot := t.Clone()
	b.mu.Unlock()

	if err := st.Save(ctx, snapshot, target.Date); err != nil {
		b.log.Error("task file write failed", "id", id, "file", snapshot.File, "err", err)
		return true, err
	}

	b.log.Info("moved task", "id", id, "from", from, "to", target)
	return true, nil
}

// Schedule drops the task with id on date.
func (b *Board) Schedule(ctx context.Context, id, date string) (bool, error) {
	return b.Drop(ctx, id, Location{Date: date})
}

// Unschedule drops the task with id on the unscheduled list.
func (b *Board) Unschedule(ctx context.Context, id string) (bool, error) {
	return b.Drop(ctx, id, Unscheduled)
}

// setTasks replaces the task store and places every task. Callers hold mu, or
// own b exclusively.
func (b *Board) setTasks(tasks []*task.Task, warnings []store.Warning) {
	b.tasks = tasks
	b.byID = make(map[string]*task.Task, len(tasks))
	for _, t := range tasks {
		b.byID[t.ID] = t
	}
	b.warnings = warnings
	b.placeAll()
}

// placeAll rebuilds every container from the task store, in load order.
func (b *Board) placeAll() {
	b.placements = make(map[string]Location, len(b.tasks))
	b.containers = make(map[Location][]string)
	for _, t := range b.tasks {
		b.place(t.ID, Location{Date: t.ScheduledDate})
	}
}

// place removes id from its current container, then appends it to loc.
func (b *Board) place(id string, loc Location) {
	if old, ok := b.placements[id]; ok {
		ids := b.containers[old]
		for i, other := range ids {
			if other == id {
				ids = append(ids[:i:i], ids[i+1:]...)
				break
			}
		}
		if len(ids) == 0 {
			delete(b.containers, old)
		} else {
			b.containers[old] = ids
		}
	}
	b.placements[id] = loc
	b.containers[loc] = append(b.containers[loc], id)
}

// keyedMutex hands out one lock per key.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

// Lock acquires the lock for key and returns its release func.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*refMutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
