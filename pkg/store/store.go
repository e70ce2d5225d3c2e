package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/taskboard/pkg/calendar"
	"tableflip.dev/taskboard/pkg/logging"
	"tableflip.dev/taskboard/pkg/task"
)

// DefaultExtension is the suffix of task files.
const DefaultExtension = ".json"

var (
	// ErrNotDirectory is returned when the selected path is not a directory.
	ErrNotDirectory = errors.New("store: not a directory")
	// ErrUnbound is returned when saving a task that was not loaded from a file.
	ErrUnbound = errors.New("store: task has no file binding")
)

// Persistence defines the storage contract for task files.
type Persistence interface {
	// Dir is the bound task directory.
	Dir() string
	// Load reads every task file at the top level of the directory.
	Load(ctx context.Context) (*LoadResult, error)
	// Save sets or, when scheduled is empty, removes the task's scheduled date
	// and rewrites its file in full.
	Save(ctx context.Context, t *task.Task, scheduled string) error
	// Watch streams change events until ctx is cancelled.
	Watch(ctx context.Context) (<-chan Event, error)
}

// Warning records a task file that was skipped during a load.
type Warning struct {
	File string
	Err  error
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s: %v", w.File, w.Err)
}

func (w Warning) Unwrap() error {
	return w.Err
}

// LoadResult is the outcome of a directory load.
type LoadResult struct {
	Tasks    []*task.Task
	Warnings []Warning
}

// Options configures a Directory.
type Options struct {
	Extension string
	Logger    *log.Logger
}

// Directory is a Persistence over one directory, one JSON document per task.
type Directory struct {
	d   *diskv.Diskv
	dir string
	ext string
	log *log.Logger
}

var _ Persistence = (*Directory)(nil)

// Open binds the task directory at path.
func Open(path string, opts Options) (*Directory, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, path)
	}

	ext := opts.Extension
	if ext == "" {
		ext = DefaultExtension
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &Directory{
		d: diskv.New(diskv.Options{
			BasePath:          path,
			AdvancedTransform: fileToPathKey,
			InverseTransform:  pathKeyToFile,
			// Files are edited outside this process, always read from disk.
			CacheSizeMax: 0,
		}),
		dir: path,
		ext: ext,
		log: logger,
	}, nil
}

// Dir returns the bound directory.
func (p *Directory) Dir() string {
	return p.dir
}

// Load enumerates the top level of the directory. Files that cannot be read,
// parsed or validated are skipped and reported as warnings.
func (p *Directory) Load(ctx context.Context) (*LoadResult, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, fmt.Errorf("store: list %s: %w", p.dir, err)
	}

	res := &LoadResult{Tasks: make([]*task.Task, 0, len(entries))}
	seen := make(map[string]string, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !p.isTaskFile(entry) {
			continue
		}
		name := entry.Name()

		t, err := p.read(name)
		if err != nil {
			p.warn(res, name, err)
			continue
		}
		if first, dup := seen[t.ID]; dup {
			p.warn(res, name, fmt.Errorf("duplicate id %q, already loaded from %s", t.ID, first))
			continue
		}
		seen[t.ID] = name
		res.Tasks = append(res.Tasks, t)
	}

	p.log.Debug("loaded task directory", "dir", p.dir, "tasks", len(res.Tasks), "skipped", len(res.Warnings))
	return res, nil
}

// Save applies scheduled to t and overwrites its file. Concurrent external edits
// to the same file are lost.
func (p *Directory) Save(ctx context.Context, t *task.Task, scheduled string) error {
	if t.File == "" {
		return fmt.Errorf("%w: %s", ErrUnbound, t.ID)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	t.Schedule(scheduled)
	data, err := t.Encode()
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", t.File, err)
	}
	if err := p.d.Write(t.File, data); err != nil {
		return fmt.Errorf("store: write %s: %w", t.File, err)
	}

	p.log.Debug("wrote task file", "file", t.File, "id", t.ID, "scheduled_date", scheduled)
	return nil
}

func (p *Directory) read(name string) (*task.Task, error) {
	data, err := p.d.Read(name)
	if err != nil {
		return nil, err
	}
	t, err := task.Parse(data)
	if err != nil {
		return nil, err
	}
	// The schema only checks the shape; 2024-02-30 would land on no day.
	if t.ScheduledDate != "" {
		if _, err := calendar.ParseDate(t.ScheduledDate); err != nil {
			return nil, fmt.Errorf("%w: %v", task.ErrInvalid, err)
		}
	}
	t.File = name
	return t, nil
}

func (p *Directory) warn(res *LoadResult, name string, err error) {
	p.log.Warn("skipping task file", "file", name, "err", err)
	res.Warnings = append(res.Warnings, Warning{File: name, Err: err})
}

func (p *Directory) isTaskFile(entry fs.DirEntry) bool {
	if entry.IsDir() {
		return false
	}
	if !entry.Type().IsRegular() && entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	return p.hasExtension(entry.Name())
}

func (p *Directory) hasExtension(name string) bool {
	return strings.HasSuffix(name, p.ext)
}

// Task files live directly in the base path, so a key is the file name.
func fileToPathKey(key string) *diskv.PathKey {
	return &diskv.PathKey{FileName: key}
}

func pathKeyToFile(pathKey *diskv.PathKey) string {
	return pathKey.FileName
}
