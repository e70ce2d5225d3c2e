// Package mcp provides the Model Context Protocol server integration for the
// task board.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tableflip.dev/taskboard/pkg/board"
)

// Service coordinates board operations that are shared by the MCP tools and
// resources.
type Service struct {
	Board *board.Board
}

// ErrTaskNotFound is returned when no loaded task has the requested id.
var ErrTaskNotFound = errors.New("task not found")

// TaskFilter narrows ListTasks.
type TaskFilter string

const (
	FilterAll         TaskFilter = "all"
	FilterScheduled   TaskFilter = "scheduled"
	FilterUnscheduled TaskFilter = "unscheduled"
	FilterMonth       TaskFilter = "month"
)

// DayDTO lists the tasks placed on a single day.
type DayDTO struct {
	Date  string           `json:"date"`
	Tasks []board.TaskView `json:"tasks"`
}

// BoardDTO is a compact projection of the displayed month.
type BoardDTO struct {
	Dir         string           `json:"dir,omitempty"`
	Title       string           `json:"title"`
	Year        int              `json:"year"`
	Month       int              `json:"month"`
	Today       string           `json:"today"`
	Days        []DayDTO         `json:"days"`
	Unscheduled []board.TaskView `json:"unscheduled"`
	Warnings    []string         `json:"warnings,omitempty"`
}

// ScheduleResult reports the outcome of a schedule or unschedule request.
type ScheduleResult struct {
	Task  board.TaskView `json:"task"`
	Shown bool           `json:"shownInMonth"`
}

// NewService builds a service around b.
func NewService(b *board.Board) *Service {
	return &Service{Board: b}
}

// Snapshot returns the displayed month with only the days that hold tasks.
func (s *Service) Snapshot(ctx context.Context) (BoardDTO, error) {
	if err := s.ready(ctx); err != nil {
		return BoardDTO{}, err
	}
	v := s.Board.View()
	out := BoardDTO{
		Dir:         v.Dir,
		Title:       v.Title,
		Year:        v.Year,
		Month:       int(v.Month),
		Today:       v.Today,
		Days:        []DayDTO{},
		Unscheduled: v.Unscheduled,
		Warnings:    v.Warnings,
	}
	if out.Unscheduled == nil {
		out.Unscheduled = []board.TaskView{}
	}
	for _, c := range v.Cells {
		if c.Filler || len(c.Tasks) == 0 {
			continue
		}
		out.Days = append(out.Days, DayDTO{Date: c.Date, Tasks: c.Tasks})
	}
	return out, nil
}

// ListTasks returns loaded tasks ordered by scheduled date, unscheduled last.
func (s *Service) ListTasks(ctx context.Context, filter TaskFilter) ([]board.TaskView, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	switch filter {
	case "":
		filter = FilterAll
	case FilterAll, FilterScheduled, FilterUnscheduled, FilterMonth:
	default:
		return nil, fmt.Errorf("unknown filter %q", filter)
	}

	grid := s.Board.Grid()
	out := []board.TaskView{}
	for _, t := range s.Board.Tasks() {
		switch filter {
		case FilterScheduled:
			if !t.Scheduled() {
				continue
			}
		case FilterUnscheduled:
			if t.Scheduled() {
				continue
			}
		case FilterMonth:
			if !grid.Contains(t.ScheduledDate) {
				continue
			}
		}
		out = append(out, board.Present(t))
	}

	board.SortByDate(out)
	return out, nil
}

// Schedule places the task on date and writes its file.
func (s *Service) Schedule(ctx context.Context, id, date string) (ScheduleResult, error) {
	if err := s.ready(ctx); err != nil {
		return ScheduleResult{}, err
	}
	date = strings.TrimSpace(date)
	if date == "" {
		return ScheduleResult{}, fmt.Errorf("%w: date is required", board.ErrInvalidTarget)
	}
	return s.move(ctx, id, board.Location{Date: date})
}

// Unschedule moves the task back to the unscheduled list and writes its file.
func (s *Service) Unschedule(ctx context.Context, id string) (ScheduleResult, error) {
	if err := s.ready(ctx); err != nil {
		return ScheduleResult{}, err
	}
	return s.move(ctx, id, board.Unscheduled)
}

func (s *Service) move(ctx context.Context, id string, loc board.Location) (ScheduleResult, error) {
	id = strings.TrimSpace(id)
	moved, err := s.Board.Drop(ctx, id, loc)
	if err != nil && !moved {
		return ScheduleResult{}, err
	}
	if !moved {
		return ScheduleResult{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	t, ok := s.Board.Task(id)
	if !ok {
		return ScheduleResult{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	res := ScheduleResult{Task: board.Present(t)}
	res.Shown = s.Board.View().Count(id) > 0
	return res, err
}

// ChangeMonth moves the displayed month. direction is prev, next or today; a
// month value of the form YYYY-MM jumps directly.
func (s *Service) ChangeMonth(ctx context.Context, direction, month string) (BoardDTO, error) {
	if err := ctx.Err(); err != nil {
		return BoardDTO{}, err
	}
	if month = strings.TrimSpace(month); month != "" {
		when, err := time.ParseInLocation("2006-01", month, time.Local)
		if err != nil {
			return BoardDTO{}, fmt.Errorf("invalid month %q: expected YYYY-MM", month)
		}
		s.Board.SetMonth(when.Year(), when.Month())
		return s.snapshot(), nil
	}

	switch strings.ToLower(strings.TrimSpace(direction)) {
	case "prev", "previous":
		s.Board.PrevMonth()
	case "next":
		s.Board.NextMonth()
	case "today", "":
		s.Board.Today()
	default:
		return BoardDTO{}, fmt.Errorf("unknown direction %q", direction)
	}
	return s.snapshot(), nil
}

func (s *Service) snapshot() BoardDTO {
	out, _ := s.Snapshot(context.Background())
	return out
}

func (s *Service) ready(ctx context.Context) error {
	if s.Board == nil {
		return errors.New("board is not configured")
	}
	return ctx.Err()
}

// TaskByID returns the task with id.
func (s *Service) TaskByID(ctx context.Context, id string) (board.TaskView, error) {
	if err := s.ready(ctx); err != nil {
		return board.TaskView{}, err
	}
	t, ok := s.Board.Task(strings.TrimSpace(id))
	if !ok {
		return board.TaskView{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return board.Present(t), nil
}
