package mcp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tableflip.dev/taskboard/pkg/board"
)

func newTestService(t *testing.T, files map[string]string) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	b := board.New(board.Options{
		Now: func() time.Time { return time.Date(2024, time.March, 1, 9, 0, 0, 0, time.Local) },
	})
	if err := b.Open(context.Background(), dir); err != nil {
		t.Fatalf("open: %v", err)
	}
	return NewService(b), dir
}

func TestServiceSnapshot(t *testing.T) {
	svc, _ := newTestService(t, map[string]string{
		"7.json": `{"id":"7","description":"Write report"}`,
		"8.json": `{"id":"8","description":"Review","scheduled_date":"2024-03-04"}`,
		"9.json": `{"id":"9","description":"Later","scheduled_date":"2024-05-01"}`,
	})

	dto, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if dto.Title != "March 2024" {
		t.Fatalf("title = %q", dto.Title)
	}
	if len(dto.Days) != 1 || dto.Days[0].Date != "2024-03-04" {
		t.Fatalf("days = %+v", dto.Days)
	}
	if len(dto.Unscheduled) != 1 || dto.Unscheduled[0].ID != "7" {
		t.Fatalf("unscheduled = %+v", dto.Unscheduled)
	}
}

func TestServiceListTasksOrdersByDate(t *testing.T) {
	svc, _ := newTestService(t, map[string]string{
		"a.json": `{"id":"a","description":"No date"}`,
		"b.json": `{"id":"b","description":"Late","scheduled_date":"2024-05-01"}`,
		"c.json": `{"id":"c","description":"Early","scheduled_date":"2024-03-02"}`,
	})

	tests := map[TaskFilter][]string{
		FilterAll:         {"c", "b", "a"},
		FilterScheduled:   {"c", "b"},
		FilterUnscheduled: {"a"},
		FilterMonth:       {"c"},
	}
	for filter, want := range tests {
		t.Run(string(filter), func(t *testing.T) {
			got, err := svc.ListTasks(context.Background(), filter)
			if err != nil {
				t.Fatalf("ListTasks: %v", err)
			}
			if len(got) != len(want) {
				t.Fatalf("got %d tasks, want %d", len(got), len(want))
			}
			for i, id := range want {
				if got[i].ID != id {
					t.Fatalf("position %d = %q, want %q", i, got[i].ID, id)
				}
			}
		})
	}

	if _, err := svc.ListTasks(context.Background(), "someday"); err == nil {
		t.Fatal("expected error for unknown filter")
	}
}

func TestServiceScheduleWritesFile(t *testing.T) {
	svc, dir := newTestService(t, map[string]string{
		"7.json": `{"id":"7","description":"Write report"}`,
	})

	res, err := svc.Schedule(context.Background(), "7", "2024-03-15")
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if res.Task.Date != "2024-03-15" || !res.Shown {
		t.Fatalf("result = %+v", res)
	}

	data, err := os.ReadFile(filepath.Join(dir, "7.json"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "{\n    \"id\": \"7\",\n    \"description\": \"Write report\",\n    \"scheduled_date\": \"2024-03-15\"\n}"
	if string(data) != want {
		t.Fatalf("file = %q, want %q", data, want)
	}
}

func TestServiceScheduleOutsideMonthIsNotShown(t *testing.T) {
	svc, _ := newTestService(t, map[string]string{
		"7.json": `{"id":"7","description":"Write report"}`,
	})

	res, err := svc.Schedule(context.Background(), "7", "2024-06-01")
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if res.Shown {
		t.Fatal("task scheduled in June should not be shown in March")
	}
}

func TestServiceScheduleErrors(t *testing.T) {
	svc, _ := newTestService(t, map[string]string{
		"7.json": `{"id":"7","description":"Write report"}`,
	})
	ctx := context.Background()

	if _, err := svc.Schedule(ctx, "404", "2024-03-15"); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("unknown id err = %v", err)
	}
	if _, err := svc.Schedule(ctx, "7", "tomorrow"); !errors.Is(err, board.ErrInvalidTarget) {
		t.Fatalf("bad date err = %v", err)
	}
	if _, err := svc.Schedule(ctx, "7", ""); !errors.Is(err, board.ErrInvalidTarget) {
		t.Fatalf("empty date err = %v", err)
	}
}

func TestServiceUnscheduleRemovesField(t *testing.T) {
	svc, dir := newTestService(t, map[string]string{
		"8.json": `{"id":"8","description":"Review","scheduled_date":"2024-03-04","owner":"sam"}`,
	})

	res, err := svc.Unschedule(context.Background(), "8")
	if err != nil {
		t.Fatalf("Unschedule: %v", err)
	}
	if res.Task.Date != "" || !res.Shown {
		t.Fatalf("result = %+v", res)
	}

	data, err := os.ReadFile(filepath.Join(dir, "8.json"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "{\n    \"id\": \"8\",\n    \"description\": \"Review\",\n    \"owner\": \"sam\"\n}"
	if string(data) != want {
		t.Fatalf("file = %q, want %q", data, want)
	}
}

func TestServiceChangeMonth(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	dto, err := svc.ChangeMonth(ctx, "next", "")
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if dto.Year != 2024 || dto.Month != 4 {
		t.Fatalf("next = %d-%d", dto.Year, dto.Month)
	}

	dto, err = svc.ChangeMonth(ctx, "", "2025-01")
	if err != nil {
		t.Fatalf("jump: %v", err)
	}
	if dto.Title != "January 2025" {
		t.Fatalf("jump title = %q", dto.Title)
	}

	dto, err = svc.ChangeMonth(ctx, "prev", "")
	if err != nil {
		t.Fatalf("prev: %v", err)
	}
	if dto.Title != "December 2024" {
		t.Fatalf("prev title = %q", dto.Title)
	}

	if _, err := svc.ChangeMonth(ctx, "sideways", ""); err == nil {
		t.Fatal("expected error for unknown direction")
	}
	if _, err := svc.ChangeMonth(ctx, "", "2025-13"); err == nil {
		t.Fatal("expected error for invalid month")
	}
}

func TestServiceTaskByID(t *testing.T) {
	svc, _ := newTestService(t, map[string]string{
		"7.json": `{"id":"7","description":"Write report"}`,
	})

	dto, err := svc.TaskByID(context.Background(), "7")
	if err != nil {
		t.Fatalf("TaskByID: %v", err)
	}
	if dto.File != "7.json" {
		t.Fatalf("file = %q", dto.File)
	}
	if _, err := svc.TaskByID(context.Background(), "8"); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("missing err = %v", err)
	}
}

func TestRunnerServerRegistersTools(t *testing.T) {
	svc, _ := newTestService(t, nil)
	srv := Runner{Board: svc.Board}.Server()
	if srv == nil {
		t.Fatal("expected server")
	}
	if err := (Runner{}).Do(context.Background()); err == nil {
		t.Fatal("expected error without a board")
	}
}
