package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tableflip.dev/taskboard/pkg/task"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(b)
}

func openDir(t *testing.T, dir string) *Directory {
	t.Helper()
	p, err := Open(dir, Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return p
}

func TestLoadSkipsBadFilesAndKeepsGoing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `{"id":"7","description":"Write report"}`)
	writeFile(t, dir, "b.json", `{"id":"8","description":"Review","scheduled_date":"2024-03-15"}`)
	writeFile(t, dir, "bad.json", `{"id":`)
	writeFile(t, dir, "dup.json", `{"id":"7","description":"Again"}`)
	writeFile(t, dir, "feb.json", `{"id":"9","description":"Leap","scheduled_date":"2024-02-30"}`)
	writeFile(t, dir, "notes.txt", `{"id":"9","description":"Not a task file"}`)
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "nested"), "c.json", `{"id":"10","description":"Too deep"}`)

	res, err := openDir(t, dir).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(res.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d: %v", len(res.Tasks), res.Tasks)
	}
	if res.Tasks[0].ID != "7" || res.Tasks[0].File != "a.json" {
		t.Fatalf("unexpected first task %+v", res.Tasks[0])
	}
	if res.Tasks[1].ScheduledDate != "2024-03-15" {
		t.Fatalf("unexpected second task %+v", res.Tasks[1])
	}

	if len(res.Warnings) != 3 {
		t.Fatalf("expected 3 warnings, got %v", res.Warnings)
	}
	if res.Warnings[0].File != "bad.json" || !errors.Is(res.Warnings[0], task.ErrInvalid) {
		t.Fatalf("unexpected warning %v", res.Warnings[0])
	}
	if res.Warnings[1].File != "dup.json" {
		t.Fatalf("unexpected warning %v", res.Warnings[1])
	}
	if res.Warnings[2].File != "feb.json" || !errors.Is(res.Warnings[2], task.ErrInvalid) {
		t.Fatalf("impossible date should be skipped, got %v", res.Warnings[2])
	}
}

func TestLoadHonoursExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `{"id":"1","description":"json"}`)
	writeFile(t, dir, "b.task", `{"id":"2","description":"task"}`)

	p, err := Open(dir, Options{Extension: ".task"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	res, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Tasks) != 1 || res.Tasks[0].ID != "2" {
		t.Fatalf("unexpected tasks %v", res.Tasks)
	}
}

func TestSaveWritesScheduledDate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "7.json", `{"id":"7","description":"Write report"}`)
	p := openDir(t, dir)
	res, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := p.Save(context.Background(), res.Tasks[0], "2024-03-15"); err != nil {
		t.Fatalf("save: %v", err)
	}

	want := "{\n    \"id\": \"7\",\n    \"description\": \"Write report\",\n    \"scheduled_date\": \"2024-03-15\"\n}"
	if got := readFile(t, dir, "7.json"); got != want {
		t.Fatalf("file mismatch\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestSaveClearRemovesField(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "3.json", `{"id":"3","description":"Call","scheduled_date":"2024-01-02","owner":"sam"}`)
	p := openDir(t, dir)
	res, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := p.Save(context.Background(), res.Tasks[0], ""); err != nil {
		t.Fatalf("save: %v", err)
	}

	got := readFile(t, dir, "3.json")
	if strings.Contains(got, "scheduled_date") {
		t.Fatalf("expected scheduled_date to be absent:\n%s", got)
	}
	if !strings.Contains(got, `"owner": "sam"`) {
		t.Fatalf("expected unknown field to survive:\n%s", got)
	}
	if res.Tasks[0].Scheduled() {
		t.Fatalf("in-memory record still scheduled")
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "9.json", `{"id":9,"description":"Plan \"trip\"","scheduled_date":"2024-05-04"}`)
	p := openDir(t, dir)

	first, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	before := first.Tasks[0]
	if err := p.Save(context.Background(), before, before.ScheduledDate); err != nil {
		t.Fatalf("save: %v", err)
	}

	second, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	after := second.Tasks[0]
	if before.ID != after.ID || before.Description != after.Description || before.ScheduledDate != after.ScheduledDate {
		t.Fatalf("round trip changed task: %+v -> %+v", before, after)
	}
	if !strings.Contains(readFile(t, dir, "9.json"), `"id": 9,`) {
		t.Fatalf("numeric id was not written back as a number")
	}
}

func TestSaveUnboundTask(t *testing.T) {
	p := openDir(t, t.TempDir())
	err := p.Save(context.Background(), task.New("1", "loose"), "2024-01-01")
	if !errors.Is(err, ErrUnbound) {
		t.Fatalf("expected ErrUnbound, got %v", err)
	}
}

func TestSaveReportsWriteFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "5.json", `{"id":"5","description":"Gone"}`)
	p := openDir(t, dir)
	res, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	// Replace the file with a directory so the rewrite cannot open it.
	if err := os.Remove(filepath.Join(dir, "5.json")); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "5.json"), 0o755); err != nil {
		t.Fatal(err)
	}

	err = p.Save(context.Background(), res.Tasks[0], "2024-01-01")
	if err == nil || !strings.Contains(err.Error(), "store: write 5.json") {
		t.Fatalf("expected write error, got %v", err)
	}
}

func TestOpenRejectsFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `{}`)

	if _, err := Open(filepath.Join(dir, "a.json"), Options{}); !errors.Is(err, ErrNotDirectory) {
		t.Fatalf("expected ErrNotDirectory, got %v", err)
	}
	if _, err := Open(filepath.Join(dir, "missing"), Options{}); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
