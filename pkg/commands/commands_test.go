package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/taskboard/pkg/board"
	"tableflip.dev/taskboard/pkg/task"
)

func init() {
	color.NoColor = true
}

func taskDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TASKBOARD_CONFIG_PATH", t.TempDir())
	cmd := New()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(b)
}

func TestScheduleWritesTaskFile(t *testing.T) {
	dir := taskDir(t, map[string]string{
		"7.json": `{"id":"7","description":"Write report"}`,
	})

	out, err := run(t, "--dir", dir, "schedule", "7", "2024-03-15")
	require.NoError(t, err)
	assert.Contains(t, out, `Scheduled "Write report" on 2024-03-15 (7.json)`)
	assert.Equal(t,
		"{\n    \"id\": \"7\",\n    \"description\": \"Write report\",\n    \"scheduled_date\": \"2024-03-15\"\n}",
		readFile(t, dir, "7.json"))
}

func TestUnscheduleRemovesDate(t *testing.T) {
	dir := taskDir(t, map[string]string{
		"8.json": `{"id":"8","description":"Review","scheduled_date":"2024-03-04"}`,
	})

	out, err := run(t, "--dir", dir, "unschedule", "8")
	require.NoError(t, err)
	assert.Contains(t, out, `Unscheduled "Review"`)
	assert.NotContains(t, readFile(t, dir, "8.json"), "scheduled_date")
}

func TestScheduleErrors(t *testing.T) {
	dir := taskDir(t, map[string]string{
		"7.json": `{"id":"7","description":"Write report"}`,
	})

	_, err := run(t, "--dir", dir, "schedule", "404", "2024-03-15")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no task with id "404"`)

	_, err = run(t, "--dir", dir, "schedule", "7", "next friday")
	assert.ErrorIs(t, err, board.ErrInvalidTarget)

	_, err = run(t, "--dir", dir, "schedule", "7")
	assert.Error(t, err)

	_, err = run(t, "--dir", filepath.Join(dir, "missing"), "schedule", "7", "2024-03-15")
	assert.Error(t, err)
}

func TestScheduleInteractive(t *testing.T) {
	dir := taskDir(t, map[string]string{
		"7.json": `{"id":"7","description":"Write report"}`,
	})
	origTask, origDate := promptTask, promptDate
	defer func() { promptTask, promptDate = origTask, origDate }()

	promptTask = func(_ string, tasks []*task.Task) (string, error) {
		require.Len(t, tasks, 1)
		return tasks[0].ID, nil
	}
	promptDate = func(string) (string, error) { return "2024-03-20", nil }

	_, err := run(t, "--dir", dir, "schedule", "-i")
	require.NoError(t, err)
	assert.Contains(t, readFile(t, dir, "7.json"), `"scheduled_date": "2024-03-20"`)

	promptDate = func(string) (string, error) { return "", errCancelled }
	_, err = run(t, "--dir", dir, "schedule", "-i")
	require.NoError(t, err, "a cancelled prompt is not an error")
	assert.Contains(t, readFile(t, dir, "7.json"), `"scheduled_date": "2024-03-20"`)
}

func TestListJSONIsSortedByDate(t *testing.T) {
	dir := taskDir(t, map[string]string{
		"a.json": `{"id":"a","description":"No date"}`,
		"b.json": `{"id":"b","description":"Late","scheduled_date":"2024-05-01"}`,
		"c.json": `{"id":"c","description":"Early","scheduled_date":"2024-03-02"}`,
	})

	out, err := run(t, "--dir", dir, "list", "--json")
	require.NoError(t, err)

	var views []board.TaskView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	ids := make([]string, 0, len(views))
	for _, v := range views {
		ids = append(ids, v.ID)
	}
	assert.Equal(t, []string{"c", "b", "a"}, ids)

	out, err = run(t, "--dir", dir, "list", "--unscheduled", "--show-id")
	require.NoError(t, err)
	assert.Contains(t, out, "Unscheduled - 1 task")
	assert.Contains(t, out, "No date")
	assert.NotContains(t, out, "Early")
}

func TestListRequiresDirectory(t *testing.T) {
	t.Setenv("TASKBOARD_DIR", "")
	_, err := run(t, "list")
	assert.ErrorIs(t, err, errNoDir)
}

func TestMonthLong(t *testing.T) {
	dir := taskDir(t, map[string]string{
		"7.json":   `{"id":"7","description":"Write report","scheduled_date":"2024-03-15"}`,
		"9.json":   `{"id":"9","description":"Someday"}`,
		"bad.json": `[]`,
	})

	out, err := run(t, "--dir", dir, "month", "--on", "2024-3", "--long")
	require.NoError(t, err)
	assert.Contains(t, out, "March 2024")
	assert.Contains(t, out, "Mo Tu We Th Fr Sa Su")
	assert.Contains(t, out, "15 F  Write report")
	assert.Contains(t, out, "Unscheduled - 1 task")
	assert.Contains(t, out, "skipped bad.json")
}

func TestMonthJSON(t *testing.T) {
	dir := taskDir(t, map[string]string{
		"7.json": `{"id":"7","description":"Write report","scheduled_date":"2024-03-15"}`,
	})

	out, err := run(t, "--dir", dir, "month", "--on", "2024-3", "--json")
	require.NoError(t, err)

	var v board.View
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "March 2024", v.Title)
	assert.Equal(t, 1, v.Count("7"))
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version", "--short")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(out))
}

func TestDemoWritesLoadableTasks(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tasks")

	out, err := run(t, "demo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 6 tasks")

	out, err = run(t, "--dir", dir, "list", "--json")
	require.NoError(t, err)
	var views []board.TaskView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	assert.Len(t, views, 6)
	assert.Equal(t, "", views[len(views)-1].Date, "unscheduled tasks sort last")
}

func TestDemoKeepsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	mine := `{"id":"1","description":"My own task","scheduled_date":"2024-03-04"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1.json"), []byte(mine), 0o644))

	out, err := run(t, "demo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 5 tasks")
	assert.Contains(t, out, "Left 1 existing files untouched")
	assert.Equal(t, mine, readFile(t, dir, "1.json"))
}
