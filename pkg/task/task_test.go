package task

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestDecodeUnscheduled(t *testing.T) {
	tk, err := Parse([]byte(`{"id":"7","description":"Write report"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tk.ID != "7" || tk.Description != "Write report" {
		t.Fatalf("unexpected task %+v", tk)
	}
	if tk.Scheduled() {
		t.Fatalf("expected no scheduled date, got %q", tk.ScheduledDate)
	}
}

func TestEncodeIndentsWithFourSpaces(t *testing.T) {
	tk, err := Decode([]byte(`{"id":"7","description":"Write report"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	tk.Schedule("2024-03-15")

	got, err := tk.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := "{\n    \"id\": \"7\",\n    \"description\": \"Write report\",\n    \"scheduled_date\": \"2024-03-15\"\n}"
	if string(got) != want {
		t.Fatalf("encode mismatch\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestEncodeRemovesClearedDate(t *testing.T) {
	tk, err := Decode([]byte(`{"id":"3","scheduled_date":"2024-01-02","description":"Call"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	tk.Schedule("")

	got, err := tk.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if strings.Contains(string(got), FieldScheduledDate) {
		t.Fatalf("expected %s to be absent, got:\n%s", FieldScheduledDate, got)
	}
}

func TestEncodeKeepsFieldOrderAndUnknownFields(t *testing.T) {
	src := `{"priority": 2, "id": 12, "scheduled_date": "2024-02-01", "description": "a<b", "tags": ["x", "y"]}`
	tk, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tk.ID != "12" {
		t.Fatalf("expected numeric id to read as %q, got %q", "12", tk.ID)
	}
	tk.Schedule("2024-02-09")

	got, err := tk.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out := string(got)

	order := []string{`"priority": 2`, `"id": 12`, `"scheduled_date": "2024-02-09"`, `"description": "a<b"`, `"tags": [`}
	last := -1
	for _, frag := range order {
		idx := strings.Index(out, frag)
		if idx < 0 {
			t.Fatalf("missing %s in:\n%s", frag, out)
		}
		if idx < last {
			t.Fatalf("%s out of order in:\n%s", frag, out)
		}
		last = idx
	}

	extra := tk.Extra()
	if len(extra) != 2 {
		t.Fatalf("expected 2 extra fields, got %v", extra)
	}
	var tags []string
	if err := json.Unmarshal(extra["tags"], &tags); err != nil || len(tags) != 2 {
		t.Fatalf("tags not preserved: %v %v", tags, err)
	}
}

func TestRoundTripKeepsOwnedFields(t *testing.T) {
	src := []byte(`{"id":"9","description":"Plan trip","scheduled_date":"2024-05-04"}`)
	first, err := Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	first.Schedule(first.ScheduledDate)
	data, err := first.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	second, err := Parse(data)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if first.ID != second.ID || first.Description != second.Description || first.ScheduledDate != second.ScheduledDate {
		t.Fatalf("round trip changed task: %+v -> %+v", first, second)
	}
}

func TestNullScheduledDateIsUnscheduled(t *testing.T) {
	tk, err := Parse([]byte(`{"id":"1","description":"x","scheduled_date":null}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tk.Scheduled() {
		t.Fatalf("expected unscheduled task")
	}
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	tests := map[string]string{
		"not json":         `{"id":`,
		"array":            `[{"id":"1","description":"x"}]`,
		"missing id":       `{"description":"x"}`,
		"missing desc":     `{"id":"1"}`,
		"empty id":         `{"id":"","description":"x"}`,
		"bool id":          `{"id":true,"description":"x"}`,
		"numeric desc":     `{"id":"1","description":4}`,
		"bad date":         `{"id":"1","description":"x","scheduled_date":"15/03/2024"}`,
		"trailing garbage": `{"id":"1","description":"x"} {}`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			if err == nil {
				t.Fatalf("expected error for %s", doc)
			}
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestNewEncodesWithoutSourceDocument(t *testing.T) {
	tk := New("a", "Fresh")
	data, err := tk.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := "{\n    \"id\": \"a\",\n    \"description\": \"Fresh\"\n}"
	if string(data) != want {
		t.Fatalf("want:\n%s\ngot:\n%s", want, data)
	}
}
