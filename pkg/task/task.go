// Package task defines the task record that is persisted one per file.
//
// A record keeps every top-level field of its source document, in the order it
// was read, so writing it back only changes the fields this program owns.
package task

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Field names understood by the board.
const (
	FieldID            = "id"
	FieldDescription   = "description"
	FieldScheduledDate = "scheduled_date"
)

// ErrInvalid is returned when a document is not a usable task record.
var ErrInvalid = errors.New("task: invalid record")

// Task is a single unit of work loaded from a file.
type Task struct {
	ID            string
	Description   string
	ScheduledDate string

	// File is the name of the file the task was loaded from, relative to the
	// task directory. It is never serialized.
	File string

	fields map[string]json.RawMessage
	order  []string
}

// New builds a task that was not read from a document.
func New(id, description string) *Task {
	return &Task{ID: id, Description: description}
}

// Scheduled reports whether the task carries a scheduled date.
func (t *Task) Scheduled() bool {
	return t.ScheduledDate != ""
}

// Schedule sets the scheduled date, or removes it when date is empty.
func (t *Task) Schedule(date string) {
	t.ScheduledDate = date
}

// Extra returns the fields that are carried along but not interpreted.
func (t *Task) Extra() map[string]json.RawMessage {
	out := make(map[string]json.RawMessage)
	for k, v := range t.fields {
		switch k {
		case FieldID, FieldDescription, FieldScheduledDate:
			continue
		}
		out[k] = v
	}
	return out
}

// Clone returns a copy that shares no mutable state with t.
func (t *Task) Clone() *Task {
	c := *t
	if t.fields != nil {
		c.fields = make(map[string]json.RawMessage, len(t.fields))
		for k, v := range t.fields {
			c.fields[k] = v
		}
	}
	c.order = append([]string(nil), t.order...)
	return &c
}

func (t *Task) String() string {
	if t.Scheduled() {
		return fmt.Sprintf("%s %s (%s)", t.ID, t.Description, t.ScheduledDate)
	}
	return fmt.Sprintf("%s %s", t.ID, t.Description)
}

// Decode parses a JSON document into a task. The document must be an object with
// an id (string or number) and a string description.
func Decode(data []byte) (*Task, error) {
	order, fields, err := readObject(data)
	if err != nil {
		return nil, err
	}

	t := &Task{fields: fields, order: order}

	rawID, ok := fields[FieldID]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", ErrInvalid, FieldID)
	}
	if t.ID, err = decodeID(rawID); err != nil {
		return nil, err
	}

	rawDesc, ok := fields[FieldDescription]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", ErrInvalid, FieldDescription)
	}
	if err := json.Unmarshal(rawDesc, &t.Description); err != nil {
		return nil, fmt.Errorf("%w: %q must be a string", ErrInvalid, FieldDescription)
	}

	if rawDate, ok := fields[FieldScheduledDate]; ok && !isNull(rawDate) {
		if err := json.Unmarshal(rawDate, &t.ScheduledDate); err != nil {
			return nil, fmt.Errorf("%w: %q must be a string", ErrInvalid, FieldScheduledDate)
		}
	}
	return t, nil
}

// Encode renders the task as a 4-space indented JSON object. Fields keep their
// original order; a newly set scheduled date is appended last, and an unset one
// is omitted entirely.
func (t *Task) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	write := func(key string, value []byte) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, err := marshal(key)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(value)
		return nil
	}

	seen := make(map[string]bool, len(t.order)+3)
	for _, key := range t.order {
		seen[key] = true
		value, err := t.valueFor(key)
		if err != nil {
			return nil, err
		}
		if value == nil {
			continue
		}
		if err := write(key, value); err != nil {
			return nil, err
		}
	}
	for _, key := range []string{FieldID, FieldDescription, FieldScheduledDate} {
		if seen[key] {
			continue
		}
		value, err := t.valueFor(key)
		if err != nil {
			return nil, err
		}
		if value == nil {
			continue
		}
		if err := write(key, value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "    "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// valueFor returns the encoded value for key, or nil when the key is omitted.
func (t *Task) valueFor(key string) ([]byte, error) {
	switch key {
	case FieldID:
		if raw, ok := t.fields[FieldID]; ok {
			if id, err := decodeID(raw); err == nil && id == t.ID {
				return raw, nil
			}
		}
		return marshal(t.ID)
	case FieldDescription:
		if raw, ok := t.fields[FieldDescription]; ok {
			var s string
			if err := json.Unmarshal(raw, &s); err == nil && s == t.Description {
				return raw, nil
			}
		}
		return marshal(t.Description)
	case FieldScheduledDate:
		if t.ScheduledDate == "" {
			return nil, nil
		}
		return marshal(t.ScheduledDate)
	default:
		return t.fields[key], nil
	}
}

func readObject(data []byte) ([]string, map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("%w: document is not an object", ErrInvalid)
	}

	var order []string
	fields := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("%w: unexpected token %v", ErrInvalid, tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, nil, fmt.Errorf("%w: field %q: %v", ErrInvalid, key, err)
		}
		if _, dup := fields[key]; !dup {
			order = append(order, key)
		}
		fields[key] = value
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := dec.Token(); err == nil {
		return nil, nil, fmt.Errorf("%w: trailing data after object", ErrInvalid)
	}
	return order, fields, nil
}

func decodeID(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", fmt.Errorf("%w: empty %q", ErrInvalid, FieldID)
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", fmt.Errorf("%w: %q: %v", ErrInvalid, FieldID, err)
		}
		if strings.TrimSpace(s) == "" {
			return "", fmt.Errorf("%w: empty %q", ErrInvalid, FieldID)
		}
		return s, nil
	default:
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil || n == "" {
			return "", fmt.Errorf("%w: %q must be a string or number", ErrInvalid, FieldID)
		}
		return n.String(), nil
	}
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
