package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "task.schema.json"

// Schema is the JSON schema every task file must satisfy. Fields not listed are
// allowed and carried along unchanged.
const Schema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "task",
  "type": "object",
  "required": ["id", "description"],
  "properties": {
    "id": {
      "type": ["string", "number"],
      "minLength": 1
    },
    "description": {
      "type": "string"
    },
    "scheduled_date": {
      "type": ["string", "null"],
      "pattern": "^([0-9]{4}-[0-9]{2}-[0-9]{2})?$"
    }
  }
}`

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, strings.NewReader(Schema)); err != nil {
			compileErr = fmt.Errorf("task: add schema: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Validate checks a raw document against Schema.
func Validate(data []byte) error {
	s, err := schema()
	if err != nil {
		return err
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if err := s.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		var msgs []string
		collectSchemaErrors(ve, &msgs)
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
	}
	return nil
}

// Parse validates data and decodes it.
func Parse(data []byte) (*Task, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	return Decode(data)
}

func collectSchemaErrors(err *jsonschema.ValidationError, msgs *[]string) {
	if len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*msgs = append(*msgs, fmt.Sprintf("%s: %s", loc, err.Message))
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, msgs)
	}
}
