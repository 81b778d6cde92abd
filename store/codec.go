package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"todo-board/model"
)

// ErrMalformed marks stored text that cannot be decoded into its record type.
var ErrMalformed = errors.New("malformed slot data")

const taskListSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "msg", "status"],
    "properties": {
      "id": {"type": "string"},
      "msg": {"type": "string"},
      "status": {"enum": ["toDo", "doing", "document", "done"]},
      "isDeleted": {"type": "boolean"}
    }
  }
}`

var taskListSchema = jsonschema.MustCompileString("todos.schema.json", taskListSchemaJSON)

// EncodeTasks renders the list as a compact JSON array without HTML escaping.
func EncodeTasks(tasks []model.Task) (string, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tasks); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// DecodeTasks validates text against the task list schema and decodes it.
func DecodeTasks(text string) ([]model.Task, error) {
	var doc any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, KeyTasks, err)
	}
	if err := taskListSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrMalformed, KeyTasks, schemaErrorSummary(err))
	}

	var tasks []model.Task
	if err := json.Unmarshal([]byte(text), &tasks); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, KeyTasks, err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

func EncodeDarkMode(dark bool) string {
	if dark {
		return "true"
	}
	return "false"
}

func DecodeDarkMode(text string) (bool, error) {
	var dark bool
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &dark); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrMalformed, KeyDarkMode, err)
	}
	return dark, nil
}

// schemaErrorSummary reports the first leaf cause of a validation error.
func schemaErrorSummary(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := ve.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return fmt.Sprintf("%s: %s", loc, ve.Message)
}
