package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "tasks.schema.json"

// taskFileSchema is the fixed shape of the persisted task file.
const taskFileSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "name": {"type": "string"},
      "done": {"type": "boolean"}
    },
    "required": ["name", "done"],
    "additionalProperties": false
  }
}`

var taskSchema = jsonschema.MustCompileString(schemaURL, taskFileSchema)

// validateShape checks raw task file bytes against taskFileSchema.
func validateShape(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("failed to parse tasks file: %w", err)
	}

	if err := taskSchema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("tasks file does not match schema: %s", strings.Join(collectSchemaErrors(ve), "; "))
		}
		return fmt.Errorf("tasks file does not match schema: %w", err)
	}
	return nil
}

// collectSchemaErrors flattens a validation error tree into leaf messages,
// each prefixed with its instance location.
func collectSchemaErrors(ve *jsonschema.ValidationError) []string {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return []string{loc + ": " + ve.Message}
	}
	var msgs []string
	for _, cause := range ve.Causes {
		msgs = append(msgs, collectSchemaErrors(cause)...)
	}
	return msgs
}
