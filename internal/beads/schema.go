package beads

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// bd's --json output is validated before unmarshal so a drifting bd
// version fails with a pointed error instead of a zero-valued struct.

var nodeListSchema = jsonschema.MustCompileString("bd-ready.json", `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"id": {"type": "string"},
			"issue_type": {"type": "string"},
			"status": {"type": "string"},
			"priority": {"type": ["integer", "null"]},
			"children": {"type": "array"}
		}
	}
}`)

var showSchema = jsonschema.MustCompileString("bd-show.json", `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"id": {"type": "string"},
			"title": {"type": "string"},
			"description": {"type": "string"},
			"acceptance_criteria": {"type": "string"},
			"status": {"type": "string"}
		}
	}
}`)

func validatePayload(schema *jsonschema.Schema, payload string, source string) error {
	var doc interface{}
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return fmt.Errorf("parse %s output: %w", source, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("unexpected %s output: %w", source, err)
	}
	return nil
}
