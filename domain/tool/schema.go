package tool

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// Schema wraps a JSON Schema used to validate tool argument payloads.
// Validation is deterministic: a payload either satisfies the schema or is
// rejected with the validator's reason.
type Schema struct {
	raw json.RawMessage
}

// NewSchema creates a schema from raw JSON.
func NewSchema(raw json.RawMessage) Schema {
	return Schema{raw: raw}
}

// EmptySchema returns a schema that accepts any input.
func EmptySchema() Schema {
	return Schema{raw: json.RawMessage(`{}`)}
}

// ObjectSchema returns a schema for an object with the given properties.
func ObjectSchema(properties map[string]json.RawMessage, required []string) Schema {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	raw, _ := json.Marshal(schema)
	return Schema{raw: raw}
}

// Raw returns the underlying JSON schema.
func (s Schema) Raw() json.RawMessage {
	return s.raw
}

// IsEmpty returns true if the schema is empty or accepts anything.
func (s Schema) IsEmpty() bool {
	return len(s.raw) == 0 || string(s.raw) == "{}" || string(s.raw) == "null"
}

// Validate validates an argument payload against the schema.
func (s Schema) Validate(data json.RawMessage) error {
	if s.IsEmpty() {
		if len(data) > 0 && !json.Valid(data) {
			return fmt.Errorf("%w: payload is not valid JSON", ErrInvalidInput)
		}
		return nil
	}

	var compiled jsonschema.Schema
	if err := json.Unmarshal(s.raw, &compiled); err != nil {
		return fmt.Errorf("%w: malformed schema: %v", ErrInvalidInput, err)
	}

	resolved, err := compiled.Resolve(nil)
	if err != nil {
		return fmt.Errorf("%w: schema resolution failed: %v", ErrInvalidInput, err)
	}

	var instance any
	if len(data) == 0 {
		data = json.RawMessage(`{}`)
	}
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("%w: payload is not valid JSON: %v", ErrInvalidInput, err)
	}

	if err := resolved.Validate(instance); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s Schema) MarshalJSON() ([]byte, error) {
	if s.raw == nil {
		return []byte("{}"), nil
	}
	return s.raw, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Schema) UnmarshalJSON(data []byte) error {
	s.raw = data
	return nil
}
