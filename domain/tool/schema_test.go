package tool_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/felixgeelhaar/agentloop/domain/tool"
)

func addSchema() tool.Schema {
	return tool.ObjectSchema(map[string]json.RawMessage{
		"a": json.RawMessage(`{"type":"integer"}`),
		"b": json.RawMessage(`{"type":"integer"}`),
	}, []string{"a", "b"})
}

func TestSchema_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		schema  tool.Schema
		payload string
		wantErr bool
	}{
		{
			name:    "valid payload",
			schema:  addSchema(),
			payload: `{"a":2,"b":3}`,
			wantErr: false,
		},
		{
			name:    "missing required field",
			schema:  addSchema(),
			payload: `{"a":2}`,
			wantErr: true,
		},
		{
			name:    "wrong type",
			schema:  addSchema(),
			payload: `{"a":"two","b":3}`,
			wantErr: true,
		},
		{
			name:    "empty schema accepts anything",
			schema:  tool.EmptySchema(),
			payload: `{"whatever":true}`,
			wantErr: false,
		},
		{
			name:    "malformed payload",
			schema:  addSchema(),
			payload: `{"a":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.schema.Validate(json.RawMessage(tt.payload))
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, tool.ErrInvalidInput) {
				t.Errorf("Validate() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestSchema_ValidateDeterministic(t *testing.T) {
	t.Parallel()

	schema := addSchema()
	payload := json.RawMessage(`{"a":1,"b":"nope"}`)

	first := schema.Validate(payload)
	second := schema.Validate(payload)

	if (first == nil) != (second == nil) {
		t.Errorf("validation not deterministic: %v vs %v", first, second)
	}
}

func TestSchema_RoundTrip(t *testing.T) {
	t.Parallel()

	raw := json.RawMessage(`{"type":"object","properties":{"x":{"type":"string"}}}`)
	s := tool.NewSchema(raw)

	out, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var back tool.Schema
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if back.IsEmpty() {
		t.Error("round-tripped schema is empty")
	}
}
