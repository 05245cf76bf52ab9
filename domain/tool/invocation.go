package tool

import "encoding/json"

// Invocation is a request to execute one tool with an argument payload.
// The payload is untyped until the dispatcher validates it against the
// tool's input schema.
type Invocation struct {
	Tool string          `json:"tool"`
	Args json.RawMessage `json:"args,omitempty"`
}

// NewInvocation creates an invocation request.
func NewInvocation(name string, args json.RawMessage) Invocation {
	return Invocation{Tool: name, Args: args}
}
