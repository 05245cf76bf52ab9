package tool

import (
	"encoding/json"
	"time"
)

// Status classifies the outcome of one invocation.
type Status string

const (
	// StatusSuccess indicates the tool executed and produced its result.
	StatusSuccess Status = "success"

	// StatusFailure indicates lookup, validation, or execution failed.
	// Failures are fed back to the reasoning engine, never thrown to the
	// caller.
	StatusFailure Status = "failure"

	// StatusSkipped indicates the invocation was not executed because an
	// earlier invocation in the same batch failed.
	StatusSkipped Status = "skipped"
)

// Result is the uniform record produced for every invocation. Immutable
// once created; appended to the transcript.
type Result struct {
	// Tool is the name of the invoked tool.
	Tool string `json:"tool"`

	// Status classifies the outcome.
	Status Status `json:"status"`

	// Description is the human-readable outcome, shown to the engine.
	Description string `json:"description"`

	// Payload is optional structured output from the tool.
	Payload json.RawMessage `json:"payload,omitempty"`

	// Duration is how long the execution took.
	Duration time.Duration `json:"duration,omitempty"`
}

// NewResult creates a successful result with the given description.
func NewResult(name, description string) Result {
	return Result{Tool: name, Status: StatusSuccess, Description: description}
}

// NewResultWithPayload creates a successful result carrying structured output.
func NewResultWithPayload(name, description string, payload json.RawMessage) Result {
	return Result{Tool: name, Status: StatusSuccess, Description: description, Payload: payload}
}

// NewFailure creates a failure result with the given description.
func NewFailure(name, description string) Result {
	return Result{Tool: name, Status: StatusFailure, Description: description}
}

// NewSkipped creates a skipped result.
func NewSkipped(name string) Result {
	return Result{Tool: name, Status: StatusSkipped, Description: name + " (skipped)"}
}

// IsFailure reports whether the invocation failed.
func (r Result) IsFailure() bool {
	return r.Status == StatusFailure
}

// IsSuccess reports whether the invocation succeeded.
func (r Result) IsSuccess() bool {
	return r.Status == StatusSuccess
}
