// Package task defines the terminal results of a loop run: outcomes,
// verdicts, and the failure taxonomy.
package task

import (
	"encoding/json"
	"time"

	"github.com/felixgeelhaar/agentloop/domain/trace"
)

// Status is the terminal status of a task run.
type Status string

const (
	// StatusCompleted means the engine signalled successful completion.
	StatusCompleted Status = "completed"

	// StatusAborted means the engine gave up, the iteration budget ran
	// out, or a fatal engine fault occurred.
	StatusAborted Status = "aborted"
)

// Outcome is the terminal, immutable result of one Do/Tell/Check run.
type Outcome struct {
	ID   string `json:"id"`
	Goal string `json:"goal"`

	Status Status `json:"status"`

	// Feedback is the engine's summary of what it accomplished, or the
	// abort reason.
	Feedback string `json:"feedback,omitempty"`

	// Output is the optional structured result, validated against the
	// caller's output schema when one was supplied.
	Output json.RawMessage `json:"output,omitempty"`

	// ActionLog is the human-readable log of reasoning and results.
	ActionLog string `json:"action_log,omitempty"`

	// Iterations is the number of reasoning iterations used.
	Iterations int `json:"iterations"`

	// MaxIterations is the budget the run was given.
	MaxIterations int `json:"max_iterations"`

	// Trace is the replayable record of dispatched invocations.
	Trace *trace.Trace `json:"trace,omitempty"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Completed reports whether the run finished successfully.
func (o *Outcome) Completed() bool {
	return o.Status == StatusCompleted
}

// Duration returns how long the run took.
func (o *Outcome) Duration() time.Duration {
	return o.EndTime.Sub(o.StartTime)
}

// DecodeOutput unmarshals the structured output into v.
func (o *Outcome) DecodeOutput(v any) error {
	if len(o.Output) == 0 {
		return ErrNoOutput
	}
	return json.Unmarshal(o.Output, v)
}
