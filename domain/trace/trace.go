// Package trace provides the replayable record of a completed run and its
// persistence interface.
package trace

import (
	"encoding/json"
	"time"

	"github.com/felixgeelhaar/agentloop/domain/tool"
)

// Step is one resolved invocation captured from a completed run. Args are
// the validated arguments the dispatcher actually executed with.
type Step struct {
	Tool string          `json:"tool"`
	Args json.RawMessage `json:"args,omitempty"`
}

// Trace is the ordered sequence of dispatched invocations from one run,
// tagged with the goal they satisfied. Replay consumes it read-only.
type Trace struct {
	ID         string    `json:"id"`
	Goal       string    `json:"goal"`
	RecordedAt time.Time `json:"recorded_at"`
	Steps      []Step    `json:"steps"`
}

// New creates an empty trace for the given goal.
func New(id, goal string) *Trace {
	return &Trace{
		ID:         id,
		Goal:       goal,
		RecordedAt: time.Now(),
	}
}

// Append records a dispatched invocation in dispatch order.
func (t *Trace) Append(inv tool.Invocation) {
	t.Steps = append(t.Steps, Step{Tool: inv.Tool, Args: inv.Args})
}

// Len returns the number of recorded steps.
func (t *Trace) Len() int {
	return len(t.Steps)
}

// ToolNames returns the tool name of each step in order.
func (t *Trace) ToolNames() []string {
	names := make([]string, len(t.Steps))
	for i, s := range t.Steps {
		names[i] = s.Tool
	}
	return names
}
