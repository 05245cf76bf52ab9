// Package engine adapts reasoning backends to the task loop. An Engine
// receives the goal, conversation history, and tool catalog, and returns
// the next step: invoke tools, finish, or abort.
package engine

import (
	"context"
	"encoding/json"

	"github.com/felixgeelhaar/agentloop/domain/tool"
)

// ToolInfo describes one registered tool for the engine's catalog.
type ToolInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// Request carries everything an engine needs to decide the next step.
type Request struct {
	// System is the system prompt. Empty means the engine's default.
	System string

	// Goal is the task being pursued.
	Goal string

	// History is the rendered conversation so far, oldest first.
	History []string

	// Observation is the latest environment observation, if any.
	Observation string

	// Tools is the catalog of registered tools.
	Tools []ToolInfo

	// Iteration and MaxIterations report budget progress so the engine
	// can wrap up before the budget runs out.
	Iteration     int
	MaxIterations int

	// OutputSchema, when set, constrains the JSON shape of the final
	// output the engine must produce on finish.
	OutputSchema json.RawMessage
}

// StepKind discriminates the engine's step union.
type StepKind string

const (
	// StepInvoke requests execution of one or more tool invocations.
	StepInvoke StepKind = "invoke"

	// StepFinish declares the goal satisfied.
	StepFinish StepKind = "finish"

	// StepAbort declares the goal unachievable.
	StepAbort StepKind = "abort"
)

// Step is the engine's decision for one loop iteration. Exactly one of
// the kind-specific fields is populated, matching Kind.
type Step struct {
	Kind      StepKind
	Reasoning string

	// Invocations is set when Kind is StepInvoke. Parallel marks the
	// invocations as independent, allowing concurrent dispatch.
	Invocations []tool.Invocation
	Parallel    bool

	// Finish is set when Kind is StepFinish.
	Finish *FinishStep

	// Abort is set when Kind is StepAbort.
	Abort *AbortStep
}

// FinishStep carries the successful completion payload.
type FinishStep struct {
	// Feedback is the engine's closing summary of what was done.
	Feedback string

	// Output is the structured result, present when an output schema
	// was requested.
	Output json.RawMessage
}

// AbortStep carries the reason the engine gave up.
type AbortStep struct {
	Reason string
}

// NewInvokeStep builds an invoke step.
func NewInvokeStep(reasoning string, parallel bool, invocations ...tool.Invocation) Step {
	return Step{
		Kind:        StepInvoke,
		Reasoning:   reasoning,
		Invocations: invocations,
		Parallel:    parallel,
	}
}

// NewFinishStep builds a finish step.
func NewFinishStep(feedback string, output json.RawMessage) Step {
	return Step{
		Kind:   StepFinish,
		Finish: &FinishStep{Feedback: feedback, Output: output},
	}
}

// NewAbortStep builds an abort step.
func NewAbortStep(reason string) Step {
	return Step{
		Kind:  StepAbort,
		Abort: &AbortStep{Reason: reason},
	}
}

// Validate checks that the step's payload matches its kind.
func (s Step) Validate() error {
	switch s.Kind {
	case StepInvoke:
		if len(s.Invocations) == 0 {
			return ErrEmptyStep
		}
		for _, inv := range s.Invocations {
			if inv.Tool == "" {
				return ErrEmptyStep
			}
		}
	case StepFinish:
		if s.Finish == nil {
			return ErrEmptyStep
		}
	case StepAbort:
		if s.Abort == nil {
			return ErrEmptyStep
		}
	default:
		return ErrUnknownStep
	}
	return nil
}

// Engine decides the next step of a running task.
type Engine interface {
	// Reason returns the next step for the given request.
	Reason(ctx context.Context, req Request) (Step, error)

	// Name returns the engine name for logging.
	Name() string
}
