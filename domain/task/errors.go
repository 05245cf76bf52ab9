package task

import (
	"errors"
	"fmt"
	"strings"
)

// Failure taxonomy. Only these cross the public boundary; dispatch-level
// faults are absorbed into the transcript so the engine can self-correct.
var (
	// ErrTaskAborted indicates the run ended without completion: the
	// engine gave up or the iteration budget ran out.
	ErrTaskAborted = errors.New("task aborted")

	// ErrBudgetExhausted indicates the iteration budget was reached
	// without a completion signal. Wrapped by ErrTaskAborted failures.
	ErrBudgetExhausted = errors.New("iteration budget exhausted")

	// ErrEngineFault indicates the reasoning engine failed: on the first
	// reasoning step immediately, or after bounded retries afterwards.
	ErrEngineFault = errors.New("reasoning engine fault")

	// ErrOutputInvalid indicates the final answer failed output schema
	// validation even after a corrective reasoning round.
	ErrOutputInvalid = errors.New("output failed schema validation")

	// ErrNoOutput indicates the outcome carries no structured output.
	ErrNoOutput = errors.New("outcome has no structured output")
)

// AbortError is the failure surfaced to callers. It carries the goal, the
// iteration count reached, and the transcript tail for diagnosis.
type AbortError struct {
	Goal       string
	Iterations int
	Reason     string
	Tail       []string

	// Cause is the taxonomy sentinel: ErrBudgetExhausted, ErrEngineFault,
	// or ErrOutputInvalid. Nil when the engine aborted deliberately.
	Cause error
}

// Error implements error.
func (e *AbortError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "task aborted after %d iteration(s): %s (goal: %q)", e.Iterations, e.Reason, e.Goal)
	if len(e.Tail) > 0 {
		b.WriteString("\nlast transcript entries:")
		for _, line := range e.Tail {
			b.WriteString("\n  ")
			b.WriteString(line)
		}
	}
	return b.String()
}

// Unwrap exposes ErrTaskAborted and the taxonomy cause to errors.Is.
func (e *AbortError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrTaskAborted, e.Cause}
	}
	return []error{ErrTaskAborted}
}
