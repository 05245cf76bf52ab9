// Package statemachine provides the statekit statechart for the task loop.
package statemachine

import (
	"github.com/felixgeelhaar/statekit"
)

// Phase identifies where a running task is in its lifecycle.
type Phase string

const (
	// PhaseSeeded means the transcript has been seeded with the goal but
	// no reasoning has happened yet.
	PhaseSeeded Phase = "seeded"

	// PhaseReasoning means the engine is deciding the next step.
	PhaseReasoning Phase = "reasoning"

	// PhaseDispatching means requested invocations are being executed.
	PhaseDispatching Phase = "dispatching"

	// PhaseCompleted is the terminal success phase.
	PhaseCompleted Phase = "completed"

	// PhaseAborted is the terminal failure phase.
	PhaseAborted Phase = "aborted"
)

// Terminal reports whether the phase is terminal.
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseAborted
}

// Context carries task progress through the state machine.
type Context struct {
	TaskID        string
	Goal          string
	Phase         Phase
	Iteration     int
	MaxIterations int

	// AbortReason is set when the machine enters the aborted phase.
	AbortReason string
}

// NewContext creates a machine context for one task.
func NewContext(taskID, goal string, maxIterations int) *Context {
	return &Context{
		TaskID:        taskID,
		Goal:          goal,
		Phase:         PhaseSeeded,
		MaxIterations: maxIterations,
	}
}

// BudgetRemaining reports whether another iteration fits the budget.
func (c *Context) BudgetRemaining() bool {
	return c.MaxIterations <= 0 || c.Iteration < c.MaxIterations
}

// State IDs as StateID type for statekit.
const (
	stateSeeded      statekit.StateID = statekit.StateID(PhaseSeeded)
	stateReasoning   statekit.StateID = statekit.StateID(PhaseReasoning)
	stateDispatching statekit.StateID = statekit.StateID(PhaseDispatching)
	stateCompleted   statekit.StateID = statekit.StateID(PhaseCompleted)
	stateAborted     statekit.StateID = statekit.StateID(PhaseAborted)
)

// Event types understood by the task machine.
const (
	EventReason   statekit.EventType = "REASON"
	EventDispatch statekit.EventType = "DISPATCH"
	EventComplete statekit.EventType = "COMPLETE"
	EventAbort    statekit.EventType = "ABORT"
)

// NewTaskMachine creates the canonical task loop statechart.
func NewTaskMachine() (*statekit.MachineConfig[*Context], error) {
	return statekit.NewMachine[*Context]("task").
		WithInitial(stateSeeded).
		WithContext(&Context{}).
		// Register actions
		WithAction("beginIteration", beginIteration).
		WithAction("markPhase", markPhase).
		WithAction("markAborted", markAborted).
		// Register guards
		WithGuard("budgetRemaining", guardBudgetRemaining).
		// Define states
		State(stateSeeded).
			On(EventReason).Target(stateReasoning).Guard("budgetRemaining").Do("beginIteration").
			On(EventAbort).Target(stateAborted).Do("markAborted").
			Done().
		State(stateReasoning).
			OnEntry("markPhase").
			// Self-transition for corrective rounds: re-reasoning after a
			// rejected step consumes budget like any other iteration.
			On(EventReason).Target(stateReasoning).Guard("budgetRemaining").Do("beginIteration").
			On(EventDispatch).Target(stateDispatching).
			On(EventComplete).Target(stateCompleted).
			On(EventAbort).Target(stateAborted).Do("markAborted").
			Done().
		State(stateDispatching).
			OnEntry("markPhase").
			On(EventReason).Target(stateReasoning).Guard("budgetRemaining").Do("beginIteration").
			On(EventComplete).Target(stateCompleted).
			On(EventAbort).Target(stateAborted).Do("markAborted").
			Done().
		State(stateCompleted).
			Final().
			OnEntry("markPhase").
			Done().
		State(stateAborted).
			Final().
			OnEntry("markPhase").
			Done().
		Build()
}
