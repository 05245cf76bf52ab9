package statemachine

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// Interpreter wraps the statekit interpreter with task loop semantics.
type Interpreter struct {
	interp *statekit.Interpreter[*Context]
	ctx    *Context
}

// NewInterpreter builds the task machine and binds it to the given context.
func NewInterpreter(ctx *Context) (*Interpreter, error) {
	machine, err := NewTaskMachine()
	if err != nil {
		return nil, fmt.Errorf("failed to build task machine: %w", err)
	}

	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **Context) {
		*c = ctx
	})
	return &Interpreter{
		interp: interp,
		ctx:    ctx,
	}, nil
}

// Start enters the seeded phase.
func (i *Interpreter) Start() {
	i.interp.Start()
	i.ctx.Phase = Phase(i.interp.State().Value)
}

// Stop stops the interpreter.
func (i *Interpreter) Stop() {
	i.interp.Stop()
}

// Phase returns the current phase.
func (i *Interpreter) Phase() Phase {
	return Phase(i.interp.State().Value)
}

// Iteration returns the current iteration count.
func (i *Interpreter) Iteration() int {
	return i.ctx.Iteration
}

// BeginIteration moves into the reasoning phase, consuming one iteration
// from the budget. It fails once the budget is exhausted.
func (i *Interpreter) BeginIteration() error {
	if !i.ctx.BudgetRemaining() {
		return fmt.Errorf("iteration budget exhausted after %d of %d", i.ctx.Iteration, i.ctx.MaxIterations)
	}
	i.interp.Send(statekit.Event{Type: EventReason})
	return nil
}

// Dispatch moves into the dispatching phase.
func (i *Interpreter) Dispatch() {
	i.interp.Send(statekit.Event{Type: EventDispatch})
}

// Complete moves into the terminal completed phase.
func (i *Interpreter) Complete() {
	i.interp.Send(statekit.Event{Type: EventComplete})
}

// Abort moves into the terminal aborted phase with a reason.
func (i *Interpreter) Abort(reason string) {
	i.interp.Send(statekit.Event{
		Type:    EventAbort,
		Payload: AbortPayload{Reason: reason},
	})
}

// IsTerminal returns true once the machine reached a final state.
func (i *Interpreter) IsTerminal() bool {
	return i.interp.Done()
}

// Context returns the interpreter context.
func (i *Interpreter) Context() *Context {
	return i.ctx
}

// Matches checks if the current phase matches the given one.
func (i *Interpreter) Matches(phase Phase) bool {
	return i.interp.Matches(statekit.StateID(phase))
}
