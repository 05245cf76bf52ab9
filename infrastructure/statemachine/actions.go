package statemachine

import (
	"github.com/felixgeelhaar/statekit"
)

// AbortPayload carries the reason with an abort event.
type AbortPayload struct {
	Reason string
}

// beginIteration advances the iteration counter when reasoning starts.
// In statekit, actions receive a pointer to the context. Since our context
// is *Context, actions receive **Context.
func beginIteration(ctx **Context, _ statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	(*ctx).Iteration++
}

// markPhase records the phase the machine just entered.
func markPhase(ctx **Context, event statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	(*ctx).Phase = phaseFromEventType(event.Type)
}

// markAborted records the abort reason from the event payload.
func markAborted(ctx **Context, event statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	if payload, ok := event.Payload.(AbortPayload); ok {
		(*ctx).AbortReason = payload.Reason
	}
}

// guardBudgetRemaining blocks new iterations once the budget is spent.
// In statekit, guards receive the context by value, so *Context here.
func guardBudgetRemaining(ctx *Context, _ statekit.Event) bool {
	if ctx == nil {
		return false
	}
	return ctx.BudgetRemaining()
}

// phaseFromEventType derives the entered phase from an event type.
func phaseFromEventType(eventType statekit.EventType) Phase {
	switch eventType {
	case EventReason:
		return PhaseReasoning
	case EventDispatch:
		return PhaseDispatching
	case EventComplete:
		return PhaseCompleted
	case EventAbort:
		return PhaseAborted
	default:
		return Phase(eventType)
	}
}
