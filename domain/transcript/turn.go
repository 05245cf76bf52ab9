package transcript

import (
	"time"

	"github.com/felixgeelhaar/agentloop/domain/tool"
)

// TurnKind identifies what a turn records.
type TurnKind string

const (
	// TurnGoal is the task statement that seeded the loop.
	TurnGoal TurnKind = "goal"

	// TurnReasoning is a textual reasoning step from the engine.
	TurnReasoning TurnKind = "reasoning"

	// TurnInvocation is a tool invocation requested by the engine.
	TurnInvocation TurnKind = "invocation"

	// TurnResult is the dispatcher's result for one invocation.
	TurnResult TurnKind = "result"

	// TurnObservation is an environment snapshot.
	TurnObservation TurnKind = "observation"
)

// Turn is one entry in the transcript. Exactly the fields for its kind
// are set.
type Turn struct {
	Kind       TurnKind         `json:"kind"`
	Text       string           `json:"text,omitempty"`
	Invocation *tool.Invocation `json:"invocation,omitempty"`
	Result     *tool.Result     `json:"result,omitempty"`
	Contents   []Content        `json:"contents,omitempty"`
	Timestamp  time.Time        `json:"timestamp"`
}

// GoalTurn creates a goal turn.
func GoalTurn(goal string) Turn {
	return Turn{Kind: TurnGoal, Text: goal, Timestamp: time.Now()}
}

// ReasoningTurn creates a reasoning turn.
func ReasoningTurn(text string) Turn {
	return Turn{Kind: TurnReasoning, Text: text, Timestamp: time.Now()}
}

// InvocationTurn creates an invocation turn.
func InvocationTurn(inv tool.Invocation) Turn {
	return Turn{Kind: TurnInvocation, Invocation: &inv, Timestamp: time.Now()}
}

// ResultTurn creates a result turn.
func ResultTurn(res tool.Result) Turn {
	return Turn{Kind: TurnResult, Result: &res, Timestamp: time.Now()}
}

// ObservationTurn creates an observation turn.
func ObservationTurn(contents []Content) Turn {
	return Turn{Kind: TurnObservation, Contents: contents, Timestamp: time.Now()}
}
