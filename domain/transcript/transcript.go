package transcript

import (
	"fmt"
	"strings"
)

// Transcript is the append-only, causally ordered sequence of turns for
// one agent session. It persists across task runs on the same agent until
// explicitly reset. The transcript is a single-writer resource: callers
// must serialize access through one owner.
type Transcript struct {
	turns []Turn

	// pending counts invocations awaiting a result, by tool name.
	pending map[string]int
}

// New creates an empty transcript.
func New() *Transcript {
	return &Transcript{pending: make(map[string]int)}
}

// Append adds a turn. Appending is monotonic: turns are never reordered
// or deleted. A result turn must follow an invocation turn for the same
// tool.
func (t *Transcript) Append(turn Turn) error {
	switch turn.Kind {
	case TurnInvocation:
		if turn.Invocation == nil {
			return ErrMalformedTurn
		}
		t.pending[turn.Invocation.Tool]++
	case TurnResult:
		if turn.Result == nil {
			return ErrMalformedTurn
		}
		if t.pending[turn.Result.Tool] == 0 {
			return fmt.Errorf("%w: %s", ErrOrphanResult, turn.Result.Tool)
		}
		t.pending[turn.Result.Tool]--
	case TurnGoal, TurnReasoning, TurnObservation:
		// Always appendable.
	default:
		return ErrMalformedTurn
	}

	t.turns = append(t.turns, turn)
	return nil
}

// MustAppend appends a turn and panics on an ordering violation. Used by
// the loop, which constructs turns in causal order by design.
func (t *Transcript) MustAppend(turn Turn) {
	if err := t.Append(turn); err != nil {
		panic(err)
	}
}

// Turns returns a copy of all turns in order.
func (t *Transcript) Turns() []Turn {
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Len returns the number of turns.
func (t *Transcript) Len() int {
	return len(t.turns)
}

// Tail returns the last n turns (fewer if the transcript is shorter).
func (t *Transcript) Tail(n int) []Turn {
	if n >= len(t.turns) {
		return t.Turns()
	}
	out := make([]Turn, n)
	copy(out, t.turns[len(t.turns)-n:])
	return out
}

// TailStrings renders the last n turns for failure diagnostics.
func (t *Transcript) TailStrings(n int) []string {
	tail := t.Tail(n)
	out := make([]string, len(tail))
	for i, turn := range tail {
		out[i] = turn.String()
	}
	return out
}

// String renders a turn as a single diagnostic line.
func (turn Turn) String() string {
	switch turn.Kind {
	case TurnGoal:
		return "goal: " + turn.Text
	case TurnReasoning:
		return "reasoning: " + turn.Text
	case TurnInvocation:
		return fmt.Sprintf("invoke %s(%s)", turn.Invocation.Tool, string(turn.Invocation.Args))
	case TurnResult:
		return fmt.Sprintf("result %s [%s]: %s", turn.Result.Tool, turn.Result.Status, turn.Result.Description)
	case TurnObservation:
		var texts []string
		for _, c := range turn.Contents {
			if c.Kind == ContentText {
				texts = append(texts, c.Text)
			} else {
				texts = append(texts, fmt.Sprintf("[%s %d bytes]", c.MediaType, len(c.Data)))
			}
		}
		return "observation: " + strings.Join(texts, " ")
	default:
		return string(turn.Kind)
	}
}
