package transcript_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/felixgeelhaar/agentloop/domain/tool"
	"github.com/felixgeelhaar/agentloop/domain/transcript"
)

func TestTranscript_AppendOrder(t *testing.T) {
	t.Parallel()

	tr := transcript.New()

	turns := []transcript.Turn{
		transcript.GoalTurn("add two numbers"),
		transcript.ObservationTurn([]transcript.Content{transcript.TextContent("calculator idle")}),
		transcript.ReasoningTurn("I will call add"),
		transcript.InvocationTurn(tool.NewInvocation("add", json.RawMessage(`{"a":2,"b":3}`))),
		transcript.ResultTurn(tool.NewResult("add", "5")),
	}

	for _, turn := range turns {
		if err := tr.Append(turn); err != nil {
			t.Fatalf("Append(%s) error = %v", turn.Kind, err)
		}
	}

	got := tr.Turns()
	if len(got) != len(turns) {
		t.Fatalf("Len = %d, want %d", len(got), len(turns))
	}
	for i, turn := range got {
		if turn.Kind != turns[i].Kind {
			t.Errorf("turn %d kind = %s, want %s", i, turn.Kind, turns[i].Kind)
		}
	}
}

func TestTranscript_ResultRequiresInvocation(t *testing.T) {
	t.Parallel()

	tr := transcript.New()

	err := tr.Append(transcript.ResultTurn(tool.NewResult("add", "5")))
	if !errors.Is(err, transcript.ErrOrphanResult) {
		t.Errorf("Append() error = %v, want ErrOrphanResult", err)
	}
	if tr.Len() != 0 {
		t.Errorf("rejected turn was appended, Len = %d", tr.Len())
	}
}

func TestTranscript_ResultMatchesByName(t *testing.T) {
	t.Parallel()

	tr := transcript.New()
	tr.MustAppend(transcript.InvocationTurn(tool.NewInvocation("add", nil)))

	if err := tr.Append(transcript.ResultTurn(tool.NewFailure("mul", "boom"))); err == nil {
		t.Error("Append() accepted result for different tool")
	}
	if err := tr.Append(transcript.ResultTurn(tool.NewResult("add", "5"))); err != nil {
		t.Errorf("Append() error = %v", err)
	}
}

func TestTranscript_TurnsIsCopy(t *testing.T) {
	t.Parallel()

	tr := transcript.New()
	tr.MustAppend(transcript.GoalTurn("goal"))

	turns := tr.Turns()
	turns[0].Text = "mutated"

	if tr.Turns()[0].Text != "goal" {
		t.Error("Turns() exposed internal slice")
	}
}

func TestTranscript_Tail(t *testing.T) {
	t.Parallel()

	tr := transcript.New()
	tr.MustAppend(transcript.GoalTurn("goal"))
	tr.MustAppend(transcript.ReasoningTurn("step one"))
	tr.MustAppend(transcript.ReasoningTurn("step two"))

	tail := tr.Tail(2)
	if len(tail) != 2 {
		t.Fatalf("Tail(2) len = %d", len(tail))
	}
	if tail[1].Text != "step two" {
		t.Errorf("Tail(2)[1].Text = %q", tail[1].Text)
	}

	if got := tr.Tail(10); len(got) != 3 {
		t.Errorf("Tail(10) len = %d, want 3", len(got))
	}
}

func TestTurn_String(t *testing.T) {
	t.Parallel()

	inv := transcript.InvocationTurn(tool.NewInvocation("add", json.RawMessage(`{"a":1}`)))
	if got := inv.String(); got != `invoke add({"a":1})` {
		t.Errorf("String() = %q", got)
	}

	obs := transcript.ObservationTurn([]transcript.Content{
		transcript.TextContent("page loaded"),
		transcript.ImageContent("image/png", []byte{1, 2, 3}),
	})
	if got := obs.String(); got != "observation: page loaded [image/png 3 bytes]" {
		t.Errorf("String() = %q", got)
	}
}
