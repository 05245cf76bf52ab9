package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/felixgeelhaar/agentloop/domain/tool"
	"github.com/felixgeelhaar/agentloop/domain/transcript"
	"github.com/felixgeelhaar/agentloop/infrastructure/storage/memory"
)

func TestToolCatalog_SortedByName(t *testing.T) {
	t.Parallel()

	registry := memory.NewToolRegistry()
	for _, name := range []string{"zip", "add", "multiply"} {
		def := tool.NewBuilder(name).
			WithHandler(func(_ context.Context, _ json.RawMessage) (tool.Result, error) {
				return tool.NewResult(name, "ok"), nil
			}).
			MustBuild()
		if err := registry.Register(def); err != nil {
			t.Fatal(err)
		}
	}

	infos := toolCatalog(registry)
	var names []string
	for _, info := range infos {
		names = append(names, info.Name)
	}
	if got, want := strings.Join(names, ","), "add,multiply,zip"; got != want {
		t.Errorf("catalog order = %q, want %q", got, want)
	}
}

func TestRenderHistory_CompactsOlderTurns(t *testing.T) {
	t.Parallel()

	var turns []transcript.Turn
	for i := 0; i < 10; i++ {
		turns = append(turns, transcript.ReasoningTurn(fmt.Sprintf("step %d", i)))
	}

	lines := renderHistory(turns, 3)
	if len(lines) != 4 {
		t.Fatalf("len(lines) = %d, want 4 (summary + window)", len(lines))
	}
	if !strings.Contains(lines[0], "7 earlier entries elided") {
		t.Errorf("lines[0] = %q", lines[0])
	}
	if lines[3] != "reasoning: step 9" {
		t.Errorf("lines[3] = %q", lines[3])
	}
}

func TestRenderHistory_NoCompactionWithinWindow(t *testing.T) {
	t.Parallel()

	turns := []transcript.Turn{
		transcript.ReasoningTurn("only step"),
	}

	if lines := renderHistory(turns, 5); len(lines) != 1 {
		t.Errorf("lines = %v", lines)
	}
	// Zero window disables compaction entirely.
	for i := 0; i < 10; i++ {
		turns = append(turns, transcript.ReasoningTurn("more"))
	}
	if lines := renderHistory(turns, 0); len(lines) != 11 {
		t.Errorf("len(lines) = %d, want 11", len(lines))
	}
}

func TestBuildActionLog_KeepsReasoningAndResults(t *testing.T) {
	t.Parallel()

	turns := []transcript.Turn{
		transcript.GoalTurn("the goal"),
		transcript.ReasoningTurn("thinking"),
		transcript.InvocationTurn(tool.NewInvocation("add", nil)),
		transcript.ResultTurn(tool.NewResult("add", "5")),
	}

	log := buildActionLog(turns)
	want := "reasoning: thinking\nresult add [success]: 5"
	if log != want {
		t.Errorf("buildActionLog() = %q, want %q", log, want)
	}
}

func TestRenderContents(t *testing.T) {
	t.Parallel()

	got := renderContents([]transcript.Content{
		transcript.TextContent("page loaded"),
		transcript.ImageContent("image/png", []byte{1, 2, 3}),
	})
	if !strings.Contains(got, "page loaded") || !strings.Contains(got, "image/png 3 bytes") {
		t.Errorf("renderContents() = %q", got)
	}
}
