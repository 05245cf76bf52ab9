package application_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/felixgeelhaar/agentloop/application"
	"github.com/felixgeelhaar/agentloop/domain/tool"
	"github.com/felixgeelhaar/agentloop/domain/trace"
	"github.com/felixgeelhaar/agentloop/infrastructure/engine"
	"github.com/felixgeelhaar/agentloop/infrastructure/storage/memory"
)

// stubEngine satisfies the engine interface for replay tests, which
// never reason.
type stubEngine struct{}

func (stubEngine) Reason(ctx context.Context, req engine.Request) (engine.Step, error) {
	return engine.Step{}, errors.New("replay must not consult the engine")
}

func (stubEngine) Name() string { return "stub" }

func newReplayer(t *testing.T, tools ...tool.Tool) *application.Replayer {
	t.Helper()

	reg := memory.NewToolRegistry()
	for _, tl := range tools {
		if err := reg.Register(tl); err != nil {
			t.Fatal(err)
		}
	}
	return application.NewReplayer(reg, nil, nil)
}

func TestReplayer_IterationsMatchTraceLength(t *testing.T) {
	t.Parallel()

	tr := trace.New("t1", "add twice")
	tr.Append(tool.NewInvocation("add", json.RawMessage(`{"a":2,"b":3}`)))
	tr.Append(tool.NewInvocation("add", json.RawMessage(`{"a":10,"b":20}`)))

	r := newReplayer(t, addTool())
	outcome, err := r.Replay(context.Background(), tr)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}

	if outcome.Iterations != tr.Len() {
		t.Errorf("Iterations = %d, want trace length %d", outcome.Iterations, tr.Len())
	}
	if !outcome.Completed() {
		t.Errorf("Status = %v, want completed", outcome.Status)
	}
	if !strings.Contains(outcome.ActionLog, "result add [success]: 5") {
		t.Errorf("ActionLog = %q", outcome.ActionLog)
	}
	if !strings.Contains(outcome.Feedback, "2 step(s), 0 failed") {
		t.Errorf("Feedback = %q", outcome.Feedback)
	}
}

func TestReplayer_UnknownToolFailsBeforeExecuting(t *testing.T) {
	t.Parallel()

	var executed atomic.Int32
	counter := tool.NewBuilder("counter").
		WithHandler(func(ctx context.Context, args json.RawMessage) (tool.Result, error) {
			executed.Add(1)
			return tool.NewResult("counter", "ran"), nil
		}).
		MustBuild()

	tr := trace.New("t1", "mixed trace")
	tr.Append(tool.NewInvocation("counter", nil))
	tr.Append(tool.NewInvocation("vanished", nil))

	r := newReplayer(t, counter)
	if _, err := r.Replay(context.Background(), tr); !errors.Is(err, tool.ErrToolNotFound) {
		t.Fatalf("Replay() error = %v, want ErrToolNotFound", err)
	}
	if executed.Load() != 0 {
		t.Errorf("executed %d steps before the precheck failed", executed.Load())
	}
}

func TestReplayer_StepFailuresAreTolerated(t *testing.T) {
	t.Parallel()

	tr := trace.New("t1", "partly failing")
	tr.Append(tool.NewInvocation("boom", nil))
	tr.Append(tool.NewInvocation("add", json.RawMessage(`{"a":1,"b":1}`)))

	r := newReplayer(t, failingTool("boom"), addTool())
	outcome, err := r.Replay(context.Background(), tr)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}

	if !outcome.Completed() {
		t.Errorf("Status = %v, want completed despite step failure", outcome.Status)
	}
	if outcome.Iterations != 2 {
		t.Errorf("Iterations = %d, want 2", outcome.Iterations)
	}
	if !strings.Contains(outcome.Feedback, "1 failed") {
		t.Errorf("Feedback = %q", outcome.Feedback)
	}
}

func TestReplayer_EmptyTrace(t *testing.T) {
	t.Parallel()

	r := newReplayer(t)
	if _, err := r.Replay(context.Background(), trace.New("t1", "empty")); !errors.Is(err, application.ErrEmptyTrace) {
		t.Errorf("Replay() error = %v, want ErrEmptyTrace", err)
	}
	if _, err := r.Replay(context.Background(), nil); !errors.Is(err, application.ErrEmptyTrace) {
		t.Errorf("Replay(nil) error = %v, want ErrEmptyTrace", err)
	}
}

func TestAgent_Redo(t *testing.T) {
	t.Parallel()

	store := memory.NewTraceStore()
	tr := trace.New("recorded-run", "add 2 and 3")
	tr.Append(tool.NewInvocation("add", json.RawMessage(`{"a":2,"b":3}`)))
	if err := store.Save(context.Background(), tr); err != nil {
		t.Fatal(err)
	}

	a, err := application.NewWithOptions(
		application.WithEngine(&stubEngine{}),
		application.WithTraceStore(store),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Register(addTool()); err != nil {
		t.Fatal(err)
	}

	outcome, err := a.Redo(context.Background(), "recorded-run")
	if err != nil {
		t.Fatalf("Redo() error = %v", err)
	}
	if outcome.Iterations != 1 || !outcome.Completed() {
		t.Errorf("outcome = %+v", outcome)
	}

	if _, err := a.Redo(context.Background(), "missing"); !errors.Is(err, trace.ErrTraceNotFound) {
		t.Errorf("Redo() error = %v, want ErrTraceNotFound", err)
	}
}
