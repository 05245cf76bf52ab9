package engine_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/felixgeelhaar/agentloop/domain/tool"
	"github.com/felixgeelhaar/agentloop/infrastructure/engine"
)

func TestStep_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		step    engine.Step
		wantErr error
	}{
		{
			name: "valid invoke",
			step: engine.NewInvokeStep("add them", false,
				tool.NewInvocation("add", json.RawMessage(`{"a":2,"b":3}`))),
		},
		{
			name:    "invoke with no invocations",
			step:    engine.Step{Kind: engine.StepInvoke},
			wantErr: engine.ErrEmptyStep,
		},
		{
			name: "invoke with unnamed tool",
			step: engine.Step{
				Kind:        engine.StepInvoke,
				Invocations: []tool.Invocation{{Tool: ""}},
			},
			wantErr: engine.ErrEmptyStep,
		},
		{
			name: "valid finish",
			step: engine.NewFinishStep("done", nil),
		},
		{
			name:    "finish without payload",
			step:    engine.Step{Kind: engine.StepFinish},
			wantErr: engine.ErrEmptyStep,
		},
		{
			name: "valid abort",
			step: engine.NewAbortStep("impossible"),
		},
		{
			name:    "unknown kind",
			step:    engine.Step{Kind: "wander"},
			wantErr: engine.ErrUnknownStep,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.step.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestScriptedEngine(t *testing.T) {
	t.Parallel()

	eng := engine.NewScriptedEngine(
		engine.NewInvokeStep("", false, tool.NewInvocation("add", json.RawMessage(`{"a":1,"b":2}`))),
		engine.NewFinishStep("3", nil),
	)

	ctx := context.Background()

	step, err := eng.Reason(ctx, engine.Request{Goal: "add"})
	if err != nil {
		t.Fatalf("Reason() error = %v", err)
	}
	if step.Kind != engine.StepInvoke {
		t.Errorf("first step kind = %s, want invoke", step.Kind)
	}

	step, err = eng.Reason(ctx, engine.Request{Goal: "add"})
	if err != nil {
		t.Fatalf("Reason() error = %v", err)
	}
	if step.Kind != engine.StepFinish {
		t.Errorf("second step kind = %s, want finish", step.Kind)
	}
	if eng.Remaining() != 0 {
		t.Errorf("Remaining() = %d, want 0", eng.Remaining())
	}

	if _, err := eng.Reason(ctx, engine.Request{}); !errors.Is(err, engine.ErrScriptExhausted) {
		t.Errorf("exhausted script error = %v, want ErrScriptExhausted", err)
	}
}

func TestScriptedEngine_CancelledContext(t *testing.T) {
	t.Parallel()

	eng := engine.NewScriptedEngine(engine.NewFinishStep("done", nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := eng.Reason(ctx, engine.Request{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Reason() error = %v, want context.Canceled", err)
	}
}

func TestMockEngine_RecordsRequests(t *testing.T) {
	t.Parallel()

	eng := &engine.MockEngine{
		ReasonFunc: func(ctx context.Context, req engine.Request) (engine.Step, error) {
			return engine.NewFinishStep("ok", nil), nil
		},
	}

	req := engine.Request{Goal: "do the thing", Iteration: 1, MaxIterations: 5}
	if _, err := eng.Reason(context.Background(), req); err != nil {
		t.Fatalf("Reason() error = %v", err)
	}

	if eng.Calls() != 1 {
		t.Fatalf("Calls() = %d, want 1", eng.Calls())
	}
	got := eng.Requests()[0]
	if got.Goal != "do the thing" || got.MaxIterations != 5 {
		t.Errorf("recorded request = %+v", got)
	}
}
