package engine

import (
	"context"
	"sync"
)

// ScriptedEngine returns a fixed sequence of steps. It is deterministic
// and needs no backend, which makes it useful for examples and tests.
type ScriptedEngine struct {
	mu    sync.Mutex
	steps []Step
	next  int
}

// NewScriptedEngine creates an engine that plays back the given steps in
// order. Reason returns ErrScriptExhausted once the script runs out.
func NewScriptedEngine(steps ...Step) *ScriptedEngine {
	return &ScriptedEngine{steps: steps}
}

// Name implements the Engine interface.
func (e *ScriptedEngine) Name() string {
	return "scripted"
}

// Reason implements the Engine interface.
func (e *ScriptedEngine) Reason(ctx context.Context, req Request) (Step, error) {
	if err := ctx.Err(); err != nil {
		return Step{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.next >= len(e.steps) {
		return Step{}, ErrScriptExhausted
	}
	step := e.steps[e.next]
	e.next++
	return step, nil
}

// Remaining returns the number of unplayed steps.
func (e *ScriptedEngine) Remaining() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.steps) - e.next
}
