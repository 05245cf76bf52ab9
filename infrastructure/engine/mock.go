package engine

import (
	"context"
	"sync"
)

// MockEngine is a configurable test double. Each Reason call is recorded
// and delegated to ReasonFunc.
type MockEngine struct {
	// ReasonFunc decides the step. Required.
	ReasonFunc func(ctx context.Context, req Request) (Step, error)

	mu       sync.Mutex
	requests []Request
}

// Name implements the Engine interface.
func (e *MockEngine) Name() string {
	return "mock"
}

// Reason implements the Engine interface.
func (e *MockEngine) Reason(ctx context.Context, req Request) (Step, error) {
	e.mu.Lock()
	e.requests = append(e.requests, req)
	e.mu.Unlock()
	return e.ReasonFunc(ctx, req)
}

// Calls returns the number of Reason calls so far.
func (e *MockEngine) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.requests)
}

// Requests returns a copy of the recorded requests.
func (e *MockEngine) Requests() []Request {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Request, len(e.requests))
	copy(out, e.requests)
	return out
}
