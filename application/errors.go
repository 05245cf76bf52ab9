package application

import "errors"

var (
	// ErrNoEngine indicates the agent was built without a reasoning engine.
	ErrNoEngine = errors.New("reasoning engine is required")

	// ErrEmptyTrace indicates a replay was requested for a trace with no
	// recorded steps.
	ErrEmptyTrace = errors.New("trace has no steps")
)
