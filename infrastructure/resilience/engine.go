package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/fortify/retry"

	"github.com/felixgeelhaar/agentloop/infrastructure/engine"
)

// RetryEngine wraps an engine with a retry policy for transient backend
// faults. Malformed responses are not retried here; the loop feeds those
// back to the engine as conversation feedback instead.
type RetryEngine struct {
	inner engine.Engine
	retry retry.Retry[engine.Step]
}

// RetryEngineConfig configures engine retries.
type RetryEngineConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Multiplier   float64
}

// DefaultRetryEngineConfig returns a configuration with sensible defaults.
func DefaultRetryEngineConfig() RetryEngineConfig {
	return RetryEngineConfig{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		Multiplier:   2.0,
	}
}

// NewRetryEngine wraps an engine with retries.
func NewRetryEngine(inner engine.Engine, config RetryEngineConfig) *RetryEngine {
	return &RetryEngine{
		inner: inner,
		retry: retry.New[engine.Step](retry.Config{
			MaxAttempts:   config.MaxAttempts,
			InitialDelay:  config.InitialDelay,
			BackoffPolicy: retry.BackoffExponential,
			Multiplier:    config.Multiplier,
		}),
	}
}

// Name implements the Engine interface.
func (e *RetryEngine) Name() string {
	return e.inner.Name()
}

// Reason implements the Engine interface.
func (e *RetryEngine) Reason(ctx context.Context, req engine.Request) (engine.Step, error) {
	var malformed error
	step, err := e.retry.Do(ctx, func(ctx context.Context) (engine.Step, error) {
		step, err := e.inner.Reason(ctx, req)
		if errors.Is(err, engine.ErrMalformedResponse) {
			// Surface without retrying.
			malformed = err
			return engine.Step{}, nil
		}
		return step, err
	})
	if malformed != nil {
		return engine.Step{}, malformed
	}
	return step, err
}
