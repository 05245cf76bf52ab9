package application

import (
	"encoding/json"

	"github.com/felixgeelhaar/agentloop/domain/tool"
	"github.com/felixgeelhaar/agentloop/domain/trace"
	"github.com/felixgeelhaar/agentloop/infrastructure/engine"
	"github.com/felixgeelhaar/agentloop/infrastructure/resilience"
	"github.com/felixgeelhaar/agentloop/infrastructure/telemetry"
)

// Option configures the agent.
type Option func(*Config)

// WithEngine sets the reasoning engine.
func WithEngine(e engine.Engine) Option {
	return func(c *Config) {
		c.Engine = e
	}
}

// WithRegistry sets the tool registry.
func WithRegistry(r tool.Registry) Option {
	return func(c *Config) {
		c.Registry = r
	}
}

// WithExecutor sets the resilient tool executor.
func WithExecutor(e *resilience.Executor) Option {
	return func(c *Config) {
		c.Executor = e
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m telemetry.Metrics) Option {
	return func(c *Config) {
		c.Metrics = m
	}
}

// WithTraceStore sets the trace store for completed runs.
func WithTraceStore(s trace.Store) Option {
	return func(c *Config) {
		c.Traces = s
	}
}

// WithMaxIterations sets the default Do budget.
func WithMaxIterations(n int) Option {
	return func(c *Config) {
		c.MaxIterations = n
	}
}

// WithAnswerIterations sets the default Tell and Check budget.
func WithAnswerIterations(n int) Option {
	return func(c *Config) {
		c.AnswerIterations = n
	}
}

// WithRecentWindow bounds how many transcript entries are rendered in
// full for the engine.
func WithRecentWindow(n int) Option {
	return func(c *Config) {
		c.RecentWindow = n
	}
}

// WithSystemPrompt overrides the engine's default system prompt.
func WithSystemPrompt(prompt string) Option {
	return func(c *Config) {
		c.SystemPrompt = prompt
	}
}

// WithObserver sets the environment observer.
func WithObserver(o Observer) Option {
	return func(c *Config) {
		c.Observer = o
	}
}

// WithObserveEveryIteration controls the observation cadence. When
// false, the observer runs only before the first reasoning step.
func WithObserveEveryIteration(every bool) Option {
	return func(c *Config) {
		c.ObserveEveryIteration = &every
	}
}

// WithEngineRetries configures the retry policy for reasoning calls.
func WithEngineRetries(config resilience.RetryEngineConfig) Option {
	return func(c *Config) {
		c.EngineRetries = &config
	}
}

// RunOption overrides agent defaults for a single run.
type RunOption func(*runConfig)

// WithBudget sets the iteration budget for this run.
func WithBudget(n int) RunOption {
	return func(c *runConfig) {
		c.maxIterations = n
	}
}

// WithOutputSchema requires the run's final output to satisfy the given
// JSON schema.
func WithOutputSchema(schema json.RawMessage) RunOption {
	return func(c *runConfig) {
		c.outputSchema = schema
	}
}

// WithRunObserver overrides the agent's observer for this run.
func WithRunObserver(o Observer) RunOption {
	return func(c *runConfig) {
		c.observer = o
	}
}
