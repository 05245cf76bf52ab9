// Package application provides the public surface of the task loop: a
// stateful agent with do, tell, check, redo, and reset operations.
package application

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/agentloop/domain/task"
	"github.com/felixgeelhaar/agentloop/domain/tool"
	"github.com/felixgeelhaar/agentloop/domain/trace"
	"github.com/felixgeelhaar/agentloop/domain/transcript"
	"github.com/felixgeelhaar/agentloop/infrastructure/engine"
	"github.com/felixgeelhaar/agentloop/infrastructure/logging"
	"github.com/felixgeelhaar/agentloop/infrastructure/resilience"
	"github.com/felixgeelhaar/agentloop/infrastructure/storage/memory"
	"github.com/felixgeelhaar/agentloop/infrastructure/telemetry"
)

// verdictSchema constrains the structured output of a check run.
var verdictSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"passed": {"type": "boolean"},
		"reason": {"type": "string"}
	},
	"required": ["passed"]
}`)

// Config contains the collaborators and defaults for an agent.
type Config struct {
	// Engine decides each step. Required.
	Engine engine.Engine

	// Registry holds the callable tools. Defaults to an in-memory one.
	Registry tool.Registry

	// Executor runs tools with resilience patterns applied.
	Executor *resilience.Executor

	// Metrics records loop instrumentation. Defaults to a no-op.
	Metrics telemetry.Metrics

	// Traces persists replayable run records. Defaults to in-memory.
	Traces trace.Store

	// MaxIterations is the default budget for Do runs. Zero or negative
	// means unlimited.
	MaxIterations int

	// AnswerIterations is the default budget for Tell and Check runs.
	AnswerIterations int

	// RecentWindow bounds how many transcript entries are rendered in
	// full for the engine. Zero disables compaction.
	RecentWindow int

	// SystemPrompt overrides the engine's default system prompt.
	SystemPrompt string

	// Observer captures the environment at the start of each iteration.
	Observer Observer

	// ObserveEveryIteration controls the observation cadence. Nil means
	// observe on every iteration; false restricts it to the first.
	ObserveEveryIteration *bool

	// EngineRetries configures the retry policy applied to reasoning
	// calls after the first. Nil uses the default policy.
	EngineRetries *resilience.RetryEngineConfig
}

// Agent is the stateful loop surface. One agent owns one transcript,
// which persists across runs until Reset, so later goals can refer to
// earlier results. All operations serialize on the agent.
type Agent struct {
	mu sync.Mutex

	engine   engine.Engine
	steady   engine.Engine
	registry tool.Registry
	executor *resilience.Executor
	metrics  telemetry.Metrics
	traces   trace.Store

	transcript *transcript.Transcript

	maxIterations    int
	answerIterations int
	recentWindow     int
	systemPrompt     string
	observer         Observer
	observeEvery     bool
}

// New creates an agent with the given configuration.
func New(config Config) (*Agent, error) {
	if config.Engine == nil {
		return nil, ErrNoEngine
	}
	if config.Registry == nil {
		config.Registry = memory.NewToolRegistry()
	}
	if config.Executor == nil {
		config.Executor = resilience.NewDefaultExecutor()
	}
	if config.Metrics == nil {
		config.Metrics = &telemetry.NoopMetricsProvider{}
	}
	if config.Traces == nil {
		config.Traces = memory.NewTraceStore()
	}
	if config.MaxIterations == 0 {
		config.MaxIterations = 20
	}
	if config.AnswerIterations == 0 {
		config.AnswerIterations = 10
	}

	retries := resilience.DefaultRetryEngineConfig()
	if config.EngineRetries != nil {
		retries = *config.EngineRetries
	}

	observeEvery := true
	if config.ObserveEveryIteration != nil {
		observeEvery = *config.ObserveEveryIteration
	}

	return &Agent{
		engine:           config.Engine,
		steady:           resilience.NewRetryEngine(config.Engine, retries),
		registry:         config.Registry,
		executor:         config.Executor,
		metrics:          config.Metrics,
		traces:           config.Traces,
		transcript:       transcript.New(),
		maxIterations:    config.MaxIterations,
		answerIterations: config.AnswerIterations,
		recentWindow:     config.RecentWindow,
		systemPrompt:     config.SystemPrompt,
		observer:         config.Observer,
		observeEvery:     observeEvery,
	}, nil
}

// NewWithOptions creates an agent with functional options.
func NewWithOptions(opts ...Option) (*Agent, error) {
	config := Config{}
	for _, opt := range opts {
		opt(&config)
	}
	return New(config)
}

// Register adds tools to the agent's registry.
func (a *Agent) Register(tools ...tool.Tool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, t := range tools {
		if err := a.registry.Register(t); err != nil {
			return err
		}
	}
	return nil
}

// Do pursues a goal until the engine finishes, aborts, or the iteration
// budget runs out. The outcome carries the structured output, action
// log, and replayable trace.
func (a *Agent) Do(ctx context.Context, goal string, opts ...RunOption) (*task.Outcome, error) {
	return a.run(ctx, goal, a.maxIterations, opts)
}

// Tell asks the agent a question or gives it an instruction. The plain
// answer is the outcome's feedback; when an output schema is given the
// validated structured answer is on the outcome, reachable through
// DecodeOutput. Tell runs on the answer budget, which is smaller than
// the Do budget.
func (a *Agent) Tell(ctx context.Context, message string, opts ...RunOption) (*task.Outcome, error) {
	return a.run(ctx, message, a.answerIterations, opts)
}

// Check evaluates a condition and returns a verdict. A condition that
// does not hold is a falsy verdict with a reason, not an error; errors
// are reserved for runs that could not produce a verdict at all.
func (a *Agent) Check(ctx context.Context, condition string, opts ...RunOption) (task.Verdict, error) {
	goal := "Check whether the following condition holds: " + condition +
		`. Finish with output {"passed": <bool>, "reason": <string>}. ` +
		"Report a condition that does not hold as passed=false with the reason; do not abort."

	opts = append(opts, WithOutputSchema(verdictSchema))
	outcome, err := a.run(ctx, goal, a.answerIterations, opts)
	if err != nil {
		return task.Verdict{}, err
	}

	var v task.Verdict
	if err := outcome.DecodeOutput(&v); err != nil {
		return task.Verdict{}, fmt.Errorf("decode verdict: %w", err)
	}
	if !v.Passed && v.Reason == "" {
		v.Reason = outcome.Feedback
	}
	return v, nil
}

// Redo re-executes a stored trace by ID without consulting the engine.
func (a *Agent) Redo(ctx context.Context, traceID string) (*task.Outcome, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	tr, err := a.traces.Get(ctx, traceID)
	if err != nil {
		return nil, err
	}
	return a.replay(ctx, tr)
}

// RedoTrace re-executes the given trace without consulting the engine.
func (a *Agent) RedoTrace(ctx context.Context, tr *trace.Trace) (*task.Outcome, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.replay(ctx, tr)
}

// Reset discards the conversation state. Registered tools and stored
// traces are kept.
func (a *Agent) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.transcript = transcript.New()
	logging.Info().Msg("conversation state reset")
}

// Transcript returns a copy of the conversation turns so far.
func (a *Agent) Transcript() []transcript.Turn {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.transcript.Turns()
}

// Traces exposes the trace store, e.g. for listing replayable runs.
func (a *Agent) Traces() trace.Store {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.traces
}

func (a *Agent) run(ctx context.Context, goal string, budget int, opts []RunOption) (*task.Outcome, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	cfg := runConfig{
		maxIterations: budget,
		recentWindow:  a.recentWindow,
		systemPrompt:  a.systemPrompt,
		observer:      a.observer,
		observeEvery:  a.observeEvery,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	runner := &loopRunner{
		first:      a.engine,
		steady:     a.steady,
		dispatcher: NewDispatcher(a.registry, a.executor, a.metrics),
		metrics:    a.metrics,
		transcript: a.transcript,
		config:     cfg,
	}

	outcome, err := runner.Run(ctx, uuid.NewString(), goal)
	if outcome != nil && outcome.Completed() && outcome.Trace != nil && outcome.Trace.Len() > 0 {
		if saveErr := a.traces.Save(ctx, outcome.Trace); saveErr != nil {
			logging.Warn().
				Add(logging.TraceID(outcome.Trace.ID)).
				Add(logging.ErrorField(saveErr)).
				Msg("trace not saved")
		}
	}
	return outcome, err
}

func (a *Agent) replay(ctx context.Context, tr *trace.Trace) (*task.Outcome, error) {
	replayer := NewReplayer(a.registry, a.executor, a.metrics)
	return replayer.Replay(ctx, tr)
}
