package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/agentloop/domain/task"
	"github.com/felixgeelhaar/agentloop/domain/tool"
	"github.com/felixgeelhaar/agentloop/domain/trace"
	"github.com/felixgeelhaar/agentloop/domain/transcript"
	"github.com/felixgeelhaar/agentloop/infrastructure/logging"
	"github.com/felixgeelhaar/agentloop/infrastructure/resilience"
	"github.com/felixgeelhaar/agentloop/infrastructure/telemetry"
)

// Replayer re-executes a recorded trace against the current registry
// without consulting the reasoning engine. Replay is deterministic in
// the steps it takes; tool results may differ from the original run.
type Replayer struct {
	registry tool.Registry
	executor *resilience.Executor
	metrics  telemetry.Metrics
}

// NewReplayer creates a replayer over the given registry.
func NewReplayer(registry tool.Registry, executor *resilience.Executor, metrics telemetry.Metrics) *Replayer {
	if executor == nil {
		executor = resilience.NewDefaultExecutor()
	}
	if metrics == nil {
		metrics = &telemetry.NoopMetricsProvider{}
	}
	return &Replayer{
		registry: registry,
		executor: executor,
		metrics:  metrics,
	}
}

// Replay executes the trace steps in order. Every recorded tool must be
// registered before any step runs; an unknown tool fails the replay
// upfront. Individual step failures are tolerated and recorded in the
// outcome's action log.
func (r *Replayer) Replay(ctx context.Context, tr *trace.Trace) (*task.Outcome, error) {
	if tr == nil || tr.Len() == 0 {
		return nil, ErrEmptyTrace
	}

	for _, step := range tr.Steps {
		if !r.registry.Has(step.Tool) {
			return nil, fmt.Errorf("%w: %s", tool.ErrToolNotFound, step.Tool)
		}
	}

	outcome := &task.Outcome{
		ID:            uuid.NewString(),
		Goal:          tr.Goal,
		MaxIterations: tr.Len(),
		Trace:         tr,
		StartTime:     time.Now(),
	}

	logging.Info().
		Add(logging.TraceID(tr.ID)).
		Add(logging.Goal(tr.Goal)).
		Add(logging.Steps(tr.Len())).
		Msg("replay started")

	dispatcher := NewDispatcher(r.registry, r.executor, r.metrics)

	var log []string
	failures := 0
	for _, step := range tr.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res := dispatcher.dispatchOne(ctx, tool.NewInvocation(step.Tool, step.Args))
		r.metrics.RecordReplayStep(ctx, step.Tool, res.IsSuccess())
		if res.IsFailure() {
			failures++
		}
		log = append(log, transcript.ResultTurn(res).String())
	}

	outcome.Status = task.StatusCompleted
	outcome.Iterations = tr.Len()
	outcome.Feedback = fmt.Sprintf("replayed %d step(s), %d failed", tr.Len(), failures)
	outcome.ActionLog = strings.Join(log, "\n")
	outcome.EndTime = time.Now()

	logging.Info().
		Add(logging.TraceID(tr.ID)).
		Add(logging.Steps(tr.Len())).
		Add(logging.Duration(outcome.Duration())).
		Msg("replay finished")

	return outcome, nil
}
