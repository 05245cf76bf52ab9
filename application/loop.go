package application

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/felixgeelhaar/agentloop/domain/task"
	"github.com/felixgeelhaar/agentloop/domain/tool"
	"github.com/felixgeelhaar/agentloop/domain/trace"
	"github.com/felixgeelhaar/agentloop/domain/transcript"
	"github.com/felixgeelhaar/agentloop/infrastructure/engine"
	"github.com/felixgeelhaar/agentloop/infrastructure/logging"
	"github.com/felixgeelhaar/agentloop/infrastructure/statemachine"
	"github.com/felixgeelhaar/agentloop/infrastructure/telemetry"
)

// Observer captures the environment state for one observation turn.
// Returning no content skips the turn.
type Observer func(ctx context.Context) []transcript.Content

// runConfig carries the per-run settings resolved from agent defaults
// and run options.
type runConfig struct {
	maxIterations int
	recentWindow  int
	systemPrompt  string
	outputSchema  json.RawMessage
	observer      Observer
	observeEvery  bool
}

// loopRunner drives one task through the seeded, reasoning, and
// dispatching phases until a terminal phase is reached.
type loopRunner struct {
	// first handles the opening reasoning step. A fault here is fatal
	// because the loop has no conversation to fall back on yet.
	first engine.Engine

	// steady handles every later step, normally wrapped with retries.
	steady engine.Engine

	dispatcher *Dispatcher
	metrics    telemetry.Metrics
	transcript *transcript.Transcript
	config     runConfig
}

// Run executes the loop for one goal. The returned outcome is always
// populated; on abort it is accompanied by a *task.AbortError.
func (r *loopRunner) Run(ctx context.Context, taskID, goal string) (*task.Outcome, error) {
	outcome := &task.Outcome{
		ID:            taskID,
		Goal:          goal,
		MaxIterations: r.config.maxIterations,
		StartTime:     time.Now(),
	}
	tr := trace.New(taskID, goal)

	interp, err := statemachine.NewInterpreter(statemachine.NewContext(taskID, goal, r.config.maxIterations))
	if err != nil {
		return nil, err
	}
	interp.Start()

	r.metrics.IncrementActiveTasks(ctx)
	defer r.metrics.DecrementActiveTasks(ctx)

	r.transcript.MustAppend(transcript.GoalTurn(goal))
	runStart := r.transcript.Len() - 1

	logging.Info().
		Add(logging.TaskID(taskID)).
		Add(logging.Goal(goal)).
		Add(logging.Engine(r.steady.Name())).
		Msg("task started")

	correctionUsed := false
	for {
		if err := interp.BeginIteration(); err != nil {
			return r.abort(ctx, outcome, tr, interp, runStart,
				"reached maximum iterations", task.ErrBudgetExhausted)
		}
		iteration := interp.Iteration()
		r.metrics.RecordIteration(ctx, taskID)

		if err := ctx.Err(); err != nil {
			outcome, _ = r.abort(ctx, outcome, tr, interp, runStart, "context cancelled", nil)
			return outcome, err
		}

		// Render before observing so the fresh observation reaches the
		// engine only through the request's own field, not the history.
		history := renderHistory(r.historyTurns(runStart), r.config.recentWindow)

		var observation string
		if r.config.observer != nil && (r.config.observeEvery || iteration == 1) {
			observation = r.observe(ctx)
		}

		req := engine.Request{
			System:        r.config.systemPrompt,
			Goal:          goal,
			History:       history,
			Observation:   observation,
			Tools:         toolCatalog(r.dispatcher.registry),
			Iteration:     iteration,
			MaxIterations: r.config.maxIterations,
			OutputSchema:  r.config.outputSchema,
		}

		step, err := r.reason(ctx, req, iteration)
		if err != nil {
			if errors.Is(err, engine.ErrMalformedResponse) {
				// Feed the parse failure back so the engine can correct
				// itself on the next iteration.
				r.transcript.MustAppend(transcript.ReasoningTurn("previous response was malformed: " + err.Error()))
				continue
			}
			return r.abort(ctx, outcome, tr, interp, runStart,
				"reasoning engine fault: "+err.Error(), task.ErrEngineFault)
		}

		if step.Reasoning != "" {
			r.transcript.MustAppend(transcript.ReasoningTurn(step.Reasoning))
		}

		switch step.Kind {
		case engine.StepInvoke:
			interp.Dispatch()
			for _, inv := range step.Invocations {
				r.transcript.MustAppend(transcript.InvocationTurn(inv))
			}
			results := r.dispatcher.Dispatch(ctx, step.Invocations, step.Parallel)
			for i, res := range results {
				r.transcript.MustAppend(transcript.ResultTurn(res))
				if res.Status != tool.StatusSkipped {
					tr.Append(step.Invocations[i])
				}
			}

		case engine.StepFinish:
			if len(r.config.outputSchema) > 0 {
				if err := tool.NewSchema(r.config.outputSchema).Validate(step.Finish.Output); err != nil {
					if !correctionUsed {
						// One corrective round: tell the engine what was
						// wrong and let it produce the output again.
						correctionUsed = true
						r.transcript.MustAppend(transcript.ReasoningTurn("final output rejected: " + err.Error()))
						continue
					}
					return r.abort(ctx, outcome, tr, interp, runStart,
						"output failed schema validation", task.ErrOutputInvalid)
				}
			}
			interp.Complete()
			outcome.Status = task.StatusCompleted
			outcome.Feedback = step.Finish.Feedback
			outcome.Output = step.Finish.Output
			r.finish(ctx, outcome, tr, interp, runStart)
			logging.Info().
				Add(logging.TaskID(taskID)).
				Add(logging.Iteration(outcome.Iterations)).
				Add(logging.Duration(outcome.Duration())).
				Msg("task completed")
			return outcome, nil

		case engine.StepAbort:
			return r.abort(ctx, outcome, tr, interp, runStart, step.Abort.Reason, nil)
		}
	}
}

// historyTurns returns every turn except the current run's goal, which
// the request carries in its own field.
func (r *loopRunner) historyTurns(goalIndex int) []transcript.Turn {
	turns := r.transcript.Turns()
	return append(turns[:goalIndex], turns[goalIndex+1:]...)
}

// reason calls the engine and records the call. The first iteration uses
// the unwrapped engine so a fault there surfaces immediately.
func (r *loopRunner) reason(ctx context.Context, req engine.Request, iteration int) (engine.Step, error) {
	eng := r.steady
	if iteration == 1 {
		eng = r.first
	}

	start := time.Now()
	step, err := eng.Reason(ctx, req)
	r.metrics.RecordEngineCall(ctx, eng.Name(), err == nil, time.Since(start))
	return step, err
}

// observe captures one observation, appends it to the transcript, and
// returns its rendering for the engine request.
func (r *loopRunner) observe(ctx context.Context) string {
	contents := r.config.observer(ctx)
	if len(contents) == 0 {
		return ""
	}
	r.transcript.MustAppend(transcript.ObservationTurn(contents))
	return renderContents(contents)
}

// finish fills the terminal outcome fields shared by both endings.
func (r *loopRunner) finish(ctx context.Context, outcome *task.Outcome, tr *trace.Trace, interp *statemachine.Interpreter, runStart int) {
	outcome.Iterations = interp.Iteration()
	outcome.Trace = tr
	outcome.ActionLog = buildActionLog(r.transcript.Turns()[runStart:])
	outcome.EndTime = time.Now()
	r.metrics.RecordTaskDuration(ctx, outcome.Duration(), string(outcome.Status))
}

// abort marks the run aborted and builds the caller-facing error.
func (r *loopRunner) abort(ctx context.Context, outcome *task.Outcome, tr *trace.Trace, interp *statemachine.Interpreter, runStart int, reason string, cause error) (*task.Outcome, error) {
	if !interp.IsTerminal() {
		interp.Abort(reason)
	}
	outcome.Status = task.StatusAborted
	outcome.Feedback = reason
	r.finish(ctx, outcome, tr, interp, runStart)

	errType := "abort"
	if cause != nil {
		errType = cause.Error()
	}
	r.metrics.RecordError(ctx, errType)

	logging.Warn().
		Add(logging.TaskID(outcome.ID)).
		Add(logging.Iteration(outcome.Iterations)).
		Add(logging.Str("reason", reason)).
		Msg("task aborted")

	return outcome, &task.AbortError{
		Goal:       outcome.Goal,
		Iterations: outcome.Iterations,
		Reason:     reason,
		Tail:       r.transcript.TailStrings(6),
		Cause:      cause,
	}
}
