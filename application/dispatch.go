package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/felixgeelhaar/agentloop/domain/tool"
	"github.com/felixgeelhaar/agentloop/infrastructure/logging"
	"github.com/felixgeelhaar/agentloop/infrastructure/resilience"
	"github.com/felixgeelhaar/agentloop/infrastructure/telemetry"
)

// Dispatcher executes the invocations requested by a reasoning step.
// Every outcome, including lookup misses, validation rejections, and
// handler panics, is converted into a uniform result so the engine can
// react to it. Dispatch never returns an error to the loop.
type Dispatcher struct {
	registry tool.Registry
	executor *resilience.Executor
	metrics  telemetry.Metrics
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry tool.Registry, executor *resilience.Executor, metrics telemetry.Metrics) *Dispatcher {
	if executor == nil {
		executor = resilience.NewDefaultExecutor()
	}
	if metrics == nil {
		metrics = &telemetry.NoopMetricsProvider{}
	}
	return &Dispatcher{
		registry: registry,
		executor: executor,
		metrics:  metrics,
	}
}

// Dispatch executes a batch of invocations and returns one result per
// invocation, in request order. Sequential batches stop at the first
// failure and mark the remainder skipped. Parallel batches run
// concurrently; a failure in one invocation does not affect the others.
func (d *Dispatcher) Dispatch(ctx context.Context, invocations []tool.Invocation, parallel bool) []tool.Result {
	if parallel && len(invocations) > 1 {
		return d.dispatchParallel(ctx, invocations)
	}
	return d.dispatchSequential(ctx, invocations)
}

func (d *Dispatcher) dispatchSequential(ctx context.Context, invocations []tool.Invocation) []tool.Result {
	results := make([]tool.Result, 0, len(invocations))
	for i, inv := range invocations {
		res := d.dispatchOne(ctx, inv)
		results = append(results, res)
		if res.IsFailure() {
			for _, rest := range invocations[i+1:] {
				results = append(results, tool.NewSkipped(rest.Tool))
			}
			break
		}
	}
	return results
}

func (d *Dispatcher) dispatchParallel(ctx context.Context, invocations []tool.Invocation) []tool.Result {
	results := make([]tool.Result, len(invocations))

	var wg sync.WaitGroup
	for i, inv := range invocations {
		wg.Add(1)
		go func(i int, inv tool.Invocation) {
			defer wg.Done()
			results[i] = d.dispatchOne(ctx, inv)
		}(i, inv)
	}
	wg.Wait()

	return results
}

// dispatchOne resolves, validates, and executes a single invocation.
func (d *Dispatcher) dispatchOne(ctx context.Context, inv tool.Invocation) (res tool.Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = tool.NewFailure(inv.Tool, fmt.Sprintf("tool panicked: %v", r))
		}
		if res.Duration == 0 {
			res.Duration = time.Since(start)
		}
		d.metrics.RecordToolExecution(ctx, inv.Tool, res.IsSuccess(), res.Duration)
		logging.Debug().
			Add(logging.ToolName(inv.Tool)).
			Add(logging.ResultStatus(res.Status)).
			Add(logging.Duration(res.Duration)).
			Msg("invocation dispatched")
	}()

	t, ok := d.registry.Get(inv.Tool)
	if !ok {
		return tool.NewFailure(inv.Tool, fmt.Sprintf("tool not found: %s", inv.Tool))
	}

	if err := t.InputSchema().Validate(inv.Args); err != nil {
		return tool.NewFailure(inv.Tool, "invalid arguments: "+err.Error())
	}

	result, err := d.executor.Execute(ctx, t, inv.Args)
	if err != nil {
		return tool.NewFailure(inv.Tool, "execution failed: "+err.Error())
	}
	if result.Tool == "" {
		result.Tool = inv.Tool
	}
	return result
}
