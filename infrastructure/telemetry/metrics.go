// Package telemetry provides OpenTelemetry metrics and tracing for the
// task loop.
package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsProvider provides access to metrics instruments.
type MetricsProvider struct {
	meter metric.Meter

	// Counters
	iterations     metric.Int64Counter
	toolExecutions metric.Int64Counter
	engineCalls    metric.Int64Counter
	replaySteps    metric.Int64Counter
	errors         metric.Int64Counter

	// Histograms
	toolDuration      metric.Float64Histogram
	reasoningDuration metric.Float64Histogram
	taskDuration      metric.Float64Histogram

	// Gauges (UpDownCounter in OpenTelemetry)
	activeTasks metric.Int64UpDownCounter

	initOnce sync.Once
	initErr  error
}

// MetricsConfig configures the metrics provider.
type MetricsConfig struct {
	// MeterName is the name of the meter.
	MeterName string
	// MeterVersion is the version of the meter.
	MeterVersion string
}

// DefaultMetricsConfig returns a default metrics configuration.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		MeterName:    "github.com/felixgeelhaar/agentloop",
		MeterVersion: "1.0.0",
	}
}

// NewMetricsProvider creates a new metrics provider.
func NewMetricsProvider(config MetricsConfig) *MetricsProvider {
	if config.MeterName == "" {
		config = DefaultMetricsConfig()
	}

	meter := otel.GetMeterProvider().Meter(
		config.MeterName,
		metric.WithInstrumentationVersion(config.MeterVersion),
	)

	mp := &MetricsProvider{meter: meter}
	mp.initOnce.Do(func() {
		mp.initErr = mp.initInstruments()
	})
	return mp
}

func (mp *MetricsProvider) initInstruments() error {
	var err error

	mp.iterations, err = mp.meter.Int64Counter(
		"loop.iterations",
		metric.WithDescription("Number of loop iterations"),
		metric.WithUnit("{iteration}"),
	)
	if err != nil {
		return err
	}

	mp.toolExecutions, err = mp.meter.Int64Counter(
		"loop.tool.executions",
		metric.WithDescription("Number of tool executions"),
		metric.WithUnit("{execution}"),
	)
	if err != nil {
		return err
	}

	mp.engineCalls, err = mp.meter.Int64Counter(
		"loop.engine.calls",
		metric.WithDescription("Number of reasoning engine calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return err
	}

	mp.replaySteps, err = mp.meter.Int64Counter(
		"loop.replay.steps",
		metric.WithDescription("Number of replayed trace steps"),
		metric.WithUnit("{step}"),
	)
	if err != nil {
		return err
	}

	mp.errors, err = mp.meter.Int64Counter(
		"loop.errors",
		metric.WithDescription("Number of errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	mp.toolDuration, err = mp.meter.Float64Histogram(
		"loop.tool.duration",
		metric.WithDescription("Duration of tool executions"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	mp.reasoningDuration, err = mp.meter.Float64Histogram(
		"loop.reasoning.duration",
		metric.WithDescription("Duration of reasoning engine calls"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	mp.taskDuration, err = mp.meter.Float64Histogram(
		"loop.task.duration",
		metric.WithDescription("Duration of whole tasks"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	mp.activeTasks, err = mp.meter.Int64UpDownCounter(
		"loop.tasks.active",
		metric.WithDescription("Number of tasks currently running"),
		metric.WithUnit("{task}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Error returns any initialization error.
func (mp *MetricsProvider) Error() error {
	return mp.initErr
}

// RecordIteration records one loop iteration.
func (mp *MetricsProvider) RecordIteration(ctx context.Context, taskID string) {
	mp.iterations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("task.id", taskID),
	))
}

// RecordToolExecution records a tool execution.
func (mp *MetricsProvider) RecordToolExecution(ctx context.Context, toolName string, success bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("tool.name", toolName),
		attribute.Bool("success", success),
	}

	mp.toolExecutions.Add(ctx, 1, metric.WithAttributes(attrs...))
	mp.toolDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if !success {
		mp.errors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("error.type", "tool_execution"),
			attribute.String("tool.name", toolName),
		))
	}
}

// RecordEngineCall records a reasoning engine call.
func (mp *MetricsProvider) RecordEngineCall(ctx context.Context, engineName string, success bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("engine.name", engineName),
		attribute.Bool("success", success),
	}

	mp.engineCalls.Add(ctx, 1, metric.WithAttributes(attrs...))
	mp.reasoningDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordReplayStep records one replayed trace step.
func (mp *MetricsProvider) RecordReplayStep(ctx context.Context, toolName string, success bool) {
	mp.replaySteps.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool.name", toolName),
		attribute.Bool("success", success),
	))
}

// RecordError records an error.
func (mp *MetricsProvider) RecordError(ctx context.Context, errorType string) {
	mp.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("error.type", errorType),
	))
}

// RecordTaskDuration records a finished task.
func (mp *MetricsProvider) RecordTaskDuration(ctx context.Context, duration time.Duration, status string) {
	mp.taskDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(
		attribute.String("task.status", status),
	))
}

// IncrementActiveTasks increments the active task gauge.
func (mp *MetricsProvider) IncrementActiveTasks(ctx context.Context) {
	mp.activeTasks.Add(ctx, 1)
}

// DecrementActiveTasks decrements the active task gauge.
func (mp *MetricsProvider) DecrementActiveTasks(ctx context.Context) {
	mp.activeTasks.Add(ctx, -1)
}

// NoopMetricsProvider is a no-op metrics provider for testing or when
// metrics are disabled.
type NoopMetricsProvider struct{}

// RecordIteration is a no-op.
func (n *NoopMetricsProvider) RecordIteration(ctx context.Context, taskID string) {}

// RecordToolExecution is a no-op.
func (n *NoopMetricsProvider) RecordToolExecution(ctx context.Context, toolName string, success bool, duration time.Duration) {
}

// RecordEngineCall is a no-op.
func (n *NoopMetricsProvider) RecordEngineCall(ctx context.Context, engineName string, success bool, duration time.Duration) {
}

// RecordReplayStep is a no-op.
func (n *NoopMetricsProvider) RecordReplayStep(ctx context.Context, toolName string, success bool) {}

// RecordError is a no-op.
func (n *NoopMetricsProvider) RecordError(ctx context.Context, errorType string) {}

// RecordTaskDuration is a no-op.
func (n *NoopMetricsProvider) RecordTaskDuration(ctx context.Context, duration time.Duration, status string) {
}

// IncrementActiveTasks is a no-op.
func (n *NoopMetricsProvider) IncrementActiveTasks(ctx context.Context) {}

// DecrementActiveTasks is a no-op.
func (n *NoopMetricsProvider) DecrementActiveTasks(ctx context.Context) {}

// Metrics defines the interface for metrics recording.
type Metrics interface {
	RecordIteration(ctx context.Context, taskID string)
	RecordToolExecution(ctx context.Context, toolName string, success bool, duration time.Duration)
	RecordEngineCall(ctx context.Context, engineName string, success bool, duration time.Duration)
	RecordReplayStep(ctx context.Context, toolName string, success bool)
	RecordError(ctx context.Context, errorType string)
	RecordTaskDuration(ctx context.Context, duration time.Duration, status string)
	IncrementActiveTasks(ctx context.Context)
	DecrementActiveTasks(ctx context.Context)
}

// Ensure implementations satisfy the interface.
var (
	_ Metrics = (*MetricsProvider)(nil)
	_ Metrics = (*NoopMetricsProvider)(nil)
)
