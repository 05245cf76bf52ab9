package telemetry

import (
	"context"
	"testing"
	"time"
)

func TestNewMetricsProvider(t *testing.T) {
	t.Parallel()

	mp := NewMetricsProvider(DefaultMetricsConfig())
	if mp.Error() != nil {
		t.Fatalf("Error() = %v", mp.Error())
	}

	// All recorders must be safe against the global no-op meter.
	ctx := context.Background()
	mp.RecordIteration(ctx, "task-1")
	mp.RecordToolExecution(ctx, "add", true, 5*time.Millisecond)
	mp.RecordToolExecution(ctx, "add", false, 5*time.Millisecond)
	mp.RecordEngineCall(ctx, "scripted", true, 10*time.Millisecond)
	mp.RecordReplayStep(ctx, "add", true)
	mp.RecordError(ctx, "engine_fault")
	mp.RecordTaskDuration(ctx, 100*time.Millisecond, "completed")
	mp.IncrementActiveTasks(ctx)
	mp.DecrementActiveTasks(ctx)
}

func TestNewMetricsProvider_EmptyConfigUsesDefaults(t *testing.T) {
	t.Parallel()

	mp := NewMetricsProvider(MetricsConfig{})
	if mp.Error() != nil {
		t.Fatalf("Error() = %v", mp.Error())
	}
}

func TestNoopMetricsProvider(t *testing.T) {
	t.Parallel()

	var m Metrics = &NoopMetricsProvider{}
	ctx := context.Background()
	m.RecordIteration(ctx, "task-1")
	m.RecordToolExecution(ctx, "add", true, time.Millisecond)
	m.IncrementActiveTasks(ctx)
	m.DecrementActiveTasks(ctx)
}

func TestProvider_DisabledShutdown(t *testing.T) {
	t.Parallel()

	p, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}
