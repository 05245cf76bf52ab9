package telemetry

import (
	"context"
	"errors"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Provider manages the OpenTelemetry SDK lifecycle for the loop: tracer
// and meter providers, exporters, and shutdown.
type Provider struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	shutdownFuncs  []func(context.Context) error
}

// Config configures the telemetry provider.
type Config struct {
	// ServiceName identifies the service in exported telemetry.
	ServiceName string

	// ServiceVersion identifies the build.
	ServiceVersion string

	// Enabled turns exporting on. When false, the global no-op providers
	// stay in place.
	Enabled bool

	// Output receives exported spans and metrics. Defaults to discarding
	// output when nil; pass os.Stdout for development.
	Output io.Writer

	// MetricInterval is the metric export interval.
	MetricInterval time.Duration
}

// DefaultConfig returns a disabled configuration with service defaults.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "agentloop",
		ServiceVersion: "dev",
		MetricInterval: 30 * time.Second,
	}
}

// New sets up the OpenTelemetry SDK with stdout exporters and installs
// the global providers. With Enabled false it returns a provider whose
// Shutdown is a no-op.
func New(config Config) (*Provider, error) {
	p := &Provider{}
	if !config.Enabled {
		return p, nil
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(config.ServiceName),
		semconv.ServiceVersion(config.ServiceVersion),
	)

	traceOpts := []stdouttrace.Option{stdouttrace.WithPrettyPrint()}
	metricOpts := []stdoutmetric.Option{}
	if config.Output != nil {
		traceOpts = append(traceOpts, stdouttrace.WithWriter(config.Output))
		metricOpts = append(metricOpts, stdoutmetric.WithWriter(config.Output))
	}

	traceExporter, err := stdouttrace.New(traceOpts...)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	p.tracerProvider = tp
	p.shutdownFuncs = append(p.shutdownFuncs, tp.Shutdown)

	metricExporter, err := stdoutmetric.New(metricOpts...)
	if err != nil {
		return nil, err
	}

	interval := config.MetricInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter,
			sdkmetric.WithInterval(interval))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	p.meterProvider = mp
	p.shutdownFuncs = append(p.shutdownFuncs, mp.Shutdown)

	return p, nil
}

// Tracer returns a tracer for the loop.
func (p *Provider) Tracer() trace.Tracer {
	return otel.Tracer("github.com/felixgeelhaar/agentloop")
}

// Shutdown flushes and stops all exporters.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	for _, fn := range p.shutdownFuncs {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
