// Package telemetry provides OpenTelemetry metrics for the platform.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsProvider provides access to metrics instruments.
type MetricsProvider struct {
	meter metric.Meter

	// Counters
	processesStarted  metric.Int64Counter
	processesFinished metric.Int64Counter
	actionExecutions  metric.Int64Counter
	statusTransitions metric.Int64Counter
	tokensUsed        metric.Int64Counter
	costAccrued       metric.Float64Counter

	// Histograms
	actionDuration metric.Float64Histogram

	// Gauges (UpDownCounter)
	activeProcesses metric.Int64UpDownCounter

	initErr error
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
		MeterName:    "github.com/zwp88/goapflow",
		MeterVersion: "1.0.0",
	}
}

// NewMetricsProvider creates a new metrics provider against the global meter
// provider.
func NewMetricsProvider(config MetricsConfig) *MetricsProvider {
	if config.MeterName == "" {
		config = DefaultMetricsConfig()
	}

	meter := otel.GetMeterProvider().Meter(
		config.MeterName,
		metric.WithInstrumentationVersion(config.MeterVersion),
	)

	mp := &MetricsProvider{meter: meter}
	mp.initErr = mp.initInstruments()
	return mp
}

func (mp *MetricsProvider) initInstruments() error {
	var err error

	mp.processesStarted, err = mp.meter.Int64Counter(
		"goap.processes.started",
		metric.WithDescription("Number of processes started"),
		metric.WithUnit("{process}"),
	)
	if err != nil {
		return err
	}

	mp.processesFinished, err = mp.meter.Int64Counter(
		"goap.processes.finished",
		metric.WithDescription("Number of processes finished, by final status"),
		metric.WithUnit("{process}"),
	)
	if err != nil {
		return err
	}

	mp.actionExecutions, err = mp.meter.Int64Counter(
		"goap.action.executions",
		metric.WithDescription("Number of action executions"),
		metric.WithUnit("{execution}"),
	)
	if err != nil {
		return err
	}

	mp.statusTransitions, err = mp.meter.Int64Counter(
		"goap.process.transitions",
		metric.WithDescription("Number of process status transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return err
	}

	mp.tokensUsed, err = mp.meter.Int64Counter(
		"goap.tokens.used",
		metric.WithDescription("Cumulative token usage"),
		metric.WithUnit("{token}"),
	)
	if err != nil {
		return err
	}

	mp.costAccrued, err = mp.meter.Float64Counter(
		"goap.cost.accrued",
		metric.WithDescription("Cumulative dollar cost"),
		metric.WithUnit("{dollar}"),
	)
	if err != nil {
		return err
	}

	mp.actionDuration, err = mp.meter.Float64Histogram(
		"goap.action.duration",
		metric.WithDescription("Duration of action executions"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	mp.activeProcesses, err = mp.meter.Int64UpDownCounter(
		"goap.processes.active",
		metric.WithDescription("Number of processes currently running"),
		metric.WithUnit("{process}"),
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

// RecordProcessStarted records a process start.
func (mp *MetricsProvider) RecordProcessStarted(ctx context.Context, agentName string) {
	mp.processesStarted.Add(ctx, 1, metric.WithAttributes(
		attribute.String("agent.name", agentName),
	))
	mp.activeProcesses.Add(ctx, 1)
}

// RecordProcessFinished records a process reaching a non-running status.
func (mp *MetricsProvider) RecordProcessFinished(ctx context.Context, agentName, finalStatus string) {
	mp.processesFinished.Add(ctx, 1, metric.WithAttributes(
		attribute.String("agent.name", agentName),
		attribute.String("status.final", finalStatus),
	))
	mp.activeProcesses.Add(ctx, -1)
}

// RecordActionExecution records one action invocation.
func (mp *MetricsProvider) RecordActionExecution(ctx context.Context, actionName, status string, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("action.name", actionName),
		attribute.String("status", status),
	}
	mp.actionExecutions.Add(ctx, 1, metric.WithAttributes(attrs...))
	mp.actionDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordStatusTransition records a process status transition.
func (mp *MetricsProvider) RecordStatusTransition(ctx context.Context, from, to, processID string) {
	mp.statusTransitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status.from", from),
		attribute.String("status.to", to),
		attribute.String("process.id", processID),
	))
}

// RecordUsage records token and cost consumption.
func (mp *MetricsProvider) RecordUsage(ctx context.Context, tokens int64, cost float64) {
	if tokens > 0 {
		mp.tokensUsed.Add(ctx, tokens)
	}
	if cost > 0 {
		mp.costAccrued.Add(ctx, cost)
	}
}

// NoopMetricsProvider is a no-op provider for when metrics are disabled.
type NoopMetricsProvider struct{}

// RecordProcessStarted is a no-op.
func (n *NoopMetricsProvider) RecordProcessStarted(ctx context.Context, agentName string) {}

// RecordProcessFinished is a no-op.
func (n *NoopMetricsProvider) RecordProcessFinished(ctx context.Context, agentName, finalStatus string) {
}

// RecordActionExecution is a no-op.
func (n *NoopMetricsProvider) RecordActionExecution(ctx context.Context, actionName, status string, duration time.Duration) {
}

// RecordStatusTransition is a no-op.
func (n *NoopMetricsProvider) RecordStatusTransition(ctx context.Context, from, to, processID string) {
}

// RecordUsage is a no-op.
func (n *NoopMetricsProvider) RecordUsage(ctx context.Context, tokens int64, cost float64) {}

// Metrics defines the interface for metrics recording.
type Metrics interface {
	RecordProcessStarted(ctx context.Context, agentName string)
	RecordProcessFinished(ctx context.Context, agentName, finalStatus string)
	RecordActionExecution(ctx context.Context, actionName, status string, duration time.Duration)
	RecordStatusTransition(ctx context.Context, from, to, processID string)
	RecordUsage(ctx context.Context, tokens int64, cost float64)
}

// Ensure implementations satisfy the interface.
var (
	_ Metrics = (*MetricsProvider)(nil)
	_ Metrics = (*NoopMetricsProvider)(nil)
)
