package observability

import (
	"context"
	"log/slog"
	"time"
)

// Timer tracks the duration of an operation and records it as a metric.
type Timer struct {
	operation string
	start     time.Time
	logger    *slog.Logger
	metrics   Metrics
	tags      []Tag
}

// StartTimer creates a new timer for the given operation.
func StartTimer(operation string) *Timer {
	return &Timer{
		operation: operation,
		start:     time.Now(),
	}
}

// WithLogger adds a logger to the timer for automatic logging on stop.
func (t *Timer) WithLogger(logger *slog.Logger) *Timer {
	t.logger = logger
	return t
}

// WithMetrics adds a metrics collector to the timer.
func (t *Timer) WithMetrics(metrics Metrics) *Timer {
	t.metrics = metrics
	return t
}

// WithTags adds tags to the timer for metrics labeling.
func (t *Timer) WithTags(tags ...Tag) *Timer {
	t.tags = append(t.tags, tags...)
	return t
}

// Stop records the duration with an outcome derived from err.
func (t *Timer) Stop(ctx context.Context, err error) time.Duration {
	duration := time.Since(t.start)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}

	if t.logger != nil {
		args := []any{OperationKey, t.operation, DurationKey, duration.Milliseconds()}
		if err != nil {
			t.logger.WarnContext(ctx, "operation failed", append(args, ErrorKey, err.Error())...)
		} else {
			t.logger.DebugContext(ctx, "operation completed", args...)
		}
	}

	if t.metrics != nil {
		tags := make([]Tag, 0, len(t.tags)+2)
		tags = append(tags, t.tags...)
		tags = append(tags, T(OperationKey, t.operation), T(OutcomeKey, outcome))
		t.metrics.Timing(MetricOperationDuration, duration, tags...)
		t.metrics.Counter(MetricOperationTotal, 1, tags...)
		if err != nil {
			t.metrics.Counter(MetricOperationErrors, 1, tags...)
		}
	}

	return duration
}

// TimeOperationResult times fn and records its outcome. tags label the
// operation metrics alongside the operation name and outcome.
func TimeOperationResult[T any](ctx context.Context, logger *slog.Logger, metrics Metrics, operation string, fn func() (T, error), tags ...Tag) (T, error) {
	timer := StartTimer(operation).
		WithLogger(logger).
		WithMetrics(metrics).
		WithTags(tags...)

	result, err := fn()
	timer.Stop(ctx, err)
	return result, err
}
