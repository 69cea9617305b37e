// Package middleware provides cross-cutting concerns for the allocation
// engine: metrics collection, allocator instrumentation, and tracing.
package middleware

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/go-allot/internal/domain"
	"github.com/ahrav/go-allot/internal/ports"
)

// TracerName is the instrumentation scope for experiment spans.
const TracerName = "github.com/ahrav/go-allot/experiment"

// RunInfo describes an experiment run for span attributes.
type RunInfo struct {
	Experiment string
	Sizing     domain.Sizing
	Trials     int
	Seed       uint64
	Policy     string
	Strategies []string
}

// OTelRunObserver traces one experiment run as an OpenTelemetry span. It
// records skipped trials as span events and the per-strategy means as
// attributes when the run finishes. A run observer is used by a single
// goroutine.
type OTelRunObserver struct {
	metrics ports.MetricsCollector
	info    RunInfo
	span    trace.Span
	start   time.Time
	skipped int
}

// NewOTelRunObserver creates an observer for the run described by info.
// metrics may be nil.
func NewOTelRunObserver(metrics ports.MetricsCollector, info RunInfo) *OTelRunObserver {
	return &OTelRunObserver{metrics: metrics, info: info}
}

// Start opens the run span and returns a context carrying it.
func (o *OTelRunObserver) Start(ctx context.Context) context.Context {
	tracer := otel.Tracer(TracerName)
	ctx, span := tracer.Start(ctx, "Experiment.Run", trace.WithAttributes(
		attribute.String("experiment.name", o.info.Experiment),
		attribute.Int("experiment.agents", o.info.Sizing.Agents),
		attribute.Int("experiment.topics", o.info.Sizing.Topics),
		attribute.Int("experiment.slots", o.info.Sizing.Slots),
		attribute.Int("experiment.trials", o.info.Trials),
		attribute.Int64("experiment.seed", int64(o.info.Seed)),
		attribute.String("experiment.on_trial_error", o.info.Policy),
		attribute.StringSlice("experiment.strategies", o.info.Strategies),
	))
	o.span = span
	o.start = time.Now()
	return ctx
}

// TrialSkipped records a strategy failure that the run tolerated.
func (o *OTelRunObserver) TrialSkipped(trial int, strategy string, err error) {
	o.skipped++
	o.span.AddEvent("trial.skipped", trace.WithAttributes(
		attribute.Int("trial", trial),
		attribute.String("strategy", strategy),
		attribute.String("error", err.Error()),
		attribute.String("error.kind", errorKind(err)),
	))
}

// Finish closes the span. A nil err marks the run successful and attaches
// the summaries.
func (o *OTelRunObserver) Finish(summaries []domain.StrategySummary, err error) {
	defer o.span.End()

	elapsed := time.Since(o.start)
	o.span.SetAttributes(
		attribute.Int("experiment.skipped", o.skipped),
		attribute.Int64("experiment.duration_ms", elapsed.Milliseconds()),
	)

	status := "success"
	if err != nil {
		status = "error"
		o.span.RecordError(err)
		o.span.SetStatus(codes.Error, err.Error())
	} else {
		for _, s := range summaries {
			o.span.AddEvent("strategy.summary", trace.WithAttributes(
				attribute.String("strategy", s.Strategy),
				attribute.Float64("fairness.mean", s.Fairness),
				attribute.Float64("welfare.mean", s.Welfare),
				attribute.Int("trials", s.Trials),
				attribute.Int("failures", s.Failures),
			))
		}
		o.span.SetStatus(codes.Ok, "experiment completed")
	}

	if o.metrics != nil {
		labels := map[string]string{"experiment": o.info.Experiment, "status": status}
		o.metrics.RecordLatency("experiment_run", elapsed, labels)
		o.metrics.RecordCounter("experiment_runs", 1, labels)
	}
}

// errorKind names the domain failure class of err for span attributes.
func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientResources):
		return "size"
	case errors.Is(err, domain.ErrNotRanked):
		return "lookup"
	case errors.Is(err, domain.ErrUnassigned):
		return "unassigned"
	case errors.Is(err, domain.ErrInvalidBallot):
		return "ballot"
	default:
		return "other"
	}
}
