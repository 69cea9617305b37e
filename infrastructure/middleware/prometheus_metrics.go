package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ahrav/go-allot/internal/ports"
)

// Metric names understood by PrometheusMetrics. Unknown counter names fall
// through to the generic operation counter; unknown gauge names are dropped.
const (
	MetricTrials          = "trials_total"
	MetricFairness        = "fairness"
	MetricWelfare         = "welfare"
	MetricUnusedResources = "unused_resources"
	MetricVotesSubmitted  = "votes_submitted_total"
)

// PrometheusMetrics implements the MetricsCollector interface using Prometheus.
// It exposes trial outcomes, allocation latency, and the distribution of
// fairness and welfare scores per strategy.
type PrometheusMetrics struct {
	trials           *prometheus.CounterVec
	votesSubmitted   *prometheus.CounterVec
	executionLatency *prometheus.HistogramVec
	fairness         *prometheus.HistogramVec
	welfare          *prometheus.HistogramVec
	unusedResources  *prometheus.GaugeVec
	operationCounter *prometheus.CounterVec
}

// NewPrometheusMetrics creates a new PrometheusMetrics instance and registers
// all metrics with reg. A nil reg uses the global Prometheus registry.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		// Trial and vote outcomes.
		trials: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "allot_trials_total",
				Help: "Number of strategy trials run, by outcome.",
			},
			[]string{"experiment", "strategy", "status"},
		),
		votesSubmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "allot_votes_submitted_total",
				Help: "Number of group vote submissions, by outcome.",
			},
			[]string{"course", "status"},
		),

		// Allocation quality distributions.
		fairness: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "allot_fairness",
				Help:    "Population variance of per-agent utility in a trial.",
				Buckets: prometheus.ExponentialBuckets(1, 4, 10),
			},
			[]string{"experiment", "strategy"},
		),
		welfare: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "allot_welfare",
				Help:    "Sum of per-agent utility in a trial.",
				Buckets: prometheus.ExponentialBuckets(8, 2, 12),
			},
			[]string{"experiment", "strategy"},
		),
		unusedResources: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "allot_unused_resources",
				Help: "Resources left unassigned by the most recent allocation.",
			},
			[]string{"experiment", "strategy", "dimension"},
		),

		// General execution metrics.
		executionLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "allot_operation_duration_seconds",
				Help:    "Execution time of allocation engine operations.",
				Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
			},
			[]string{"operation", "strategy"},
		),
		operationCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "allot_operations_total",
				Help: "Total number of operations performed by the allocation engine.",
			},
			[]string{"operation", "status", "strategy"},
		),
	}
}

// label returns labels[key], or "unknown" when it is missing or empty.
func label(labels map[string]string, key string) string {
	if v := labels[key]; v != "" {
		return v
	}
	return "unknown"
}

// RecordLatency implements the MetricsCollector interface by recording
// execution latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	labels map[string]string,
) {
	pm.executionLatency.WithLabelValues(operation, label(labels, "strategy")).Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by incrementing
// Prometheus counters.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case MetricTrials:
		pm.trials.WithLabelValues(
			label(labels, "experiment"),
			label(labels, "strategy"),
			label(labels, "status"),
		).Add(value)
	case MetricVotesSubmitted:
		pm.votesSubmitted.WithLabelValues(
			label(labels, "course"),
			label(labels, "status"),
		).Add(value)
	default:
		status := labels["status"]
		if status == "" {
			status = "success"
		}
		pm.operationCounter.WithLabelValues(metric, status, label(labels, "strategy")).Add(value)
	}
}

// RecordGauge implements the MetricsCollector interface by setting
// Prometheus gauge values.
func (pm *PrometheusMetrics) RecordGauge(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case MetricUnusedResources:
		pm.unusedResources.WithLabelValues(
			label(labels, "experiment"),
			label(labels, "strategy"),
			label(labels, "dimension"),
		).Set(value)
	}
}

// RecordHistogram implements the MetricsCollector interface by recording
// values in a Prometheus histogram. Names other than fairness and welfare
// are treated as durations in seconds.
func (pm *PrometheusMetrics) RecordHistogram(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case MetricFairness:
		pm.fairness.WithLabelValues(label(labels, "experiment"), label(labels, "strategy")).Observe(value)
	case MetricWelfare:
		pm.welfare.WithLabelValues(label(labels, "experiment"), label(labels, "strategy")).Observe(value)
	default:
		pm.executionLatency.WithLabelValues(metric, label(labels, "strategy")).Observe(value)
	}
}

// Compile-time verification that PrometheusMetrics implements MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)
