package middleware

import (
	"math/rand/v2"
	"time"

	"github.com/ahrav/go-allot/internal/domain"
	"github.com/ahrav/go-allot/internal/ports"
)

var _ ports.Allocator = (*InstrumentedAllocator)(nil)

// InstrumentedAllocator decorates an allocator with latency, error, and
// unused-resource metrics. It adds no behaviour of its own: the wrapped
// allocator's assignment and error are returned unchanged.
type InstrumentedAllocator struct {
	next       ports.Allocator
	metrics    ports.MetricsCollector
	experiment string
}

// NewInstrumentedAllocator wraps next. The experiment name labels every
// recorded metric.
func NewInstrumentedAllocator(next ports.Allocator, metrics ports.MetricsCollector, experiment string) *InstrumentedAllocator {
	if next == nil {
		panic("instrumented allocator: next allocator is required")
	}
	if metrics == nil {
		panic("instrumented allocator: metrics collector is required")
	}
	return &InstrumentedAllocator{next: next, metrics: metrics, experiment: experiment}
}

// Name returns the wrapped allocator's name.
func (ia *InstrumentedAllocator) Name() string { return ia.next.Name() }

// Allocate delegates to the wrapped allocator and records its latency. On
// success it also records how many resources per dimension went unused.
func (ia *InstrumentedAllocator) Allocate(
	sizing domain.Sizing,
	profile domain.Profile,
	rng *rand.Rand,
) (domain.Assignment, error) {
	labels := map[string]string{
		"experiment": ia.experiment,
		"strategy":   ia.next.Name(),
	}

	start := time.Now()
	assignment, err := ia.next.Allocate(sizing, profile, rng)
	ia.metrics.RecordLatency("allocate", time.Since(start), labels)

	if err != nil {
		ia.metrics.RecordCounter("allocation_errors", 1, map[string]string{
			"experiment": ia.experiment,
			"strategy":   ia.next.Name(),
			"status":     "error",
		})
		return nil, err
	}

	for _, dim := range []domain.Dimension{domain.DimensionTopic, domain.DimensionSlot} {
		dimLabels := map[string]string{
			"experiment": ia.experiment,
			"strategy":   ia.next.Name(),
			"dimension":  string(dim),
		}
		ia.metrics.RecordGauge(MetricUnusedResources, float64(assignment.Unused(sizing, dim)), dimLabels)
	}
	return assignment, nil
}
