package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/go-allot/internal/domain"
)

func TestOTelRunObserver(t *testing.T) {
	info := RunInfo{
		Experiment: "baseline",
		Sizing:     domain.Sizing{Agents: 2, Topics: 3, Slots: 3},
		Trials:     10,
		Seed:       42,
		Policy:     "skip",
		Strategies: []string{"random", "voting"},
	}

	t.Run("records run metrics on success", func(t *testing.T) {
		metrics := newMockMetricsCollector()
		o := NewOTelRunObserver(metrics, info)

		ctx := o.Start(context.Background())
		assert.NotNil(t, trace.SpanFromContext(ctx))

		o.TrialSkipped(3, "voting", domain.NewSizeError(domain.DimensionTopic, 1, 2))
		o.Finish([]domain.StrategySummary{{Strategy: "random", Fairness: 1, Welfare: 2, Trials: 10}}, nil)

		assert.Equal(t, 1, o.skipped)
		assert.Equal(t, 1, metrics.latencies["experiment_run"])
		assert.Equal(t, 1.0, metrics.counters["experiment_runs"])
	})

	t.Run("tolerates nil metrics on failure", func(t *testing.T) {
		o := NewOTelRunObserver(nil, info)
		o.Start(context.Background())
		assert.NotPanics(t, func() { o.Finish(nil, errors.New("boom")) })
	})
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{domain.NewSizeError(domain.DimensionSlot, 1, 3), "size"},
		{domain.NewLookupError(0, domain.DimensionTopic, 7), "lookup"},
		{domain.NewUnassignedError(1, domain.DimensionSlot), "unassigned"},
		{domain.ErrInvalidBallot, "ballot"},
		{errors.New("other"), "other"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, errorKind(tt.err))
		})
	}
}
