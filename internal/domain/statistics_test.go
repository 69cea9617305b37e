package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccumulator(t *testing.T) {
	t.Run("means per strategy in registration order", func(t *testing.T) {
		acc := NewAccumulator("random", "top_first", "voting")
		acc.Add("voting", TrialStatistics{Fairness: 2, Welfare: 100})
		acc.Add("random", TrialStatistics{Fairness: 10, Welfare: 50})
		acc.Add("random", TrialStatistics{Fairness: 20, Welfare: 70})
		acc.Fail("voting")

		assert.Equal(t, []StrategySummary{
			{Strategy: "random", Fairness: 15, Welfare: 60, Trials: 2},
			{Strategy: "top_first"},
			{Strategy: "voting", Fairness: 2, Welfare: 100, Trials: 1, Failures: 1},
		}, acc.Mean())
	})

	t.Run("unknown strategies appended", func(t *testing.T) {
		acc := NewAccumulator()
		acc.Add("b", TrialStatistics{Welfare: 1})
		acc.Add("a", TrialStatistics{Welfare: 3})

		means := acc.Mean()
		assert.Equal(t, "b", means[0].Strategy)
		assert.Equal(t, "a", means[1].Strategy)
	})

	t.Run("mean does not mutate sums", func(t *testing.T) {
		acc := NewAccumulator()
		acc.Add("x", TrialStatistics{Fairness: 4, Welfare: 8})
		acc.Add("x", TrialStatistics{Fairness: 4, Welfare: 8})
		first := acc.Mean()
		second := acc.Mean()
		assert.Equal(t, first, second)
		assert.Equal(t, 8.0, second[0].Welfare)
	})
}
