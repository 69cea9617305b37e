package strategies

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-allot/internal/domain"
)

func TestShortlist(t *testing.T) {
	tests := []struct {
		name     string
		mass     []float64
		k        int
		expected []int
	}{
		{
			name:     "selects the largest masses",
			mass:     []float64{0.5, 2, 2.5, 1, 0},
			k:        2,
			expected: []int{2, 1},
		},
		{
			name:     "orders by mass descending",
			mass:     []float64{1, 3, 2},
			k:        3,
			expected: []int{1, 2, 0},
		},
		{
			name:     "boundary ties prefer lower index",
			mass:     []float64{1, 1, 1, 1},
			k:        2,
			expected: []int{0, 1},
		},
		{
			name:     "ties inside the shortlist ordered by index",
			mass:     []float64{0, 2, 0, 2, 5},
			k:        3,
			expected: []int{4, 1, 3},
		},
		{
			name:     "late higher mass displaces earlier entries",
			mass:     []float64{1, 1, 1, 9},
			k:        1,
			expected: []int{3},
		},
		{
			name:     "all zero mass",
			mass:     []float64{0, 0, 0},
			k:        2,
			expected: []int{0, 1},
		},
		{
			name:     "empty selection",
			mass:     []float64{1, 2},
			k:        0,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Shortlist(domain.DimensionTopic, tt.mass, tt.k)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	t.Run("k larger than universe", func(t *testing.T) {
		_, err := Shortlist(domain.DimensionSlot, []float64{1, 2}, 3)
		var sizeErr *domain.SizeError
		require.True(t, errors.As(err, &sizeErr))
		assert.Equal(t, domain.DimensionSlot, sizeErr.Dimension)
	})
}

func TestVoteMass(t *testing.T) {
	ballots := []domain.Ballot{
		{Topics: []float64{1, 0, 0}, Slots: []float64{0.5, 0.5}},
		{Topics: []float64{0.25, 0.25, 0.5}, Slots: []float64{0, 1}},
	}
	assert.Equal(t, []float64{1.25, 0.25, 0.5}, VoteMass(ballots, domain.DimensionTopic, 3))
	assert.Equal(t, []float64{0.5, 1.5}, VoteMass(ballots, domain.DimensionSlot, 2))
}

func TestMatch(t *testing.T) {
	t.Run("equal weight goes to higher agent id", func(t *testing.T) {
		ballots := []domain.Ballot{
			{Topics: []float64{1, 0}},
			{Topics: []float64{1, 0}},
		}
		a := domain.NewAssignment(2)
		unused := Match(domain.DimensionTopic, []int{0, 1}, ballots, a)
		assert.Zero(t, unused)
		assert.Equal(t, 0, a[1].Topic)
		assert.Equal(t, 1, a[0].Topic)
	})

	t.Run("larger weight wins regardless of id", func(t *testing.T) {
		ballots := []domain.Ballot{
			{Slots: []float64{0.6, 0.4}},
			{Slots: []float64{0.4, 0.6}},
		}
		a := domain.NewAssignment(2)
		Match(domain.DimensionSlot, []int{0, 1}, ballots, a)
		assert.Equal(t, 0, a[0].Slot)
		assert.Equal(t, 1, a[1].Slot)
	})

	t.Run("matched agents are skipped", func(t *testing.T) {
		ballots := []domain.Ballot{
			{Topics: []float64{0.9, 0.8}},
			{Topics: []float64{0.1, 0.2}},
		}
		a := domain.NewAssignment(2)
		// Agent 0 outweighs agent 1 on both topics but already holds
		// topic 0 when topic 1 is matched.
		Match(domain.DimensionTopic, []int{0, 1}, ballots, a)
		assert.Equal(t, domain.Assignment{
			{Topic: 0, Slot: domain.Unassigned},
			{Topic: 1, Slot: domain.Unassigned},
		}, a)
	})

	t.Run("surplus resources go unused", func(t *testing.T) {
		ballots := []domain.Ballot{
			{Topics: []float64{1, 0, 0}},
			{Topics: []float64{0, 1, 0}},
		}
		a := domain.NewAssignment(2)
		unused := Match(domain.DimensionTopic, []int{0, 1, 2}, ballots, a)
		assert.Equal(t, 1, unused)
		assert.Equal(t, 0, a[0].Topic)
		assert.Equal(t, 1, a[1].Topic)
	})

	t.Run("short shortlist leaves the sentinel", func(t *testing.T) {
		ballots := []domain.Ballot{
			{Topics: []float64{1, 0}},
			{Topics: []float64{1, 0}},
		}
		a := domain.NewAssignment(2)
		Match(domain.DimensionTopic, []int{0}, ballots, a)
		assert.Equal(t, domain.Unassigned, a[0].Topic)
		assert.Equal(t, 0, a[1].Topic)
	})
}
