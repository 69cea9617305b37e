package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizeError(t *testing.T) {
	err := NewSizeError(DimensionTopic, 3, 5)
	assert.Equal(t, "size error: dimension=topic, available=3, required=5", err.Error())
	assert.True(t, errors.Is(fmt.Errorf("random: %w", err), ErrInsufficientResources))
}

func TestLookupError(t *testing.T) {
	assert.Equal(t, "lookup error: agent=2, dimension=slot, resource=9",
		NewLookupError(2, DimensionSlot, 9).Error())
	assert.Equal(t, "lookup error: agent=4 has no preference entry",
		NewLookupError(4, "", 0).Error())
	assert.ErrorIs(t, NewLookupError(0, DimensionTopic, 1), ErrNotRanked)
}

func TestUnassignedError(t *testing.T) {
	err := NewUnassignedError(7, DimensionTopic)
	assert.Equal(t, "unassigned resource: agent=7, dimension=topic", err.Error())
	assert.ErrorIs(t, err, ErrUnassigned)
}

func TestValidationError(t *testing.T) {
	t.Run("single error", func(t *testing.T) {
		err := NewValidationError("votes")
		err.AddError("topic votes sum to 90, total votes is 100")
		assert.True(t, err.HasErrors())
		assert.Equal(t, "validation error for votes: topic votes sum to 90, total votes is 100", err.Error())
	})

	t.Run("multiple errors", func(t *testing.T) {
		err := NewValidationError("sizing")
		err.AddErrorf("agents must be positive, got %d", 0)
		err.AddError("slots must be positive, got -1")
		assert.Equal(t, "validation errors for sizing: [agents must be positive, got 0 slots must be positive, got -1]", err.Error())
	})

	t.Run("sentinel classification", func(t *testing.T) {
		err := NewValidationError("votes")
		err.AddError("mismatch")
		err.Err = ErrVoteTotalMismatch
		assert.ErrorIs(t, err, ErrVoteTotalMismatch)
		assert.False(t, NewValidationError("x").HasErrors())
	})
}
