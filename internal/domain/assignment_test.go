package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssignment(t *testing.T) {
	t.Run("new assignment is all sentinel", func(t *testing.T) {
		a := NewAssignment(3)
		assert.False(t, a.Complete())
		assert.True(t, a.Injective())
		for _, alloc := range a {
			assert.Equal(t, Allocation{Topic: Unassigned, Slot: Unassigned}, alloc)
		}
	})

	t.Run("set and complete", func(t *testing.T) {
		a := NewAssignment(2)
		a.Set(0, DimensionTopic, 1)
		a.Set(1, DimensionTopic, 0)
		a.Set(0, DimensionSlot, 2)
		assert.False(t, a.Complete())

		unErr := a.FirstUnassigned()
		if assert.NotNil(t, unErr) {
			assert.Equal(t, 1, unErr.Agent)
			assert.Equal(t, DimensionSlot, unErr.Dimension)
		}

		a.Set(1, DimensionSlot, 0)
		assert.True(t, a.Complete())
		assert.Nil(t, a.FirstUnassigned())
	})

	t.Run("injectivity per dimension", func(t *testing.T) {
		assert.True(t, Assignment{{0, 1}, {1, 0}}.Injective())
		assert.False(t, Assignment{{0, 1}, {0, 2}}.Injective())
		assert.False(t, Assignment{{0, 1}, {2, 1}}.Injective())
		// Same index in different dimensions is fine.
		assert.True(t, Assignment{{0, 0}, {1, 1}}.Injective())
	})

	t.Run("unused resources", func(t *testing.T) {
		s := Sizing{Agents: 2, Topics: 4, Slots: 2}
		a := Assignment{{Topic: 0, Slot: 1}, {Topic: 3, Slot: Unassigned}}
		assert.Equal(t, 2, a.Unused(s, DimensionTopic))
		assert.Equal(t, 1, a.Unused(s, DimensionSlot))
	})
}
