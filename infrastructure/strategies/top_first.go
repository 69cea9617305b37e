package strategies

import (
	"math/rand/v2"

	"github.com/ahrav/go-allot/internal/domain"
	"github.com/ahrav/go-allot/internal/ports"
)

var _ ports.Allocator = (*TopFirstAllocator)(nil)

// TopFirstAllocator processes agents in id order. Each agent takes the first
// topic in its own ranking that no earlier agent claimed, and independently
// the first unclaimed slot. The result is injective whenever m >= n and
// p >= n; later agents are structurally disadvantaged.
type TopFirstAllocator struct {
	name string
}

// NewTopFirstAllocator creates a TopFirstAllocator.
func NewTopFirstAllocator(name string) (*TopFirstAllocator, error) {
	if name == "" {
		return nil, ErrEmptyAllocatorName
	}
	return &TopFirstAllocator{name: name}, nil
}

// Name returns the allocator's identifier.
func (tf *TopFirstAllocator) Name() string { return tf.name }

// Allocate computes the greedy assignment. It is deterministic; rng is not used.
func (tf *TopFirstAllocator) Allocate(
	sizing domain.Sizing,
	profile domain.Profile,
	_ *rand.Rand,
) (domain.Assignment, error) {
	if err := sizing.Validate(); err != nil {
		return nil, err
	}
	if len(profile) < sizing.Agents {
		return nil, domain.NewLookupError(len(profile), "", 0)
	}

	assignment := domain.NewAssignment(sizing.Agents)
	for _, dim := range []domain.Dimension{domain.DimensionTopic, domain.DimensionSlot} {
		claimed := make([]bool, sizing.Universe(dim))
		for agent := 0; agent < sizing.Agents; agent++ {
			ranking := profile[agent].Ranking(dim)
			for _, item := range ranking {
				if item < 0 || item >= len(claimed) {
					return nil, domain.NewLookupError(agent, dim, item)
				}
				if !claimed[item] {
					claimed[item] = true
					assignment.Set(agent, dim, item)
					break
				}
			}
			if assignment[agent].Resource(dim) == domain.Unassigned {
				return nil, domain.NewUnassignedError(agent, dim)
			}
		}
	}
	return assignment, nil
}

// NewTopFirstFromConfig creates a TopFirstAllocator from a configuration map.
// Top-first assignment takes no parameters.
func NewTopFirstFromConfig(id string, _ map[string]any) (ports.Allocator, error) {
	return NewTopFirstAllocator(id)
}
