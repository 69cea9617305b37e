package strategies

import (
	"fmt"
	"math/rand/v2"

	"github.com/ahrav/go-allot/internal/domain"
	"github.com/ahrav/go-allot/internal/ports"
)

var _ ports.Allocator = (*RandomAllocator)(nil)

// RandomAllocator ignores preferences: it draws n distinct topics and n
// distinct slots and pairs agent i with the i-th draw of each. Topics are
// drawn before slots, so a seeded source reproduces the assignment.
type RandomAllocator struct {
	name string
}

// NewRandomAllocator creates a RandomAllocator.
func NewRandomAllocator(name string) (*RandomAllocator, error) {
	if name == "" {
		return nil, ErrEmptyAllocatorName
	}
	return &RandomAllocator{name: name}, nil
}

// Name returns the allocator's identifier.
func (ra *RandomAllocator) Name() string { return ra.name }

// Allocate draws the assignment. The profile is not consulted.
func (ra *RandomAllocator) Allocate(
	sizing domain.Sizing,
	_ domain.Profile,
	rng *rand.Rand,
) (domain.Assignment, error) {
	if err := sizing.Validate(); err != nil {
		return nil, err
	}

	topics, err := SampleDistinct(rng, domain.DimensionTopic, sizing.Topics, sizing.Agents)
	if err != nil {
		return nil, fmt.Errorf("sample topics: %w", err)
	}
	slots, err := SampleDistinct(rng, domain.DimensionSlot, sizing.Slots, sizing.Agents)
	if err != nil {
		return nil, fmt.Errorf("sample slots: %w", err)
	}

	assignment := make(domain.Assignment, sizing.Agents)
	for i := range assignment {
		assignment[i] = domain.Allocation{Topic: topics[i], Slot: slots[i]}
	}
	return assignment, nil
}

// NewRandomFromConfig creates a RandomAllocator from a configuration map.
// Random assignment takes no parameters.
func NewRandomFromConfig(id string, _ map[string]any) (ports.Allocator, error) {
	return NewRandomAllocator(id)
}
