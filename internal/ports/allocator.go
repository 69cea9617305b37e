// Package ports defines the core interfaces that form the contract between
// the domain/application layers and the infrastructure layer.
// These interfaces enable dependency inversion and make the system testable.
package ports

import (
	"math/rand/v2"

	"github.com/ahrav/go-allot/internal/domain"
)

// Allocator is one allocation mechanism. Given the sizing, the agents'
// preference profile, and a random source, it produces an assignment of one
// topic and one slot per agent.
//
// Implementations hold no mutable state between calls: the only source of
// nondeterminism is rng, so a fixed seed yields an identical assignment.
// Allocators are not required to be safe for concurrent use of the same rng.
type Allocator interface {
	// Name returns a unique identifier for this allocator.
	// The name is used for logging, metrics, and report rows.
	Name() string

	// Allocate computes an assignment. It returns a *domain.SizeError when a
	// resource dimension has fewer items than there are agents.
	//
	// Example:
	//
	//	assignment, err := allocator.Allocate(sizing, profile, rng)
	//	if err != nil {
	//	    return fmt.Errorf("allocator %s failed: %w", allocator.Name(), err)
	//	}
	Allocate(sizing domain.Sizing, profile domain.Profile, rng *rand.Rand) (domain.Assignment, error)
}

// BallotSource supplies one ballot per agent to a voting allocator. Sources
// either derive ballots from the preference profile or return vectors
// collected elsewhere, in which case profile may be nil.
type BallotSource interface {
	Ballots(sizing domain.Sizing, profile domain.Profile, rng *rand.Rand) ([]domain.Ballot, error)
}

// AllocatorFactory creates an allocator from its id and a parameter map
// decoded from configuration.
type AllocatorFactory func(id string, params map[string]any) (Allocator, error)

// AllocatorRegistry creates allocators by type name.
type AllocatorRegistry interface {
	// CreateAllocator builds an allocator of the given type.
	CreateAllocator(allocatorType string, id string, params map[string]any) (Allocator, error)

	// RegisterAllocatorFactory adds or replaces a factory for a type.
	RegisterAllocatorFactory(allocatorType string, factory AllocatorFactory) error

	// GetSupportedTypes lists registered allocator types.
	GetSupportedTypes() []string
}
