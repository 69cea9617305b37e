package application

import (
	"fmt"
	"slices"
	"sync"

	"github.com/ahrav/go-allot/infrastructure/strategies"
	"github.com/ahrav/go-allot/internal/ports"
)

// Verify interface compliance at compile time.
var _ ports.AllocatorRegistry = (*DefaultAllocatorRegistry)(nil)

// DefaultAllocatorRegistry implements ports.AllocatorRegistry with the
// built-in strategies pre-registered. Additional types can be registered at
// runtime.
type DefaultAllocatorRegistry struct {
	// factories maps allocator type strings to their factory functions.
	factories map[string]ports.AllocatorFactory
	// mu protects concurrent access to the factories map.
	mu sync.RWMutex
}

// NewDefaultAllocatorRegistry creates a registry with the random, top_first,
// and voting allocators registered.
func NewDefaultAllocatorRegistry() *DefaultAllocatorRegistry {
	return &DefaultAllocatorRegistry{
		factories: map[string]ports.AllocatorFactory{
			strategies.TypeRandom:   strategies.NewRandomFromConfig,
			strategies.TypeTopFirst: strategies.NewTopFirstFromConfig,
			strategies.TypeVoting:   strategies.NewVotingFromConfig,
		},
	}
}

// CreateAllocator looks up the factory for allocatorType and delegates
// construction to it.
func (r *DefaultAllocatorRegistry) CreateAllocator(
	allocatorType string,
	id string,
	params map[string]any,
) (ports.Allocator, error) {
	r.mu.RLock()
	factory, exists := r.factories[allocatorType]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unsupported allocator type: %s", allocatorType)
	}
	if id == "" {
		return nil, fmt.Errorf("allocator ID cannot be empty")
	}
	if params == nil {
		params = make(map[string]any)
	}

	allocator, err := factory(id, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create allocator %s of type %s: %w", id, allocatorType, err)
	}
	return allocator, nil
}

// RegisterAllocatorFactory registers or replaces the factory for a type.
func (r *DefaultAllocatorRegistry) RegisterAllocatorFactory(
	allocatorType string,
	factory ports.AllocatorFactory,
) error {
	if allocatorType == "" {
		return fmt.Errorf("allocator type cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory function cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[allocatorType] = factory
	return nil
}

// GetSupportedTypes returns the registered allocator types, sorted.
func (r *DefaultAllocatorRegistry) GetSupportedTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for allocatorType := range r.factories {
		types = append(types, allocatorType)
	}
	slices.Sort(types)
	return types
}
