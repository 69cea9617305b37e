package strategies

import (
	"fmt"
	"math/rand/v2"

	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-allot/internal/domain"
	"github.com/ahrav/go-allot/internal/ports"
)

var _ ports.Allocator = (*VotingAllocator)(nil)

// VotingAllocator is the two-phase voting mechanism shared by simulated runs
// and stored-course results. Ballots come from a ports.BallotSource; the
// allocator then, independently for topics and for slots:
//
//  1. sums ballot weight per resource into vote mass,
//  2. shortlists the n resources with the largest mass (see Shortlist),
//  3. greedily matches each shortlisted resource, in shortlist order, to the
//     unmatched agent with the most weight on it, ties to the higher id.
//
// When m >= n and p >= n every agent is matched. Should an agent end up
// unmatched it keeps domain.Unassigned; evaluating such an assignment fails
// with a *domain.UnassignedError instead of inventing a fallback.
type VotingAllocator struct {
	name   string
	source ports.BallotSource
}

// VotingConfig controls where a configured voting allocator gets its
// ballots.
type VotingConfig struct {
	// Ballots selects the generated ballot style.
	// "mixed": unbiased coin flip per agent
	// "plurality": every agent votes plurality
	// "proportional": every agent votes proportionally
	Ballots BallotMode `yaml:"ballots" json:"ballots" validate:"required,oneof=mixed plurality proportional"`
}

// DefaultVotingConfig returns a VotingConfig with coin-flipped ballots.
func DefaultVotingConfig() VotingConfig {
	return VotingConfig{Ballots: BallotsMixed}
}

// NewVotingAllocator creates a VotingAllocator reading ballots from source.
func NewVotingAllocator(name string, source ports.BallotSource) (*VotingAllocator, error) {
	if name == "" {
		return nil, ErrEmptyAllocatorName
	}
	if source == nil {
		return nil, ErrNilBallotSource
	}
	return &VotingAllocator{name: name, source: source}, nil
}

// Name returns the allocator's identifier.
func (va *VotingAllocator) Name() string { return va.name }

// Allocate collects ballots and runs shortlisting and greedy matching for
// both dimensions.
func (va *VotingAllocator) Allocate(
	sizing domain.Sizing,
	profile domain.Profile,
	rng *rand.Rand,
) (domain.Assignment, error) {
	if err := sizing.Validate(); err != nil {
		return nil, err
	}

	ballots, err := va.source.Ballots(sizing, profile, rng)
	if err != nil {
		return nil, fmt.Errorf("collect ballots: %w", err)
	}
	if len(ballots) != sizing.Agents {
		return nil, fmt.Errorf("%w: %d ballots, %d agents", ErrBallotCount, len(ballots), sizing.Agents)
	}
	for agent, b := range ballots {
		if err := b.Validate(sizing); err != nil {
			return nil, fmt.Errorf("agent %d: %w", agent, err)
		}
	}

	return Vote(sizing, ballots)
}

// Vote runs shortlisting and greedy matching over ballots that are already
// collected. It never consumes randomness.
func Vote(sizing domain.Sizing, ballots []domain.Ballot) (domain.Assignment, error) {
	assignment := domain.NewAssignment(sizing.Agents)
	for _, dim := range []domain.Dimension{domain.DimensionTopic, domain.DimensionSlot} {
		mass := VoteMass(ballots, dim, sizing.Universe(dim))
		shortlist, err := Shortlist(dim, mass, sizing.Agents)
		if err != nil {
			return nil, fmt.Errorf("shortlist %ss: %w", dim, err)
		}
		Match(dim, shortlist, ballots, assignment)
	}
	return assignment, nil
}

// NewVotingFromConfig creates a VotingAllocator with generated ballots from a
// configuration map. This is the boundary adapter for YAML/JSON configuration.
func NewVotingFromConfig(id string, params map[string]any) (ports.Allocator, error) {
	data, err := yaml.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	// Start with defaults, then overlay user config.
	cfg := DefaultVotingConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return NewVotingAllocator(id, GeneratedBallots{Mode: cfg.Ballots})
}
