// Package domain contains pure, dependency-free models for preference-based
// allocation: rankings, profiles, ballots, assignments, and their scores.
package domain

import (
	"fmt"
	"math/rand/v2"
)

// Sizing carries the agent count and the size of each resource universe.
// It is passed explicitly to every strategy call.
type Sizing struct {
	// Agents is n, the number of agents. Agent ids are [0, Agents).
	Agents int `yaml:"agents" json:"agents" validate:"required,min=1"`

	// Topics is m, the number of topics. Topic indices are [0, Topics).
	Topics int `yaml:"topics" json:"topics" validate:"required,min=1"`

	// Slots is p, the number of time slots. Slot indices are [0, Slots).
	Slots int `yaml:"slots" json:"slots" validate:"required,min=1"`
}

// Validate reports non-positive counts as a *ValidationError and a resource
// dimension smaller than the agent count as a *SizeError.
func (s Sizing) Validate() error {
	verr := NewValidationError("sizing")
	if s.Agents < 1 {
		verr.AddErrorf("agents must be positive, got %d", s.Agents)
	}
	if s.Topics < 1 {
		verr.AddErrorf("topics must be positive, got %d", s.Topics)
	}
	if s.Slots < 1 {
		verr.AddErrorf("slots must be positive, got %d", s.Slots)
	}
	if verr.HasErrors() {
		verr.Err = ErrInvalidConfiguration
		return verr
	}

	if s.Topics < s.Agents {
		return NewSizeError(DimensionTopic, s.Topics, s.Agents)
	}
	if s.Slots < s.Agents {
		return NewSizeError(DimensionSlot, s.Slots, s.Agents)
	}
	return nil
}

// Universe returns the number of resources in dim.
func (s Sizing) Universe(dim Dimension) int {
	if dim == DimensionSlot {
		return s.Slots
	}
	return s.Topics
}

// Ranking is a total order over a resource universe [0, len), most preferred
// first.
type Ranking []int

// Position returns the rank position of item (0 = best).
func (r Ranking) Position(item int) (int, bool) {
	for pos, v := range r {
		if v == item {
			return pos, true
		}
	}
	return 0, false
}

// Top returns the most preferred item.
func (r Ranking) Top() int { return r[0] }

// Validate checks that r is a permutation of [0, universe).
func (r Ranking) Validate(universe int) error {
	if len(r) != universe {
		return fmt.Errorf("%w: length %d, universe %d", ErrInvalidRanking, len(r), universe)
	}
	seen := make([]bool, universe)
	for pos, item := range r {
		if item < 0 || item >= universe {
			return fmt.Errorf("%w: item %d at position %d outside [0,%d)", ErrInvalidRanking, item, pos, universe)
		}
		if seen[item] {
			return fmt.Errorf("%w: item %d repeated at position %d", ErrInvalidRanking, item, pos)
		}
		seen[item] = true
	}
	return nil
}

// Preference is one agent's private rankings over topics and time slots.
type Preference struct {
	Topics Ranking `yaml:"topics" json:"topics"`
	Slots  Ranking `yaml:"slots" json:"slots"`
}

// Ranking returns the ranking for dim.
func (p Preference) Ranking(dim Dimension) Ranking {
	if dim == DimensionSlot {
		return p.Slots
	}
	return p.Topics
}

// Profile maps agent id (the slice index) to that agent's preference. It is
// created once per trial and read-only afterwards.
type Profile []Preference

// Validate checks that the profile has one total-order preference per agent.
func (p Profile) Validate(s Sizing) error {
	if len(p) != s.Agents {
		return fmt.Errorf("%w: profile has %d agents, sizing expects %d", ErrInvalidConfiguration, len(p), s.Agents)
	}
	for agent, pref := range p {
		if err := pref.Topics.Validate(s.Topics); err != nil {
			return fmt.Errorf("agent %d topics: %w", agent, err)
		}
		if err := pref.Slots.Validate(s.Slots); err != nil {
			return fmt.Errorf("agent %d slots: %w", agent, err)
		}
	}
	return nil
}

// GenerateProfile builds a random preference profile by independently
// shuffling [0, Topics) and [0, Slots) for every agent, in agent order.
func GenerateProfile(s Sizing, rng *rand.Rand) Profile {
	profile := make(Profile, s.Agents)
	for i := range profile {
		profile[i] = Preference{
			Topics: shuffled(s.Topics, rng),
			Slots:  shuffled(s.Slots, rng),
		}
	}
	return profile
}

func shuffled(n int, rng *rand.Rand) Ranking {
	r := make(Ranking, n)
	for i := range r {
		r[i] = i
	}
	rng.Shuffle(n, func(i, j int) { r[i], r[j] = r[j], r[i] })
	return r
}
