// Package testutils provides deterministic random sources and profile
// builders shared by allocation tests.
package testutils

import (
	"math/rand/v2"

	"github.com/ahrav/go-allot/internal/domain"
)

// NewRand returns a deterministic random source for tests.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Profile builds a profile from per-agent topic and slot rankings. The two
// slices must have the same length.
func Profile(topics, slots [][]int) domain.Profile {
	profile := make(domain.Profile, len(topics))
	for i := range topics {
		profile[i] = domain.Preference{
			Topics: domain.Ranking(topics[i]),
			Slots:  domain.Ranking(slots[i]),
		}
	}
	return profile
}

// Identical builds a profile where all n agents share the same rankings.
func Identical(n int, topics, slots []int) domain.Profile {
	profile := make(domain.Profile, n)
	for i := range profile {
		profile[i] = domain.Preference{
			Topics: append(domain.Ranking(nil), topics...),
			Slots:  append(domain.Ranking(nil), slots...),
		}
	}
	return profile
}

// OpposedPair is the two-agent scenario where agent 0 ranks topics and slots
// [0,1] and agent 1 ranks both [1,0].
func OpposedPair() (domain.Sizing, domain.Profile) {
	sizing := domain.Sizing{Agents: 2, Topics: 2, Slots: 2}
	profile := Profile(
		[][]int{{0, 1}, {1, 0}},
		[][]int{{0, 1}, {1, 0}},
	)
	return sizing, profile
}

// Identity returns the ranking [0, 1, ..., n-1].
func Identity(n int) []int {
	r := make([]int, n)
	for i := range r {
		r[i] = i
	}
	return r
}
