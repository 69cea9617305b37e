// Package strategies provides the allocation mechanisms that implement
// ports.Allocator: uniform random assignment, agent-order greedy top-first
// assignment, and greedy matching driven by ballots.
package strategies

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Registered allocator type names.
const (
	TypeRandom   = "random"
	TypeTopFirst = "top_first"
	TypeVoting   = "voting"
)

// Common errors returned by allocator construction and ballot sources.
var (
	// ErrEmptyAllocatorName is returned when creating an allocator with an empty name.
	ErrEmptyAllocatorName = errors.New("allocator name cannot be empty")

	// ErrNilBallotSource is returned when a voting allocator has no ballot source.
	ErrNilBallotSource = errors.New("ballot source cannot be nil")

	// ErrBallotCount is returned when a ballot source yields a different number
	// of ballots than there are agents.
	ErrBallotCount = errors.New("ballot count does not match agent count")
)

// Package-level validator instance for configuration validation.
// Uses go-playground/validator v10 for struct tag-based validation.
var validate = validator.New()
