package domain

import (
	"errors"
	"fmt"
)

// Common domain errors that can occur during allocation and evaluation.
var (
	// ErrInsufficientResources indicates that a resource dimension has fewer
	// distinct items than there are agents to serve.
	ErrInsufficientResources = errors.New("insufficient resources")

	// ErrNotRanked indicates that an agent or resource has no entry in the
	// preference profile.
	ErrNotRanked = errors.New("resource not ranked")

	// ErrUnassigned indicates that an assignment still holds the unassigned
	// sentinel where a resource index was required.
	ErrUnassigned = errors.New("agent has no assigned resource")

	// ErrInvalidRanking indicates that a ranking is not a permutation of its
	// universe.
	ErrInvalidRanking = errors.New("invalid ranking")

	// ErrInvalidBallot indicates that a ballot does not match the resource
	// universe it votes over.
	ErrInvalidBallot = errors.New("invalid ballot")

	// ErrVoteTotalMismatch indicates that submitted votes do not add up to the
	// configured vote total.
	ErrVoteTotalMismatch = errors.New("vote total mismatch")

	// ErrInvalidConfiguration indicates that configuration is invalid or incomplete.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// Dimension names a resource dimension in error messages and logs.
type Dimension string

// Resource dimensions.
const (
	DimensionTopic Dimension = "topic"
	DimensionSlot  Dimension = "slot"
)

// SizeError reports that a dimension cannot supply one distinct resource per
// agent.
type SizeError struct {
	// Dimension is the resource dimension that ran short.
	Dimension Dimension

	// Available is the number of distinct resources in the dimension.
	Available int

	// Required is the number of distinct resources that were requested.
	Required int
}

// Error implements the error interface for SizeError.
func (e *SizeError) Error() string {
	return fmt.Sprintf("size error: dimension=%s, available=%d, required=%d",
		e.Dimension, e.Available, e.Required)
}

// Unwrap returns ErrInsufficientResources so callers can match with errors.Is.
func (e *SizeError) Unwrap() error { return ErrInsufficientResources }

// NewSizeError creates a new SizeError with the given details.
func NewSizeError(dim Dimension, available, required int) *SizeError {
	return &SizeError{
		Dimension: dim,
		Available: available,
		Required:  required,
	}
}

// LookupError reports a missing agent or a resource absent from an agent's
// ranking.
type LookupError struct {
	// Agent is the agent id that was looked up.
	Agent int

	// Dimension is the dimension of the missing resource. Empty when the
	// agent itself is missing.
	Dimension Dimension

	// Resource is the resource index that could not be found.
	Resource int
}

// Error implements the error interface for LookupError.
func (e *LookupError) Error() string {
	if e.Dimension == "" {
		return fmt.Sprintf("lookup error: agent=%d has no preference entry", e.Agent)
	}
	return fmt.Sprintf("lookup error: agent=%d, dimension=%s, resource=%d",
		e.Agent, e.Dimension, e.Resource)
}

// Unwrap returns ErrNotRanked.
func (e *LookupError) Unwrap() error { return ErrNotRanked }

// NewLookupError creates a new LookupError with the given details.
func NewLookupError(agent int, dim Dimension, resource int) *LookupError {
	return &LookupError{
		Agent:     agent,
		Dimension: dim,
		Resource:  resource,
	}
}

// UnassignedError reports that an agent's assignment entry is the unassigned
// sentinel. Utilities over such an entry are undefined.
type UnassignedError struct {
	// Agent is the agent without a resource.
	Agent int

	// Dimension is the dimension in which the agent went unmatched.
	Dimension Dimension
}

// Error implements the error interface for UnassignedError.
func (e *UnassignedError) Error() string {
	return fmt.Sprintf("unassigned resource: agent=%d, dimension=%s", e.Agent, e.Dimension)
}

// Unwrap returns ErrUnassigned.
func (e *UnassignedError) Unwrap() error { return ErrUnassigned }

// NewUnassignedError creates a new UnassignedError with the given details.
func NewUnassignedError(agent int, dim Dimension) *UnassignedError {
	return &UnassignedError{Agent: agent, Dimension: dim}
}

// ValidationError represents an error that occurred during validation.
// It can contain multiple validation failures.
type ValidationError struct {
	// Entity is the name of the entity that failed validation.
	Entity string

	// Errors contains the list of validation error messages.
	Errors []string

	// Err optionally classifies the failure with a sentinel.
	Err error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("validation errors for %s: %v", e.Entity, e.Errors)
}

// Unwrap returns the classifying sentinel, if any.
func (e *ValidationError) Unwrap() error { return e.Err }

// AddError adds a new error message to the validation error.
func (e *ValidationError) AddError(msg string) { e.Errors = append(e.Errors, msg) }

// AddErrorf adds a formatted error message to the validation error.
func (e *ValidationError) AddErrorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

// HasErrors returns true if there are any validation errors.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// NewValidationError creates a new ValidationError for the given entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{
		Entity: entity,
		Errors: make([]string, 0),
	}
}
