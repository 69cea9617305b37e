package ports

import (
	"errors"
	"fmt"
	"strings"
)

// Common infrastructure errors that can occur during storage and
// configuration operations.
var (
	// ErrCourseNotFound indicates that no course has the requested name.
	ErrCourseNotFound = errors.New("course not found")

	// ErrCourseExists indicates that a course with the same name is stored.
	ErrCourseExists = errors.New("course already exists")

	// ErrGroupNotFound indicates that a group number is outside the course.
	ErrGroupNotFound = errors.New("group not found")

	// ErrConfigNotFound indicates that required configuration is missing.
	ErrConfigNotFound = errors.New("configuration not found")
)

// StoreError represents an error from vote store operations.
// It includes the course and operation that failed.
type StoreError struct {
	// Course is the course name involved in the failed operation.
	Course string

	// Operation is the name of the store operation that failed.
	Operation string

	// Err is the underlying error that caused the operation to fail.
	Err error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	return fmt.Sprintf("store error: operation=%s, course=%s, err=%v", e.Operation, e.Course, e.Err)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError creates a new StoreError with the given details.
func NewStoreError(course, operation string, err error) *StoreError {
	return &StoreError{
		Course:    course,
		Operation: operation,
		Err:       err,
	}
}

// CourseNotFoundError reports a course lookup miss along with the closest
// stored names, if any.
type CourseNotFoundError struct {
	// Name is the course name that was requested.
	Name string

	// Suggestions are stored names close to Name, best first.
	Suggestions []string
}

// Error implements the error interface for CourseNotFoundError.
func (e *CourseNotFoundError) Error() string {
	msg := fmt.Sprintf("course %q not found", e.Name)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(quoteAll(e.Suggestions), ", "))
	}
	return msg
}

// Unwrap returns ErrCourseNotFound.
func (e *CourseNotFoundError) Unwrap() error { return ErrCourseNotFound }

func quoteAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = fmt.Sprintf("%q", n)
	}
	return out
}

// MetricsError represents an error from metrics collection operations.
type MetricsError struct {
	// Metric is the name of the metric that was being collected when the
	// error occurred.
	Metric string

	// Operation is the name of the metrics operation that failed.
	Operation string

	// Err is the underlying error that caused the metrics operation to fail.
	Err error
}

// Error implements the error interface for MetricsError.
func (e *MetricsError) Error() string {
	return fmt.Sprintf("metrics error: operation=%s, metric=%s, err=%v", e.Operation, e.Metric, e.Err)
}

// Unwrap returns the underlying error.
func (e *MetricsError) Unwrap() error { return e.Err }

// NewMetricsError creates a new MetricsError with the given details.
func NewMetricsError(metric, operation string, err error) *MetricsError {
	return &MetricsError{
		Metric:    metric,
		Operation: operation,
		Err:       err,
	}
}

// ConfigError represents an error from configuration operations.
type ConfigError struct {
	// ConfigKey is the configuration key that was involved in the failed
	// operation.
	ConfigKey string

	// Err is the underlying error that caused the configuration operation
	// to fail.
	Err error
}

// Error implements the error interface for ConfigError.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: key=%s, err=%v", e.ConfigKey, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError creates a new ConfigError with the given details.
func NewConfigError(key string, err error) *ConfigError {
	return &ConfigError{
		ConfigKey: key,
		Err:       err,
	}
}
