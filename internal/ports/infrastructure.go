package ports

import (
	"context"
	"time"

	"github.com/ahrav/go-allot/internal/domain"
)

// VoteStore persists courses and the votes their groups cast. It is the
// boundary to the course administration layer; the allocation core never
// touches it directly.
type VoteStore interface {
	// CreateCourse stores a new course together with its topics, slots, and
	// groups. It returns the course with storage ids filled in, or
	// ErrCourseExists if the name is taken.
	CreateCourse(ctx context.Context, course domain.Course) (domain.Course, error)

	// Course loads a course by name. A miss returns a *CourseNotFoundError.
	Course(ctx context.Context, name string) (domain.Course, error)

	// ListCourses returns all course names in creation order.
	ListCourses(ctx context.Context) ([]string, error)

	// SaveVotes replaces a group's votes in one transaction. Group numbers
	// start at 1. Nothing is written if any part fails.
	SaveVotes(ctx context.Context, course string, group int, votes domain.GroupVotes) error

	// Tally returns every group's stored votes for the course. Groups that
	// have not voted hold all-zero vectors.
	Tally(ctx context.Context, course string) (domain.Tally, error)

	// Reset drops all stored data and recreates an empty schema.
	Reset(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error
}

// MetricsCollector defines the interface for collecting operational metrics.
// Implementations should integrate with observability platforms like
// Prometheus,
// OpenTelemetry, or custom monitoring solutions.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	// The labels map provides additional context for the metric.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	// This is useful for tracking events like completed or failed trials.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	RecordGauge(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram.
	// This is useful for tracking distributions like fairness and welfare.
	RecordHistogram(metric string, value float64, labels map[string]string)
}
