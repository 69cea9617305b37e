package application

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/ahrav/go-allot/infrastructure/middleware"
	"github.com/ahrav/go-allot/internal/domain"
	"github.com/ahrav/go-allot/internal/ports"
)

// VoteService administers courses and accepts group votes.
type VoteService struct {
	store   ports.VoteStore
	metrics ports.MetricsCollector
	log     *log.Entry
}

// NewVoteService creates a vote service over store. metrics and logger
// may be nil.
func NewVoteService(store ports.VoteStore, metrics ports.MetricsCollector, logger *log.Entry) *VoteService {
	return &VoteService{store: store, metrics: metrics, log: entryOrDefault(logger)}
}

// Create stores a new course from a validated spec.
func (s *VoteService) Create(ctx context.Context, spec CourseSpec) (domain.Course, error) {
	course, err := s.store.CreateCourse(ctx, spec.Course())
	if err != nil {
		return domain.Course{}, err
	}
	s.log.WithFields(log.Fields{
		"course": course.Name,
		"groups": course.Groups,
	}).Info("course created")
	return course, nil
}

// List returns stored course names in creation order.
func (s *VoteService) List(ctx context.Context) ([]string, error) {
	return s.store.ListCourses(ctx)
}

// Course loads a stored course by name.
func (s *VoteService) Course(ctx context.Context, name string) (domain.Course, error) {
	return s.store.Course(ctx, name)
}

// Submit validates a group's votes against the course and replaces its
// stored votes. Each dimension must have one non-negative count per resource
// summing to the course's vote total; otherwise a *domain.ValidationError is
// returned and nothing is written.
func (s *VoteService) Submit(ctx context.Context, courseName string, group int, votes domain.GroupVotes) error {
	logger := s.log.WithFields(log.Fields{"course": courseName, "group": group})

	course, err := s.store.Course(ctx, courseName)
	if err != nil {
		s.recordVote(courseName, "error")
		return err
	}
	if err := course.ValidateVotes(group, votes); err != nil {
		s.recordVote(courseName, "rejected")
		logger.WithError(err).Warn("rejected votes")
		return err
	}
	if err := s.store.SaveVotes(ctx, courseName, group, votes); err != nil {
		s.recordVote(courseName, "error")
		return fmt.Errorf("saving votes: %w", err)
	}

	s.recordVote(courseName, "accepted")
	logger.Info("votes accepted")
	return nil
}

// Reset drops every course and vote.
func (s *VoteService) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return err
	}
	s.log.Warn("all courses and votes deleted")
	return nil
}

func (s *VoteService) recordVote(course, status string) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordCounter(middleware.MetricVotesSubmitted, 1, map[string]string{
		"course": course,
		"status": status,
	})
}
