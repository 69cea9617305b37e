package application

import (
	"context"
	"fmt"
	"slices"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/ahrav/go-allot/infrastructure/middleware"
	"github.com/ahrav/go-allot/infrastructure/strategies"
	"github.com/ahrav/go-allot/internal/domain"
	"github.com/ahrav/go-allot/internal/ports"
)

// Placement is one group's topic and time slot.
type Placement struct {
	Group int             `json:"group"`
	Topic domain.Topic    `json:"topic"`
	Slot  domain.TimeSlot `json:"slot"`
}

// String renders the placement as "Group X: topic at slot".
func (p Placement) String() string {
	return fmt.Sprintf("Group %d: %s at %s", p.Group, p.Topic.Label(), p.Slot.Label())
}

// CourseResults is the voting outcome of a stored course.
type CourseResults struct {
	Course domain.Course `json:"course"`
	// Voted counts groups that have cast any votes.
	Voted      int         `json:"voted"`
	Placements []Placement `json:"placements"`
}

// ResultsService assigns topics and slots for stored courses by running the
// voting allocator over the groups' normalised votes.
type ResultsService struct {
	store   ports.VoteStore
	metrics ports.MetricsCollector
	log     *log.Entry
}

// NewResultsService creates a results service over store. metrics and
// logger may be nil.
func NewResultsService(store ports.VoteStore, metrics ports.MetricsCollector, logger *log.Entry) *ResultsService {
	return &ResultsService{store: store, metrics: metrics, log: entryOrDefault(logger)}
}

// Compute loads the course's tally, normalises each group's votes (groups
// that have not voted contribute nothing), and runs shortlisting and greedy
// matching. It refuses to return placements if any group is left without a
// topic or slot.
func (s *ResultsService) Compute(ctx context.Context, courseName string) (_ *CourseResults, err error) {
	_, span := otel.Tracer(middleware.TracerName).Start(ctx, "Results.Compute")
	span.SetAttributes(attribute.String("course", courseName))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "results computed")
		}
		span.End()
	}()

	tally, err := s.store.Tally(ctx, courseName)
	if err != nil {
		return nil, err
	}
	sizing := tally.Course.Sizing()

	var allocator ports.Allocator
	allocator, err = strategies.NewVotingAllocator(courseName, strategies.FixedBallots{Votes: tally.Ballots()})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		allocator = middleware.NewInstrumentedAllocator(allocator, s.metrics, "results")
	}

	// Stored ballots are fixed, so no random source is needed.
	assignment, err := allocator.Allocate(sizing, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("course %s: %w", courseName, err)
	}
	if unassigned := assignment.FirstUnassigned(); unassigned != nil {
		return nil, fmt.Errorf("course %s: %w", courseName, unassigned)
	}

	results := &CourseResults{Course: tally.Course, Placements: make([]Placement, len(assignment))}
	for agent, alloc := range assignment {
		results.Placements[agent] = Placement{
			Group: agent + 1,
			Topic: tally.Course.Topics[alloc.Topic],
			Slot:  tally.Course.Slots[alloc.Slot],
		}
	}
	for _, gv := range tally.Votes {
		if slices.ContainsFunc(gv.Topics, nonZero) || slices.ContainsFunc(gv.Slots, nonZero) {
			results.Voted++
		}
	}

	span.SetAttributes(
		attribute.Int("groups", sizing.Agents),
		attribute.Int("groups.voted", results.Voted),
	)
	s.log.WithFields(log.Fields{
		"course": courseName,
		"groups": sizing.Agents,
		"voted":  results.Voted,
	}).Info("computed course results")
	return results, nil
}

func nonZero(v int) bool { return v != 0 }
