package application

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/ahrav/go-allot/internal/domain"
	"github.com/ahrav/go-allot/internal/ports"
)

func TestResultsService_Compute(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*VoteService, *ResultsService, *mockMetrics) {
		t.Helper()
		store := newMemStore()
		metrics := newMockMetrics()
		votes := NewVoteService(store, nil, quietLogger())
		_, err := votes.Create(ctx, threeByThree("os"))
		require.NoError(t, err)
		return votes, NewResultsService(store, metrics, quietLogger()), metrics
	}

	t.Run("each group gets its top choices", func(t *testing.T) {
		votes, results, metrics := setup(t)
		require.NoError(t, votes.Submit(ctx, "os", 1, domain.GroupVotes{Topics: []int{100, 0, 0}, Slots: []int{0, 0, 100}}))
		require.NoError(t, votes.Submit(ctx, "os", 2, domain.GroupVotes{Topics: []int{0, 100, 0}, Slots: []int{0, 100, 0}}))
		require.NoError(t, votes.Submit(ctx, "os", 3, domain.GroupVotes{Topics: []int{0, 0, 100}, Slots: []int{100, 0, 0}}))

		res, err := results.Compute(ctx, "os")
		require.NoError(t, err)
		assert.Equal(t, 3, res.Voted)

		lines := make([]string, len(res.Placements))
		for i, p := range res.Placements {
			lines[i] = p.String()
		}
		assert.Equal(t, []string{
			"Group 1: Raft (consensus) at 10:00~10:30",
			"Group 2: CRDTs at 09:30~10:00",
			"Group 3: Bloom filters at 09:00~09:30",
		}, lines)
		assert.Equal(t, 1, metrics.latencies["allocate"])
	})

	t.Run("heavier votes win contested topics", func(t *testing.T) {
		votes, results, _ := setup(t)
		require.NoError(t, votes.Submit(ctx, "os", 1, domain.GroupVotes{Topics: []int{70, 30, 0}, Slots: []int{100, 0, 0}}))
		require.NoError(t, votes.Submit(ctx, "os", 2, domain.GroupVotes{Topics: []int{90, 10, 0}, Slots: []int{100, 0, 0}}))

		res, err := results.Compute(ctx, "os")
		require.NoError(t, err)
		assert.Equal(t, 2, res.Voted)

		// Topic 0 goes to group 2, which weighted it higher.
		assert.Equal(t, "Raft", res.Placements[1].Topic.Name)
		assert.Equal(t, "CRDTs", res.Placements[0].Topic.Name)
		// Slot 0 is tied between groups 1 and 2; the higher group wins it.
		assert.Equal(t, "09:00", res.Placements[1].Slot.Begin)
	})

	t.Run("no votes still places every group", func(t *testing.T) {
		_, results, _ := setup(t)
		res, err := results.Compute(ctx, "os")
		require.NoError(t, err)
		assert.Zero(t, res.Voted)

		seenTopics := map[string]bool{}
		for _, p := range res.Placements {
			seenTopics[p.Topic.Name] = true
		}
		assert.Len(t, seenTopics, 3)
		// All weights tie, so the highest group takes the first resource.
		assert.Equal(t, "Raft", res.Placements[2].Topic.Name)
		assert.Equal(t, "Bloom filters", res.Placements[0].Topic.Name)
	})

	t.Run("unknown course", func(t *testing.T) {
		_, results, _ := setup(t)
		_, err := results.Compute(ctx, "nope")
		assert.True(t, errors.Is(err, ports.ErrCourseNotFound))
	})

	t.Run("too few topics for the groups", func(t *testing.T) {
		store := newMemStore()
		_, err := store.CreateCourse(ctx, domain.Course{
			Name: "tiny", TotalVotes: 100, Groups: 3,
			Topics: []domain.Topic{{Name: "a"}, {Name: "b"}},
			Slots:  []domain.TimeSlot{{Begin: "1", End: "2"}, {Begin: "2", End: "3"}, {Begin: "3", End: "4"}},
		})
		require.NoError(t, err)

		_, err = NewResultsService(store, nil, quietLogger()).Compute(ctx, "tiny")
		assert.True(t, errors.Is(err, domain.ErrInsufficientResources))
	})
}

func TestReporter(t *testing.T) {
	r := NewReporter(language.English)

	t.Run("summary", func(t *testing.T) {
		var buf bytes.Buffer
		err := r.Summary(&buf, &ExperimentResult{
			Experiment:  "baseline",
			Description: "three strategies",
			Sizing:      domain.Sizing{Agents: 10, Topics: 12, Slots: 15},
			Trials:      1000,
			Seed:        42,
			Summaries: []domain.StrategySummary{
				{Strategy: "random", Fairness: 1234.5, Welfare: 987.25, Trials: 1000},
				{Strategy: "voting", Fairness: 12.125, Welfare: 1500, Trials: 998, Failures: 2},
			},
		})
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "Experiment baseline: 10 agents, 12 topics, 15 slots, 1,000 trials")
		assert.Contains(t, out, "three strategies")
		assert.Contains(t, out, "random")
		assert.Contains(t, out, "1,234.500")
		assert.Contains(t, out, "1,500.000")
		assert.Contains(t, out, "998")
	})

	results := &CourseResults{
		Course: domain.Course{Name: "os", Groups: 2},
		Voted:  1,
		Placements: []Placement{
			{Group: 1, Topic: domain.Topic{Name: "Raft", Description: "consensus"}, Slot: domain.TimeSlot{Begin: "09:00", End: "09:30"}},
			{Group: 2, Topic: domain.Topic{Name: "CRDTs"}, Slot: domain.TimeSlot{Begin: "09:30", End: "10:00"}},
		},
	}

	t.Run("placements", func(t *testing.T) {
		var buf bytes.Buffer
		r.Placements(&buf, results)
		assert.Equal(t, "Course os: 1 of 2 groups voted\n"+
			"Group 1: Raft (consensus) at 09:00~09:30\n"+
			"Group 2: CRDTs at 09:30~10:00\n", buf.String())
	})

	t.Run("placement table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, r.PlacementTable(&buf, results))
		assert.Contains(t, buf.String(), "Raft (consensus)")
		assert.Contains(t, buf.String(), "09:30~10:00")
	})

	t.Run("courses", func(t *testing.T) {
		var buf bytes.Buffer
		r.Courses(&buf, nil)
		assert.Equal(t, "no courses\n", buf.String())

		buf.Reset()
		r.Courses(&buf, []string{"os", "db"})
		assert.Equal(t, "os\ndb\n", buf.String())
	})
}
