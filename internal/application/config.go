// Package application orchestrates the allocation engine: it loads
// experiment configuration, runs trials through the harness, and serves the
// stored-course voting flow.
package application

import (
	"github.com/ahrav/go-allot/infrastructure/strategies"
	"github.com/ahrav/go-allot/internal/domain"
)

// TrialErrorPolicy decides what the harness does when a strategy fails a
// trial.
type TrialErrorPolicy string

const (
	// PolicyAbort stops the run and returns a *TrialError.
	PolicyAbort TrialErrorPolicy = "abort"

	// PolicySkip logs the failure, counts it against the strategy, and
	// leaves it out of that strategy's means.
	PolicySkip TrialErrorPolicy = "skip"
)

// Simulation defaults, used for any field an experiment file omits.
const (
	DefaultTrials = 1000
	DefaultAgents = 10
	DefaultTopics = 12
	DefaultSlots  = 15
	DefaultSeed   = 42
)

// ExperimentConfig defines one simulation run comparing allocation
// strategies over repeated independent trials.
type ExperimentConfig struct {
	// Version specifies the configuration schema version using semantic
	// versioning.
	Version string `yaml:"version" validate:"required,semver"`
	// Metadata names and describes the experiment.
	Metadata Metadata `yaml:"metadata" validate:"required"`
	// Sizing is the agent count and the size of each resource universe.
	// Both universes must be at least as large as the agent count.
	Sizing domain.Sizing `yaml:"sizing" validate:"required"`
	// Trials is the number of independent trials, N.
	Trials int `yaml:"trials" validate:"required,min=1,max=10000000"`
	// Seed fixes the run's random source. Two runs of the same
	// configuration with the same seed produce identical results.
	Seed uint64 `yaml:"seed"`
	// OnTrialError selects the failure policy. Defaults to abort.
	OnTrialError TrialErrorPolicy `yaml:"on_trial_error" validate:"required,oneof=abort skip"`
	// Strategies lists the allocators to compare, in report order.
	Strategies []StrategyConfig `yaml:"strategies" validate:"required,min=1,max=32,dive"`
}

// Metadata provides descriptive information about an experiment.
type Metadata struct {
	// Name identifies the experiment in logs, metrics, and reports.
	Name string `yaml:"name" validate:"required,min=1,max=255"`
	// Description is free text shown in reports.
	Description string `yaml:"description,omitempty" validate:"max=1000"`
	// Labels are arbitrary key-value pairs carried into log fields.
	Labels map[string]string `yaml:"labels,omitempty" validate:"max=50"`
}

// StrategyConfig defines one allocator within an experiment.
type StrategyConfig struct {
	// ID names the strategy in reports and must be unique in the experiment.
	ID string `yaml:"id" validate:"required,strategyid,max=100"`
	// Type selects the allocator implementation.
	Type string `yaml:"type" validate:"required,oneof=random top_first voting"`
	// Parameters holds type-specific settings, validated by the allocator
	// factory.
	Parameters map[string]any `yaml:"parameters,omitempty"`
}

// DefaultExperimentConfig returns the baseline simulation: ten agents, twelve
// topics, fifteen slots, a thousand trials, and all three strategies.
// Experiment files are decoded over this value, so omitted fields keep these
// defaults.
func DefaultExperimentConfig() ExperimentConfig {
	return ExperimentConfig{
		Version:  "1.0.0",
		Metadata: Metadata{Name: "baseline"},
		Sizing: domain.Sizing{
			Agents: DefaultAgents,
			Topics: DefaultTopics,
			Slots:  DefaultSlots,
		},
		Trials:       DefaultTrials,
		Seed:         DefaultSeed,
		OnTrialError: PolicyAbort,
		Strategies: []StrategyConfig{
			{ID: "random", Type: strategies.TypeRandom},
			{ID: "topfirst", Type: strategies.TypeTopFirst},
			{ID: "voting", Type: strategies.TypeVoting},
		},
	}
}

// Course definition bounds.
const (
	MinTotalVotes     = 50
	MaxTotalVotes     = 1000
	DefaultTotalVotes = 100
	MinGroups         = 3
	MaxGroups         = 100
)

// CourseSpec is the YAML description of a course to create.
type CourseSpec struct {
	// Name must be unique among stored courses.
	Name string `yaml:"name" validate:"required,min=1,max=255"`
	// TotalVotes is the number of votes each group distributes per
	// dimension.
	TotalVotes int `yaml:"total_votes" validate:"min=50,max=1000"`
	// Groups is the number of voting groups, numbered from 1.
	Groups int `yaml:"groups" validate:"min=3,max=100"`
	// Topics lists the presentation topics in index order.
	Topics []TopicSpec `yaml:"topics" validate:"required,min=1,dive"`
	// Slots lists the time slots in index order.
	Slots []SlotSpec `yaml:"slots" validate:"required,min=1,dive"`
}

// TopicSpec is one topic of a CourseSpec.
type TopicSpec struct {
	Name        string `yaml:"name" validate:"required,max=255"`
	Description string `yaml:"description,omitempty" validate:"max=1000"`
}

// SlotSpec is one time slot of a CourseSpec.
type SlotSpec struct {
	Begin string `yaml:"begin" validate:"required,max=64"`
	End   string `yaml:"end" validate:"required,max=64"`
}

// DefaultCourseSpec returns a CourseSpec with the default vote total.
func DefaultCourseSpec() CourseSpec {
	return CourseSpec{TotalVotes: DefaultTotalVotes}
}

// Course converts the spec into a domain course without storage ids.
func (cs CourseSpec) Course() domain.Course {
	course := domain.Course{
		Name:       cs.Name,
		TotalVotes: cs.TotalVotes,
		Groups:     cs.Groups,
		Topics:     make([]domain.Topic, len(cs.Topics)),
		Slots:      make([]domain.TimeSlot, len(cs.Slots)),
	}
	for i, t := range cs.Topics {
		course.Topics[i] = domain.Topic{Name: t.Name, Description: t.Description}
	}
	for i, s := range cs.Slots {
		course.Slots[i] = domain.TimeSlot{Begin: s.Begin, End: s.End}
	}
	return course
}
