package application

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-allot/internal/domain"
)

func TestDefaultExperimentConfig(t *testing.T) {
	cfg := DefaultExperimentConfig()

	assert.Equal(t, domain.Sizing{Agents: 10, Topics: 12, Slots: 15}, cfg.Sizing)
	assert.Equal(t, 1000, cfg.Trials)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, PolicyAbort, cfg.OnTrialError)
	require.Len(t, cfg.Strategies, 3)

	v, err := newValidator()
	require.NoError(t, err)
	assert.NoError(t, v.Struct(cfg), "defaults must validate")
}

func TestExperimentConfig_Validation(t *testing.T) {
	v, err := newValidator()
	require.NoError(t, err)

	tests := []struct {
		name    string
		mutate  func(c *ExperimentConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(*ExperimentConfig) {}},
		{
			name:    "bad semver",
			mutate:  func(c *ExperimentConfig) { c.Version = "1.0" },
			wantErr: "semver",
		},
		{
			name:    "semver with suffix",
			mutate:  func(c *ExperimentConfig) { c.Version = "1.0.0-beta" },
			wantErr: "semver",
		},
		{
			name:    "too few topics",
			mutate:  func(c *ExperimentConfig) { c.Sizing.Topics = 9 },
			wantErr: "gtefield_agents",
		},
		{
			name:    "too few slots",
			mutate:  func(c *ExperimentConfig) { c.Sizing.Slots = 1 },
			wantErr: "gtefield_agents",
		},
		{
			name:    "zero agents",
			mutate:  func(c *ExperimentConfig) { c.Sizing.Agents = 0 },
			wantErr: "required",
		},
		{
			name:    "zero trials",
			mutate:  func(c *ExperimentConfig) { c.Trials = 0 },
			wantErr: "required",
		},
		{
			name:    "unknown policy",
			mutate:  func(c *ExperimentConfig) { c.OnTrialError = "retry" },
			wantErr: "oneof",
		},
		{
			name:    "unknown strategy type",
			mutate:  func(c *ExperimentConfig) { c.Strategies[0].Type = "optimal" },
			wantErr: "oneof",
		},
		{
			name:    "bad strategy id",
			mutate:  func(c *ExperimentConfig) { c.Strategies[0].ID = "has space" },
			wantErr: "strategyid",
		},
		{
			name:    "duplicate strategy id",
			mutate:  func(c *ExperimentConfig) { c.Strategies[1].ID = c.Strategies[0].ID },
			wantErr: "unique",
		},
		{
			name:    "no strategies",
			mutate:  func(c *ExperimentConfig) { c.Strategies = nil },
			wantErr: "required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultExperimentConfig()
			tt.mutate(&cfg)
			err := v.Struct(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseCourseSpec(t *testing.T) {
	t.Run("defaults total votes", func(t *testing.T) {
		spec, err := ParseCourseSpec(strings.NewReader(`
name: distributed systems
groups: 3
topics:
  - {name: Raft, description: consensus}
  - {name: CRDTs}
  - {name: Gossip}
slots:
  - {begin: "09:00", end: "09:30"}
  - {begin: "09:30", end: "10:00"}
  - {begin: "10:00", end: "10:30"}
`))
		require.NoError(t, err)
		assert.Equal(t, DefaultTotalVotes, spec.TotalVotes)

		course := spec.Course()
		assert.Equal(t, "distributed systems", course.Name)
		assert.Equal(t, domain.Sizing{Agents: 3, Topics: 3, Slots: 3}, course.Sizing())
		assert.Equal(t, "Raft (consensus)", course.Topics[0].Label())
		assert.Equal(t, "09:30~10:00", course.Slots[1].Label())
	})

	tests := []struct {
		name string
		yaml string
	}{
		{"too few groups", "name: c\ngroups: 2\ntopics: [{name: a}, {name: b}]\nslots: [{begin: a, end: b}, {begin: c, end: d}]\n"},
		{"fewer topics than groups", "name: c\ngroups: 3\ntopics: [{name: a}]\nslots: [{begin: a, end: b}, {begin: c, end: d}, {begin: e, end: f}]\n"},
		{"vote total too small", "name: c\ntotal_votes: 10\ngroups: 3\ntopics: [{name: a}, {name: b}, {name: c}]\nslots: [{begin: a, end: b}, {begin: c, end: d}, {begin: e, end: f}]\n"},
		{"missing name", "groups: 3\ntopics: [{name: a}, {name: b}, {name: c}]\nslots: [{begin: a, end: b}, {begin: c, end: d}, {begin: e, end: f}]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCourseSpec(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidConfiguration), "got %v", err)
		})
	}

	t.Run("unknown field", func(t *testing.T) {
		_, err := ParseCourseSpec(strings.NewReader("name: c\ncapacity: 4\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "capacity")
	})
}

func TestInitLog(t *testing.T) {
	assert.NoError(t, InitLog(LogConfig{Level: "debug", Format: "json"}))
	assert.NoError(t, InitLog(LogConfig{}))
	assert.Error(t, InitLog(LogConfig{Level: "loud", Format: "text"}))
	assert.Error(t, InitLog(LogConfig{Level: "info", Format: "xml"}))
	require.NoError(t, InitLog(LogConfig{Level: "info", Format: "text"}))
}
