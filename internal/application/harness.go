package application

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ahrav/go-allot/infrastructure/middleware"
	"github.com/ahrav/go-allot/internal/domain"
	"github.com/ahrav/go-allot/internal/ports"
)

// Experiment is a compiled, runnable experiment. Experiments returned by the
// loader are shared through its cache and must not be mutated.
type Experiment struct {
	// Config is the validated configuration the experiment was built from.
	Config ExperimentConfig
	// Allocators are built from Config.Strategies, in the same order.
	Allocators []ports.Allocator
	// Hash is the configuration's cache key.
	Hash string
}

// Name returns the experiment's metadata name.
func (e *Experiment) Name() string { return e.Config.Metadata.Name }

// ExperimentResult holds the per-strategy means of a completed run.
type ExperimentResult struct {
	Experiment  string                   `json:"experiment"`
	Description string                   `json:"description,omitempty"`
	Sizing      domain.Sizing            `json:"sizing"`
	Trials      int                      `json:"trials"`
	Seed        uint64                   `json:"seed"`
	Summaries   []domain.StrategySummary `json:"summaries"`
	Duration    time.Duration            `json:"duration"`
}

// TrialError reports the trial and strategy that failed an aborted run.
type TrialError struct {
	Trial    int
	Strategy string
	Err      error
}

// Error implements the error interface for TrialError.
func (e *TrialError) Error() string {
	return fmt.Sprintf("trial error: trial=%d, strategy=%s, err=%v", e.Trial, e.Strategy, e.Err)
}

// Unwrap returns the underlying error.
func (e *TrialError) Unwrap() error { return e.Err }

// NewTrialError creates a new TrialError with the given details.
func NewTrialError(trial int, strategy string, err error) *TrialError {
	return &TrialError{Trial: trial, Strategy: strategy, Err: err}
}

// NewRand returns the run's random source for seed. Every run of the same
// seed draws the same sequence.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Harness drives experiments: for each trial it generates a preference
// profile, lets every strategy allocate against it, and accumulates the
// resulting fairness and welfare. A run is single-threaded and draws all of
// its randomness from one source seeded by the configuration.
type Harness struct {
	metrics ports.MetricsCollector
	log     *log.Entry
}

// HarnessOption configures a Harness.
type HarnessOption func(*Harness)

// WithMetrics records trial and allocator metrics to m.
func WithMetrics(m ports.MetricsCollector) HarnessOption {
	return func(h *Harness) { h.metrics = m }
}

// WithLogger sets the log entry runs derive their fields from.
func WithLogger(e *log.Entry) HarnessOption {
	return func(h *Harness) { h.log = e }
}

// NewHarness creates a harness. Without options it logs to the standard
// logger and records no metrics.
func NewHarness(opts ...HarnessOption) *Harness {
	h := &Harness{}
	for _, opt := range opts {
		opt(h)
	}
	h.log = entryOrDefault(h.log)
	return h
}

// Run executes every trial of exp. Cancellation is checked between trials.
// Under PolicyAbort the first failure ends the run with a *TrialError;
// under PolicySkip failures are logged, counted, and excluded from means.
func (h *Harness) Run(ctx context.Context, exp *Experiment) (*ExperimentResult, error) {
	if exp == nil || len(exp.Allocators) == 0 {
		return nil, errors.New("experiment has no allocators")
	}
	cfg := exp.Config
	if err := cfg.Sizing.Validate(); err != nil {
		return nil, err
	}

	names := make([]string, len(exp.Allocators))
	allocators := make([]ports.Allocator, len(exp.Allocators))
	for i, a := range exp.Allocators {
		names[i] = a.Name()
		allocators[i] = a
		if h.metrics != nil {
			allocators[i] = middleware.NewInstrumentedAllocator(a, h.metrics, exp.Name())
		}
	}

	observer := middleware.NewOTelRunObserver(h.metrics, middleware.RunInfo{
		Experiment: exp.Name(),
		Sizing:     cfg.Sizing,
		Trials:     cfg.Trials,
		Seed:       cfg.Seed,
		Policy:     string(cfg.OnTrialError),
		Strategies: names,
	})
	ctx = observer.Start(ctx)

	logger := h.log.WithFields(log.Fields{
		"experiment": exp.Name(),
		"trials":     cfg.Trials,
		"seed":       cfg.Seed,
	})
	for k, v := range cfg.Metadata.Labels {
		logger = logger.WithField("label."+k, v)
	}
	logger.Info("starting experiment")

	start := time.Now()
	acc := domain.NewAccumulator(names...)
	rng := NewRand(cfg.Seed)

	for trial := 0; trial < cfg.Trials; trial++ {
		if err := ctx.Err(); err != nil {
			observer.Finish(nil, err)
			return nil, err
		}

		profile := domain.GenerateProfile(cfg.Sizing, rng)
		for _, allocator := range allocators {
			stats, err := h.runTrial(allocator, cfg.Sizing, profile, rng)
			labels := map[string]string{"experiment": exp.Name(), "strategy": allocator.Name()}

			if err != nil {
				h.recordTrial(labels, "failed")
				if cfg.OnTrialError != PolicySkip {
					terr := NewTrialError(trial, allocator.Name(), err)
					observer.Finish(nil, terr)
					logger.WithError(terr).Error("experiment aborted")
					return nil, terr
				}
				acc.Fail(allocator.Name())
				observer.TrialSkipped(trial, allocator.Name(), err)
				logger.WithFields(log.Fields{
					"trial":    trial,
					"strategy": allocator.Name(),
				}).WithError(err).Warn("skipping failed trial")
				continue
			}

			acc.Add(allocator.Name(), stats)
			h.recordTrial(labels, "success")
			if h.metrics != nil {
				h.metrics.RecordHistogram(middleware.MetricFairness, stats.Fairness, labels)
				h.metrics.RecordHistogram(middleware.MetricWelfare, stats.Welfare, labels)
			}
		}
	}

	result := &ExperimentResult{
		Experiment:  exp.Name(),
		Description: cfg.Metadata.Description,
		Sizing:      cfg.Sizing,
		Trials:      cfg.Trials,
		Seed:        cfg.Seed,
		Summaries:   acc.Mean(),
		Duration:    time.Since(start),
	}
	observer.Finish(result.Summaries, nil)

	for _, s := range result.Summaries {
		logger.WithFields(log.Fields{
			"strategy": s.Strategy,
			"fairness": s.Fairness,
			"welfare":  s.Welfare,
			"failures": s.Failures,
		}).Debug("strategy summary")
	}
	logger.WithField("duration", result.Duration).Info("experiment finished")
	return result, nil
}

// runTrial allocates, evaluates, and scores one strategy on one profile.
func (h *Harness) runTrial(
	allocator ports.Allocator,
	sizing domain.Sizing,
	profile domain.Profile,
	rng *rand.Rand,
) (domain.TrialStatistics, error) {
	assignment, err := allocator.Allocate(sizing, profile, rng)
	if err != nil {
		return domain.TrialStatistics{}, err
	}
	utilities, err := domain.Evaluate(assignment, profile)
	if err != nil {
		return domain.TrialStatistics{}, err
	}
	return domain.Score(utilities), nil
}

func (h *Harness) recordTrial(labels map[string]string, status string) {
	if h.metrics == nil {
		return
	}
	withStatus := map[string]string{"status": status}
	for k, v := range labels {
		withStatus[k] = v
	}
	h.metrics.RecordCounter(middleware.MetricTrials, 1, withStatus)
}
