package domain

// StrategySummary is the mean trial statistics of one strategy over a run.
type StrategySummary struct {
	Strategy string  `json:"strategy"`
	Fairness float64 `json:"fairness"`
	Welfare  float64 `json:"welfare"`
	Trials   int     `json:"trials"`
	Failures int     `json:"failures"`
}

// Accumulator keeps a running sum of trial statistics per strategy, in the
// order strategies are first seen. It is not safe for concurrent use.
type Accumulator struct {
	order []string
	sums  map[string]*StrategySummary
}

// NewAccumulator returns an empty accumulator. Strategies listed up front
// keep that order in Mean even if they never record a trial.
func NewAccumulator(strategies ...string) *Accumulator {
	acc := &Accumulator{sums: make(map[string]*StrategySummary)}
	for _, s := range strategies {
		acc.entry(s)
	}
	return acc
}

func (a *Accumulator) entry(strategy string) *StrategySummary {
	e, ok := a.sums[strategy]
	if !ok {
		e = &StrategySummary{Strategy: strategy}
		a.sums[strategy] = e
		a.order = append(a.order, strategy)
	}
	return e
}

// Add records one trial's statistics for strategy.
func (a *Accumulator) Add(strategy string, stats TrialStatistics) {
	e := a.entry(strategy)
	e.Fairness += stats.Fairness
	e.Welfare += stats.Welfare
	e.Trials++
}

// Fail records a skipped trial for strategy.
func (a *Accumulator) Fail(strategy string) { a.entry(strategy).Failures++ }

// Mean divides each strategy's sums by its number of recorded trials.
// Strategies with no recorded trials report zero means.
func (a *Accumulator) Mean() []StrategySummary {
	out := make([]StrategySummary, 0, len(a.order))
	for _, s := range a.order {
		e := *a.sums[s]
		if e.Trials > 0 {
			e.Fairness /= float64(e.Trials)
			e.Welfare /= float64(e.Trials)
		}
		out = append(out, e)
	}
	return out
}
