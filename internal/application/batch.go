package application

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// RunAll runs independent experiments concurrently, at most maxConcurrency
// at a time (GOMAXPROCS when non-positive). Each experiment stays
// single-threaded with its own seeded source, so results match running them
// one by one. Results are returned in input order. The first failure cancels
// the remaining runs.
func (h *Harness) RunAll(ctx context.Context, experiments []*Experiment, maxConcurrency int) ([]*ExperimentResult, error) {
	if maxConcurrency <= 0 {
		maxConcurrency = runtime.GOMAXPROCS(0)
	}

	results := make([]*ExperimentResult, len(experiments))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrency)

	for i, exp := range experiments {
		g.Go(func() error {
			result, err := h.Run(gctx, exp)
			if err != nil {
				name := "<nil>"
				if exp != nil {
					name = exp.Name()
				}
				return fmt.Errorf("experiment %s: %w", name, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
