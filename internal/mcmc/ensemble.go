package mcmc

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/san-kum/mcsim/internal/rng"
)

// SourceFactory builds the random source for one chain of an ensemble.
type SourceFactory func(seed int64) (rng.Source, error)

// Ensemble runs independent chains of the same sampler. Chains share no
// mutable state: each gets its own source seeded with seedStart+i, its own
// trace and its own metrics.
type Ensemble struct {
	target     Target
	bounds     Range
	numChains  int
	seedStart  int64
	newSource  SourceFactory
	newMetrics func() []Metric
	maxWorkers int
}

func NewEnsemble(target Target, bounds Range, numChains int, seedStart int64, newSource SourceFactory) *Ensemble {
	return &Ensemble{
		target:     target,
		bounds:     bounds,
		numChains:  numChains,
		seedStart:  seedStart,
		newSource:  newSource,
		maxWorkers: 4,
	}
}

// WithMetrics sets a constructor for per-chain metrics.
func (e *Ensemble) WithMetrics(fn func() []Metric) *Ensemble {
	e.newMetrics = fn
	return e
}

func (e *Ensemble) WithMaxWorkers(n int) *Ensemble {
	if n > 0 {
		e.maxWorkers = n
	}
	return e
}

// Run executes all chains and returns their results in chain order. The
// first failing chain cancels the others.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	if e.numChains <= 0 {
		return nil, fmt.Errorf("mcmc: ensemble needs at least one chain, got %d", e.numChains)
	}

	results := make([]*Result, e.numChains)

	p := pool.New().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError().
		WithMaxGoroutines(e.maxWorkers)

	for i := 0; i < e.numChains; i++ {
		idx := i
		p.Go(func(ctx context.Context) error {
			seed := e.seedStart + int64(idx)
			src, err := e.newSource(seed)
			if err != nil {
				return fmt.Errorf("chain %d: %w", idx, err)
			}

			s := New(e.target, e.bounds)
			if e.newMetrics != nil {
				for _, m := range e.newMetrics() {
					s.AddMetric(m)
				}
			}

			res, err := s.Run(ctx, src, cfg)
			results[idx] = res
			if err != nil {
				return fmt.Errorf("chain %d (seed %d): %w", idx, seed, err)
			}
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
