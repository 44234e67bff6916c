package mcmc

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/mcsim/internal/rng"
)

type Sampler struct {
	target    Target
	bounds    Range
	metrics   []Metric
	observers []Observer
}

func New(target Target, bounds Range) *Sampler {
	return &Sampler{
		target:    target,
		bounds:    bounds,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Sampler) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Sampler) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Sampler) Bounds() Range { return s.bounds }

// Run draws an initial state and takes cfg.Steps Metropolis steps, recording
// every state. If the target fails, or ctx is done, the partial result is
// returned together with the error.
func (s *Sampler) Run(ctx context.Context, src rng.Source, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	chain, err := NewChain(s.target, s.bounds, NewGaussianProposal(cfg.StepSize), src)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Trace:    make([]State, 0, cfg.Steps+1),
		Accepted: make([]bool, 0, cfg.Steps),
		Metrics:  make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result.Trace = append(result.Trace, chain.Current())

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result)
			return result, ctx.Err()
		default:
		}

		x, ok, err := chain.Step()
		if err != nil {
			s.finish(result)
			return result, err
		}

		result.Trace = append(result.Trace, x)
		result.Accepted = append(result.Accepted, ok)
		result.Steps++
		if ok {
			result.Accepts++
		}

		for _, m := range s.metrics {
			m.Observe(result.Steps, x, ok)
		}
		for _, obs := range s.observers {
			obs.OnStep(result.Steps, x, ok)
		}
	}

	s.finish(result)
	return result, nil
}

func (s *Sampler) finish(result *Result) {
	if result.Steps > 0 {
		result.AcceptanceRatio = float64(result.Accepts) / float64(result.Steps)
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Sampler) validateConfig(cfg Config) error {
	if cfg.Steps < 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidSteps, cfg.Steps)
	}
	if !(cfg.StepSize > 0) || math.IsInf(cfg.StepSize, 0) {
		return fmt.Errorf("%w, got %g", ErrInvalidStepSize, cfg.StepSize)
	}
	if cfg.Dim != 0 && cfg.Dim != len(s.bounds) {
		return fmt.Errorf("%w: config dim %d, bounds dim %d", ErrDimensionMismatch, cfg.Dim, len(s.bounds))
	}
	return s.bounds.Validate()
}
