package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/mcsim/internal/config"
	"github.com/san-kum/mcsim/internal/mcmc"
	"github.com/san-kum/mcsim/internal/rng"
)

type Experiment struct {
	cfg     *config.Config
	target  mcmc.Target
	sampler *mcmc.Sampler
	metrics func() []mcmc.Metric
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup resolves the target and attaches metrics built by newMetrics. The
// constructor is called once for a single run and once per chain for an
// ensemble.
func (e *Experiment) Setup(reg *Registry, newMetrics func() []mcmc.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	tgt, err := reg.GetTarget(e.cfg)
	if err != nil {
		return err
	}

	e.target = tgt
	e.metrics = newMetrics
	e.sampler = mcmc.New(tgt, e.cfg.Bounds())
	if newMetrics != nil {
		for _, m := range newMetrics() {
			e.sampler.AddMetric(m)
		}
	}
	return nil
}

// Run samples one chain seeded with cfg.Seed.
func (e *Experiment) Run(ctx context.Context) (*mcmc.Result, error) {
	if e.sampler == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	src, err := rng.New(e.cfg.Source, e.cfg.Seed)
	if err != nil {
		return nil, err
	}
	return e.sampler.Run(ctx, src, e.cfg.Sampler())
}

// RunEnsemble samples cfg.Chains independent chains seeded cfg.Seed,
// cfg.Seed+1 and so on.
func (e *Experiment) RunEnsemble(ctx context.Context, workers int) ([]*mcmc.Result, error) {
	if e.sampler == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	kind := e.cfg.Source
	ens := mcmc.NewEnsemble(e.target, e.cfg.Bounds(), e.cfg.Chains, e.cfg.Seed,
		func(seed int64) (rng.Source, error) { return rng.New(kind, seed) }).
		WithMaxWorkers(workers)
	if e.metrics != nil {
		ens = ens.WithMetrics(e.metrics)
	}
	return ens.Run(ctx, e.cfg.Sampler())
}

// Chain returns a step-at-a-time chain for interactive use.
func (e *Experiment) Chain() (*mcmc.Chain, error) {
	if e.target == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	src, err := rng.New(e.cfg.Source, e.cfg.Seed)
	if err != nil {
		return nil, err
	}
	return mcmc.NewChain(e.target, e.cfg.Bounds(), mcmc.NewGaussianProposal(e.cfg.StepSize), src)
}

// GetSampler returns the underlying sampler for adding observers.
func (e *Experiment) GetSampler() *mcmc.Sampler {
	return e.sampler
}

func (e *Experiment) Config() *config.Config {
	return e.cfg
}
