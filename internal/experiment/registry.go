package experiment

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/mcsim/internal/config"
	"github.com/san-kum/mcsim/internal/mcmc"
	"github.com/san-kum/mcsim/internal/metrics"
	"github.com/san-kum/mcsim/internal/target"
)

var ErrUnknownTarget = errors.New("experiment: unknown target")

// TargetFactory builds a density from a run configuration.
type TargetFactory func(cfg *config.Config) (mcmc.Target, error)

type Registry struct {
	targets map[string]TargetFactory
}

func NewRegistry() *Registry {
	r := &Registry{
		targets: make(map[string]TargetFactory),
	}

	r.targets["gaussian"] = func(cfg *config.Config) (mcmc.Target, error) {
		g, err := target.NewIsotropic(cfg.Dim, cfg.Param("mu", 0), cfg.Param("sigma", 1), cfg.Param("rho", 0))
		if err != nil {
			return nil, err
		}
		return g, nil
	}
	r.targets["bimodal"] = func(cfg *config.Config) (mcmc.Target, error) {
		m, err := target.NewBimodal(cfg.Dim, cfg.Param("separation", 6), cfg.Param("sigma", 1))
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	r.targets["flat"] = func(cfg *config.Config) (mcmc.Target, error) {
		return target.Flat{Value: cfg.Param("value", 1)}, nil
	}
	r.targets["linear"] = func(cfg *config.Config) (mcmc.Target, error) {
		if cfg.Dim != 2 {
			return nil, fmt.Errorf("%w: linear model samples [slope, intercept], dim %d", target.ErrDimension, cfg.Dim)
		}
		rows, err := observations(cfg)
		if err != nil {
			return nil, err
		}
		obs, err := target.Pairs(rows)
		if err != nil {
			return nil, err
		}
		m, err := target.NewLinearModel(obs, cfg.Param("noise", 1))
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	r.targets["normal-model"] = func(cfg *config.Config) (mcmc.Target, error) {
		if cfg.Dim != 2 {
			return nil, fmt.Errorf("%w: normal model samples [mu, sigma], dim %d", target.ErrDimension, cfg.Dim)
		}
		rows, err := observations(cfg)
		if err != nil {
			return nil, err
		}
		m, err := target.NewNormalModel(target.Samples(rows))
		if err != nil {
			return nil, err
		}
		return m, nil
	}

	return r
}

// observations prefers the data file over inline rows.
func observations(cfg *config.Config) ([][]float64, error) {
	if cfg.DataFile != "" {
		rows, err := target.LoadObservations(cfg.DataFile)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", cfg.DataFile, err)
		}
		return rows, nil
	}
	if len(cfg.Observations) == 0 {
		return nil, target.ErrNoData
	}
	return cfg.Observations, nil
}

func (r *Registry) Register(name string, fn TargetFactory) {
	r.targets[name] = fn
}

func (r *Registry) GetTarget(cfg *config.Config) (mcmc.Target, error) {
	fn, ok := r.targets[cfg.Target]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTarget, cfg.Target)
	}
	return fn(cfg)
}

func (r *Registry) ListTargets() []string {
	names := make([]string, 0, len(r.targets))
	for name := range r.targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics() []mcmc.Metric {
	return metrics.Defaults()
}
