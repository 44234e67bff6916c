package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/mcsim/internal/config"
	"github.com/san-kum/mcsim/internal/diag"
	"github.com/san-kum/mcsim/internal/experiment"
	"github.com/san-kum/mcsim/internal/mcmc"
)

var ErrEmptySweep = errors.New("automation: sweep needs at least one point")

// Scenario is a scripted sequence of sampler runs.
type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Runs        []ScenarioRun `yaml:"runs"`
}

// ScenarioRun starts from the defaults or a preset of Target and overlays
// Overrides, which uses the same keys as a config file.
type ScenarioRun struct {
	Name      string    `yaml:"name"`
	Target    string    `yaml:"target"`
	Preset    string    `yaml:"preset"`
	Overrides yaml.Node `yaml:"config"`
}

type Outcome struct {
	Name   string
	Config *config.Config
	Result *mcmc.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

// Config resolves the run configuration.
func (r *ScenarioRun) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if r.Target != "" {
		cfg.Target = r.Target
	}
	if r.Preset != "" {
		p := config.GetPreset(cfg.Target, r.Preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %s/%s", cfg.Target, r.Preset)
		}
		cfg = p
	}
	if r.Overrides.Kind != 0 {
		if err := r.Overrides.Decode(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.Params == nil {
		cfg.Params = map[string]float64{}
	}
	return cfg, nil
}

// RunScenario executes the runs in order. progress, if set, is called before
// each run. Outcomes of completed runs are returned even on error.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, newMetrics func() []mcmc.Metric, progress func(i, n int, name string)) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(scenario.Runs))

	for i := range scenario.Runs {
		run := &scenario.Runs[i]
		name := run.Name
		if name == "" {
			name = fmt.Sprintf("run-%d", i+1)
		}
		if progress != nil {
			progress(i+1, len(scenario.Runs), name)
		}

		cfg, err := run.Config()
		if err != nil {
			return outcomes, fmt.Errorf("%s: %w", name, err)
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(registry, newMetrics); err != nil {
			return outcomes, fmt.Errorf("%s setup: %w", name, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return outcomes, fmt.Errorf("%s run: %w", name, err)
		}

		outcomes = append(outcomes, Outcome{Name: name, Config: cfg, Result: result})
	}

	return outcomes, nil
}

// Sweep samples the same target across evenly spaced values of one knob.
// Param is "step_size" or the name of a target parameter.
type Sweep struct {
	Base   *config.Config
	Param  string
	Min    float64
	Max    float64
	Points int
}

type SweepResult struct {
	Value           float64
	AcceptanceRatio float64
	Mean            float64
	AutoCorr        float64
}

func (s *Sweep) Values() []float64 {
	if s.Points == 1 {
		return []float64{s.Min}
	}
	vals := make([]float64, s.Points)
	step := (s.Max - s.Min) / float64(s.Points-1)
	for i := range vals {
		vals[i] = s.Min + float64(i)*step
	}
	return vals
}

// RunSweep runs one chain per value. Mean and AutoCorr describe x0 after
// the base burn-in and thinning, and are NaN when the burn-in leaves no
// samples.
func RunSweep(ctx context.Context, sweep *Sweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.Points < 1 {
		return nil, ErrEmptySweep
	}

	results := make([]SweepResult, 0, sweep.Points)
	for _, val := range sweep.Values() {
		cfg := sweep.Base.Clone()
		if sweep.Param == "step_size" {
			cfg.StepSize = val
		} else {
			cfg.Params[sweep.Param] = val
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(registry, nil); err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.Param, val, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.Param, val, err)
		}

		sr := SweepResult{Value: val, AcceptanceRatio: result.AcceptanceRatio, Mean: math.NaN(), AutoCorr: math.NaN()}
		if cfg.BurnIn < len(result.Trace) {
			kept, err := diag.Prepare(result.Trace, cfg.BurnIn, cfg.Thin)
			if err != nil {
				return results, err
			}
			sr.Mean = diag.Mean(kept)[0]
			sr.AutoCorr = diag.AutocorrelationLength(diag.Column(kept, 0))
		}
		results = append(results, sr)
	}

	return results, nil
}

// Best returns the result with the shortest autocorrelation length.
func Best(results []SweepResult) (SweepResult, bool) {
	best, found := SweepResult{}, false
	for _, r := range results {
		if math.IsNaN(r.AutoCorr) {
			continue
		}
		if !found || r.AutoCorr < best.AutoCorr {
			best, found = r, true
		}
	}
	return best, found
}
