package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/mcsim/internal/mcmc"
	"github.com/san-kum/mcsim/internal/rng"
)

const (
	DefaultTarget   = "gaussian"
	DefaultDim      = 1
	DefaultSteps    = 20000
	DefaultStepSize = 1.0
	DefaultSeed     = 42
	DefaultSource   = "pcg"
	DefaultLow      = -10.0
	DefaultHigh     = 10.0
	DefaultBurnIn   = 1000
	DefaultThin     = 1
	DefaultChains   = 1
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Target       string             `yaml:"target"`
	Dim          int                `yaml:"dim"`
	Steps        int                `yaml:"steps"`
	StepSize     float64            `yaml:"step_size"`
	Seed         int64              `yaml:"seed"`
	Source       string             `yaml:"source"`
	Ranges       [][2]float64       `yaml:"ranges,flow"`
	BurnIn       int                `yaml:"burn_in"`
	Thin         int                `yaml:"thin"`
	Chains       int                `yaml:"chains"`
	Params       map[string]float64 `yaml:"params,omitempty"`
	Observations [][]float64        `yaml:"observations,omitempty,flow"`
	DataFile     string             `yaml:"data_file,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Target:   DefaultTarget,
		Dim:      DefaultDim,
		Steps:    DefaultSteps,
		StepSize: DefaultStepSize,
		Seed:     DefaultSeed,
		Source:   DefaultSource,
		BurnIn:   DefaultBurnIn,
		Thin:     DefaultThin,
		Chains:   DefaultChains,
		Params:   map[string]float64{},
	}
}

func Load(path string) (*Config, error) {
	return LoadWith(path, DefaultConfig())
}

// LoadWith overlays the file at path onto base, so keys missing from the
// file keep their base values.
func LoadWith(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseWith(data, base)
}

func Parse(data []byte) (*Config, error) {
	return ParseWith(data, DefaultConfig())
}

func ParseWith(data []byte, base *Config) (*Config, error) {
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Params == nil {
		cfg.Params = map[string]float64{}
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Bounds returns the parameter range. Without explicit ranges every
// dimension gets [DefaultLow, DefaultHigh]; a single range is repeated for
// every dimension.
func (c *Config) Bounds() mcmc.Range {
	n := c.Dim
	if n <= 0 {
		n = len(c.Ranges)
	}
	r := make(mcmc.Range, n)
	for d := range r {
		switch {
		case d < len(c.Ranges):
			r[d] = mcmc.Interval{Low: c.Ranges[d][0], High: c.Ranges[d][1]}
		case len(c.Ranges) == 1:
			r[d] = mcmc.Interval{Low: c.Ranges[0][0], High: c.Ranges[0][1]}
		default:
			r[d] = mcmc.Interval{Low: DefaultLow, High: DefaultHigh}
		}
	}
	return r
}

// Param returns a target parameter, or def when it is not set.
func (c *Config) Param(name string, def float64) float64 {
	if v, ok := c.Params[name]; ok {
		return v
	}
	return def
}

func (c *Config) Sampler() mcmc.Config {
	return mcmc.Config{
		Steps:    c.Steps,
		StepSize: c.StepSize,
		Dim:      c.Dim,
	}
}

func (c *Config) Validate() error {
	if c.Target == "" {
		return fmt.Errorf("%w: target is required", ErrInvalidConfig)
	}
	if c.Dim < 1 {
		return fmt.Errorf("%w: dim must be positive, got %d", ErrInvalidConfig, c.Dim)
	}
	if len(c.Ranges) > 1 && len(c.Ranges) != c.Dim {
		return fmt.Errorf("%w: %d ranges for dim %d", ErrInvalidConfig, len(c.Ranges), c.Dim)
	}
	if c.Steps < 0 {
		return fmt.Errorf("%w: steps must be non-negative, got %d", ErrInvalidConfig, c.Steps)
	}
	if !(c.StepSize > 0) {
		return fmt.Errorf("%w: step_size must be positive, got %g", ErrInvalidConfig, c.StepSize)
	}
	if c.BurnIn < 0 {
		return fmt.Errorf("%w: burn_in must be non-negative, got %d", ErrInvalidConfig, c.BurnIn)
	}
	if c.Thin < 1 {
		return fmt.Errorf("%w: thin must be at least 1, got %d", ErrInvalidConfig, c.Thin)
	}
	if c.Chains < 1 {
		return fmt.Errorf("%w: chains must be at least 1, got %d", ErrInvalidConfig, c.Chains)
	}
	if !slices.Contains(rng.Kinds(), c.Source) {
		return fmt.Errorf("%w: source %q, want one of %v", ErrInvalidConfig, c.Source, rng.Kinds())
	}
	if err := c.Bounds().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) Clone() *Config {
	cp := *c
	cp.Ranges = append([][2]float64(nil), c.Ranges...)
	cp.Params = make(map[string]float64, len(c.Params))
	for k, v := range c.Params {
		cp.Params[k] = v
	}
	cp.Observations = make([][]float64, len(c.Observations))
	for i, row := range c.Observations {
		cp.Observations[i] = append([]float64(nil), row...)
	}
	return &cp
}
