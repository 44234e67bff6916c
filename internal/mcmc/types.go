package mcmc

import (
	"fmt"
	"math"

	"github.com/san-kum/mcsim/internal/rng"
)

// State is a position in parameter space.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Interval is the support of one dimension.
type Interval struct {
	Low  float64 `json:"low" yaml:"low"`
	High float64 `json:"high" yaml:"high"`
}

func (iv Interval) Width() float64 { return iv.High - iv.Low }

// Range holds one Interval per dimension.
type Range []Interval

func (r Range) Dim() int { return len(r) }

func (r Range) Validate() error {
	if len(r) == 0 {
		return fmt.Errorf("%w: no dimensions", ErrInvalidRange)
	}
	for d, iv := range r {
		if math.IsNaN(iv.Low) || math.IsNaN(iv.High) || math.IsInf(iv.Low, 0) || math.IsInf(iv.High, 0) {
			return fmt.Errorf("%w: dimension %d is not finite", ErrInvalidRange, d)
		}
		if iv.Low > iv.High {
			return fmt.Errorf("%w: dimension %d has low %g > high %g", ErrInvalidRange, d, iv.Low, iv.High)
		}
	}
	return nil
}

// Contains reports whether x lies in the candidate support. The upper edge is
// excluded, so a candidate exactly at High is out of range.
func (r Range) Contains(x State) bool {
	if len(x) != len(r) {
		return false
	}
	for d, iv := range r {
		if !(x[d] >= iv.Low && x[d] < iv.High) {
			return false
		}
	}
	return true
}

// Sample draws a state uniformly within r, one draw per dimension in order.
func (r Range) Sample(src rng.Source) State {
	x := make(State, len(r))
	for d, iv := range r {
		// float64() stops FMA fusion; traces must be bit-identical across architectures.
		x[d] = iv.Low + float64(iv.Width()*src.Float64())
	}
	return x
}

// Target is an unnormalized probability density. Any auxiliary data it needs
// (observations, covariance) is captured when it is built.
type Target interface {
	Density(x State) (float64, error)
}

// DensityFunc adapts a plain function to Target.
type DensityFunc func(x State) float64

func (f DensityFunc) Density(x State) (float64, error) { return f(x), nil }

// LogTarget is implemented by targets whose density underflows over parts of
// their support. Accept prefers LogDensity when it is available; a log
// density of -Inf means zero density.
type LogTarget interface {
	Target
	LogDensity(x State) (float64, error)
}

// Observer is notified after every step with the recorded state.
type Observer interface {
	OnStep(step int, x State, accepted bool)
}

type Metric interface {
	Name() string
	Observe(step int, x State, accepted bool)
	Value() float64
	Reset()
}

type Config struct {
	Steps    int
	StepSize float64
	// Dim is optional; when set it must match the number of bounds.
	Dim int
}

func DefaultConfig() Config {
	return Config{
		Steps:    10000,
		StepSize: 1.0,
	}
}

type Result struct {
	// Trace has Steps+1 entries: the initial state, then one per step.
	Trace []State
	// Accepted[i] records whether step i+1 moved the chain.
	Accepted        []bool
	Accepts         int
	Steps           int
	AcceptanceRatio float64
	Metrics         map[string]float64
}
