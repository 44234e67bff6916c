package target

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/san-kum/mcsim/internal/mcmc"
)

type Observation struct {
	X, Y float64
}

// LinearModel is the likelihood of observations under y = m*x + c with
// Gaussian noise of known width. The state is [m, c]. With a flat prior over
// the parameter range it is proportional to the posterior.
//
// The density is scaled so that the least-squares fit has density 1. Away
// from the fit it still underflows to zero, so samplers should prefer
// LogDensity.
type LinearModel struct {
	obs   []Observation
	noise float64
	ref   float64
}

func NewLinearModel(obs []Observation, noise float64) (*LinearModel, error) {
	if len(obs) == 0 {
		return nil, ErrNoData
	}
	if !(noise > 0) {
		return nil, fmt.Errorf("%w: noise %g", ErrBadParameter, noise)
	}
	m := &LinearModel{obs: obs, noise: noise}
	slope, intercept := m.LeastSquares()
	m.ref = m.LogLikelihood(slope, intercept)
	return m, nil
}

// LeastSquares returns the maximum-likelihood slope and intercept.
func (m *LinearModel) LeastSquares() (slope, intercept float64) {
	xs := make([]float64, len(m.obs))
	ys := make([]float64, len(m.obs))
	for i, o := range m.obs {
		xs[i], ys[i] = o.X, o.Y
	}
	if len(xs) < 2 || stat.Variance(xs, nil) == 0 {
		return 0, stat.Mean(ys, nil)
	}
	intercept, slope = stat.LinearRegression(xs, ys, nil, false)
	return slope, intercept
}

func (m *LinearModel) LogLikelihood(slope, intercept float64) float64 {
	ll := 0.0
	for _, o := range m.obs {
		ll += distuv.Normal{Mu: slope*o.X + intercept, Sigma: m.noise}.LogProb(o.Y)
	}
	return ll
}

func (m *LinearModel) Density(x mcmc.State) (float64, error) {
	l, err := m.LogDensity(x)
	if err != nil {
		return 0, err
	}
	return math.Exp(l), nil
}

func (m *LinearModel) LogDensity(x mcmc.State) (float64, error) {
	if len(x) != 2 {
		return 0, fmt.Errorf("%w: got %d, want 2", ErrDimension, len(x))
	}
	return m.LogLikelihood(x[0], x[1]) - m.ref, nil
}

// NormalModel is the likelihood of samples under N(mu, sigma). The state is
// [mu, sigma]; the density is zero wherever sigma <= 0. Like LinearModel it
// is scaled to 1 at the maximum-likelihood estimate.
type NormalModel struct {
	data []float64
	ref  float64
}

func NewNormalModel(data []float64) (*NormalModel, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 samples, got %d", ErrNoData, len(data))
	}
	m := &NormalModel{data: data}
	mu, sigma := m.MLE()
	if !(sigma > 0) {
		return nil, fmt.Errorf("%w: samples have zero spread", ErrBadParameter)
	}
	m.ref = m.LogLikelihood(mu, sigma)
	return m, nil
}

// MLE returns the sample mean and the biased (1/n) standard deviation.
func (m *NormalModel) MLE() (mu, sigma float64) {
	return stat.PopMeanStdDev(m.data, nil)
}

func (m *NormalModel) LogLikelihood(mu, sigma float64) float64 {
	dist := distuv.Normal{Mu: mu, Sigma: sigma}
	ll := 0.0
	for _, v := range m.data {
		ll += dist.LogProb(v)
	}
	return ll
}

func (m *NormalModel) Density(x mcmc.State) (float64, error) {
	l, err := m.LogDensity(x)
	if err != nil {
		return 0, err
	}
	return math.Exp(l), nil
}

func (m *NormalModel) LogDensity(x mcmc.State) (float64, error) {
	if len(x) != 2 {
		return 0, fmt.Errorf("%w: got %d, want 2", ErrDimension, len(x))
	}
	if x[1] <= 0 {
		return math.Inf(-1), nil
	}
	return m.LogLikelihood(x[0], x[1]) - m.ref, nil
}
