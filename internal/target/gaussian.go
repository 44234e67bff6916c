package target

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/san-kum/mcsim/internal/mcmc"
)

// Gaussian is a normalized multivariate normal density.
type Gaussian struct {
	dim  int
	dist *distmv.Normal
}

func NewGaussian(mu []float64, cov mat.Symmetric) (*Gaussian, error) {
	if len(mu) == 0 || cov.SymmetricDim() != len(mu) {
		return nil, fmt.Errorf("%w: mean has %d entries, covariance is %dx%[3]d", ErrDimension, len(mu), cov.SymmetricDim())
	}
	dist, ok := distmv.NewNormal(mu, cov, nil)
	if !ok {
		return nil, ErrBadCovariance
	}
	return &Gaussian{dim: len(mu), dist: dist}, nil
}

// NewIsotropic builds a Gaussian with every mean equal to mu, every variance
// sigma^2 and every pairwise correlation rho.
func NewIsotropic(dim int, mu, sigma, rho float64) (*Gaussian, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: dim %d", ErrBadParameter, dim)
	}
	if !(sigma > 0) {
		return nil, fmt.Errorf("%w: sigma %g", ErrBadParameter, sigma)
	}

	means := make([]float64, dim)
	cov := mat.NewSymDense(dim, nil)
	for i := 0; i < dim; i++ {
		means[i] = mu
		for j := i; j < dim; j++ {
			if i == j {
				cov.SetSym(i, j, sigma*sigma)
			} else {
				cov.SetSym(i, j, rho*sigma*sigma)
			}
		}
	}
	return NewGaussian(means, cov)
}

func (g *Gaussian) Dim() int { return g.dim }

func (g *Gaussian) Mean() []float64 { return g.dist.Mean(nil) }

func (g *Gaussian) Density(x mcmc.State) (float64, error) {
	if len(x) != g.dim {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrDimension, len(x), g.dim)
	}
	return g.dist.Prob(x), nil
}
