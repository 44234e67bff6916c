package target

import (
	"fmt"

	"github.com/san-kum/mcsim/internal/mcmc"
)

type Component struct {
	Weight float64
	Target mcmc.Target
}

// Mixture is a weighted sum of component densities. Weights need not sum
// to one.
type Mixture struct {
	components []Component
}

func NewMixture(components ...Component) (*Mixture, error) {
	if len(components) == 0 {
		return nil, fmt.Errorf("%w: mixture needs at least one component", ErrBadParameter)
	}
	for i, c := range components {
		if !(c.Weight > 0) || c.Target == nil {
			return nil, fmt.Errorf("%w: component %d", ErrBadParameter, i)
		}
	}
	return &Mixture{components: components}, nil
}

// NewBimodal places two equal-weight Gaussian modes at -sep/2 and +sep/2 on
// every axis.
func NewBimodal(dim int, sep, sigma float64) (*Mixture, error) {
	left, err := NewIsotropic(dim, -sep/2, sigma, 0)
	if err != nil {
		return nil, err
	}
	right, err := NewIsotropic(dim, sep/2, sigma, 0)
	if err != nil {
		return nil, err
	}
	return NewMixture(Component{Weight: 0.5, Target: left}, Component{Weight: 0.5, Target: right})
}

func (m *Mixture) Density(x mcmc.State) (float64, error) {
	total := 0.0
	for _, c := range m.components {
		p, err := c.Target.Density(x)
		if err != nil {
			return 0, err
		}
		total += c.Weight * p
	}
	return total, nil
}
