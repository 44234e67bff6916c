package target

import "github.com/san-kum/mcsim/internal/mcmc"

// Flat is a constant density; every in-range proposal is accepted.
type Flat struct {
	Value float64
}

func NewFlat() Flat { return Flat{Value: 1} }

func (f Flat) Density(mcmc.State) (float64, error) { return f.Value, nil }
