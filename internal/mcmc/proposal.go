package mcmc

import "github.com/san-kum/mcsim/internal/rng"

type Proposal interface {
	Propose(src rng.Source, x State) State
}

// GaussianProposal perturbs every component of x by an independent
// N(0, Sigma^2) step. It is symmetric, so the acceptance rule needs no
// proposal-density ratio.
type GaussianProposal struct {
	Sigma float64
}

func NewGaussianProposal(sigma float64) GaussianProposal {
	return GaussianProposal{Sigma: sigma}
}

func (p GaussianProposal) Propose(src rng.Source, x State) State {
	next := make(State, len(x))
	for d := range x {
		next[d] = x[d] + float64(p.Sigma*src.NormFloat64())
	}
	return next
}
