package mcmc

import (
	"fmt"

	"github.com/san-kum/mcsim/internal/rng"
)

// Chain advances a single Markov chain one step at a time. It owns its
// current state; states it hands out are never modified afterwards.
type Chain struct {
	target   Target
	bounds   Range
	proposal Proposal
	src      rng.Source

	current  State
	steps    int
	accepted int
}

// NewChain validates bounds and draws the initial state uniformly within them.
func NewChain(target Target, bounds Range, proposal Proposal, src rng.Source) (*Chain, error) {
	if src == nil {
		return nil, ErrNoSource
	}
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	return &Chain{
		target:   target,
		bounds:   bounds,
		proposal: proposal,
		src:      src,
		current:  bounds.Sample(src),
	}, nil
}

// Step proposes a candidate, applies Accept and returns the resulting state.
// On an evaluator failure the chain does not advance.
func (c *Chain) Step() (State, bool, error) {
	candidate := c.proposal.Propose(c.src, c.current)
	next, ok, err := Accept(c.src, c.target, c.bounds, c.current, candidate)
	if err != nil {
		return c.current, false, &EvaluatorError{Step: c.steps + 1, State: candidate, Wrapped: err}
	}

	c.steps++
	if ok {
		c.accepted++
		c.current = next
	}
	return c.current, ok, nil
}

func (c *Chain) Current() State { return c.current }
func (c *Chain) Steps() int     { return c.steps }
func (c *Chain) Accepted() int  { return c.accepted }
func (c *Chain) Dim() int       { return len(c.bounds) }

func (c *Chain) AcceptanceRatio() float64 {
	if c.steps == 0 {
		return 0
	}
	return float64(c.accepted) / float64(c.steps)
}

func (c *Chain) String() string {
	return fmt.Sprintf("chain(dim=%d steps=%d accepted=%d)", len(c.bounds), c.steps, c.accepted)
}
