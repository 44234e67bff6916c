// Package mcmc implements a random-walk Metropolis-Hastings sampler.
//
// The package is built from four pieces:
//
//   - [Target]: unnormalized probability density over a parameter vector
//   - [GaussianProposal]: symmetric isotropic Gaussian step
//   - [Accept]: Metropolis rule with hard parameter-range bounds
//   - [Sampler]: chain driver recording every visited state
//
// # Example
//
//	bounds := mcmc.Range{{Low: -10, High: 10}}
//	target := mcmc.DensityFunc(func(x mcmc.State) float64 {
//	    return math.Exp(-0.5 * x[0] * x[0])
//	})
//	s := mcmc.New(target, bounds)
//	result, _ := s.Run(ctx, rng.NewPCG(42), mcmc.Config{Steps: 20000, StepSize: 1})
//
// # Determinism
//
// All entropy comes from the caller-owned [rng.Source]. Draws happen in a
// fixed order: one uniform per dimension for the initial state, then per
// step one normal per dimension for the proposal and, only when the
// candidate is in bounds and not accepted outright, one uniform for the
// acceptance test. The same seed reproduces the same trace bit for bit.
//
// # Thread Safety
//
// A chain is strictly sequential and its Sampler is NOT thread-safe. To run
// independent chains in parallel use [Ensemble], which gives every chain its
// own source.
package mcmc
