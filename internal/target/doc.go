// Package target provides ready-made densities for the sampler.
//
// Every target captures its auxiliary data (means, covariance, observations)
// when it is constructed, so the sampler only ever sees a single
// state -> density capability. Targets are read-only after construction and
// may be shared by chains running in parallel.
//
//   - [Gaussian]: multivariate normal (gonum distmv)
//   - [Mixture]: weighted sum of targets, e.g. [NewBimodal]
//   - [Flat]: constant density
//   - [LinearModel], [NormalModel]: likelihoods for toy Bayesian parameter
//     estimation over observed data
package target
