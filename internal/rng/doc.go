// Package rng provides seedable random sources for the samplers.
//
// Two generators are available:
//
//   - PCG (math/rand/v2), the default
//   - [MT19937], a Mersenne Twister whose uniform and Gaussian streams match
//     numpy.random.RandomState for the same seed
//
// Sources are owned by the caller and passed explicitly into every routine
// that consumes entropy. None of them are safe for concurrent use; give each
// chain its own.
package rng
