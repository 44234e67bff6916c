package rng

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

var (
	ErrUnknownSource = errors.New("rng: unknown source")
	ErrSeedRange     = errors.New("rng: seed out of range for source")
)

// Source is the entropy consumed by a chain: uniform variates in [0, 1) and
// standard normal variates.
type Source interface {
	Float64() float64
	NormFloat64() float64
}

const (
	KindPCG   = "pcg"
	KindMT    = "mt19937"
	KindNumPy = "numpy"
)

// pcgStream is mixed into the seed to derive the second PCG word.
const pcgStream = 0x9E3779B97F4A7C15

// NewPCG returns a PCG-backed generator for seed.
func NewPCG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^pcgStream))
}

// New returns a source of the given kind. An empty kind selects PCG.
func New(kind string, seed int64) (Source, error) {
	switch kind {
	case "", KindPCG:
		return NewPCG(uint64(seed)), nil
	case KindMT, KindNumPy:
		if seed < 0 || seed > math.MaxUint32 {
			return nil, fmt.Errorf("%w: %s seed %d", ErrSeedRange, kind, seed)
		}
		return NewMT19937(uint32(seed)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, kind)
	}
}

// Kinds lists the accepted source names.
func Kinds() []string {
	return []string{KindPCG, KindMT, KindNumPy}
}
