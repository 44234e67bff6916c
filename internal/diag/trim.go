package diag

import (
	"errors"
	"fmt"

	"github.com/san-kum/mcsim/internal/mcmc"
)

var ErrBadArgument = errors.New("diag: bad argument")

// Burn drops the first n states. The returned slice shares the trace.
func Burn(trace []mcmc.State, n int) ([]mcmc.State, error) {
	if n < 0 || n >= len(trace) {
		return nil, fmt.Errorf("%w: burn-in %d for trace of %d states", ErrBadArgument, n, len(trace))
	}
	return trace[n:], nil
}

// Thin keeps every k-th state, starting with the first.
func Thin(trace []mcmc.State, k int) ([]mcmc.State, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: thinning interval %d", ErrBadArgument, k)
	}
	if k == 1 {
		return trace, nil
	}
	out := make([]mcmc.State, 0, (len(trace)+k-1)/k)
	for i := 0; i < len(trace); i += k {
		out = append(out, trace[i])
	}
	return out, nil
}

// Column extracts coordinate d of every state.
func Column(trace []mcmc.State, d int) []float64 {
	col := make([]float64, 0, len(trace))
	for _, x := range trace {
		if d < len(x) {
			col = append(col, x[d])
		}
	}
	return col
}
