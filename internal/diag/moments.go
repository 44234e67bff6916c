package diag

import (
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/mcsim/internal/mcmc"
)

func dim(trace []mcmc.State) int {
	if len(trace) == 0 {
		return 0
	}
	return len(trace[0])
}

// Mean returns the per-dimension sample mean.
func Mean(trace []mcmc.State) []float64 {
	out := make([]float64, dim(trace))
	for d := range out {
		out[d] = stat.Mean(Column(trace, d), nil)
	}
	return out
}

// Variance returns the per-dimension unbiased sample variance.
func Variance(trace []mcmc.State) []float64 {
	out := make([]float64, dim(trace))
	for d := range out {
		out[d] = stat.Variance(Column(trace, d), nil)
	}
	return out
}

// Quantile returns the empirical p-quantile of coordinate d.
func Quantile(trace []mcmc.State, d int, p float64) float64 {
	col := Column(trace, d)
	sortFloats(col)
	return stat.Quantile(p, stat.Empirical, col, nil)
}
