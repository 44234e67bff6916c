package diag

import (
	"math"

	"github.com/san-kum/mcsim/internal/mcmc"
)

type DimSummary struct {
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Q05      float64 `json:"q05"`
	Median   float64 `json:"median"`
	Q95      float64 `json:"q95"`
	AutoCorr float64 `json:"autocorr_length"`
}

type Summary struct {
	Samples int          `json:"samples"`
	Dims    []DimSummary `json:"dims"`
}

// Summarize reports per-dimension statistics of an already trimmed trace.
func Summarize(trace []mcmc.State) Summary {
	means := Mean(trace)
	vars := Variance(trace)

	s := Summary{Samples: len(trace), Dims: make([]DimSummary, len(means))}
	for d := range means {
		s.Dims[d] = DimSummary{
			Mean:     means[d],
			StdDev:   math.Sqrt(vars[d]),
			Q05:      Quantile(trace, d, 0.05),
			Median:   Quantile(trace, d, 0.5),
			Q95:      Quantile(trace, d, 0.95),
			AutoCorr: AutocorrelationLength(Column(trace, d)),
		}
	}
	return s
}

// Prepare applies burn-in then thinning.
func Prepare(trace []mcmc.State, burnIn, thin int) ([]mcmc.State, error) {
	kept, err := Burn(trace, burnIn)
	if err != nil {
		return nil, err
	}
	return Thin(kept, thin)
}
