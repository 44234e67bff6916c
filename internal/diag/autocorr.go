package diag

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Autocorrelation returns the normalized autocorrelation of values for lags
// 0..maxLag. A constant series has zero variance and yields nil.
func Autocorrelation(values []float64, maxLag int) []float64 {
	n := len(values)
	if n == 0 {
		return nil
	}
	if maxLag > n-1 {
		maxLag = n - 1
	}
	if maxLag < 0 {
		maxLag = 0
	}

	centered := make([]float64, n)
	copy(centered, values)
	floats.AddConst(-stat.Mean(values, nil), centered)

	c0 := floats.Dot(centered, centered)
	if c0 == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		acf[k] = floats.Dot(centered[:n-k], centered[k:]) / c0
	}
	return acf
}

// AutocorrelationLength estimates the integrated autocorrelation time
// 1 + 2*sum(rho_k), summing until the first non-positive rho_k. It is
// roughly the number of steps between effectively independent samples.
func AutocorrelationLength(values []float64) float64 {
	acf := Autocorrelation(values, len(values)/2)
	if acf == nil {
		return 0
	}
	tau := 1.0
	for k := 1; k < len(acf); k++ {
		if acf[k] <= 0 {
			break
		}
		tau += 2 * acf[k]
	}
	return tau
}
