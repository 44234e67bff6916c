package diag

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type Histogram struct {
	// Edges has len(Counts)+1 entries; bin i covers [Edges[i], Edges[i+1]).
	Edges  []float64
	Counts []float64
}

// NewHistogram bins values into equal-width bins spanning their range.
func NewHistogram(values []float64, bins int) (*Histogram, error) {
	if bins < 1 {
		return nil, fmt.Errorf("%w: %d bins", ErrBadArgument, bins)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no values", ErrBadArgument)
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sortFloats(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	// The top edge is exclusive; nudge it so the maximum lands in the last bin.
	hi = math.Nextafter(hi, math.Inf(1))

	edges := floats.Span(make([]float64, bins+1), lo, hi)
	edges[bins] = hi
	counts := stat.Histogram(nil, edges, sorted, nil)
	return &Histogram{Edges: edges, Counts: counts}, nil
}

func (h *Histogram) Total() float64 { return floats.Sum(h.Counts) }

// Density normalizes counts so the histogram integrates to one.
func (h *Histogram) Density() []float64 {
	total := h.Total()
	out := make([]float64, len(h.Counts))
	if total == 0 {
		return out
	}
	for i, c := range h.Counts {
		out[i] = c / (total * (h.Edges[i+1] - h.Edges[i]))
	}
	return out
}

func (h *Histogram) Centers() []float64 {
	out := make([]float64, len(h.Counts))
	for i := range out {
		out[i] = (h.Edges[i] + h.Edges[i+1]) / 2
	}
	return out
}

func sortFloats(x []float64) { sort.Float64s(x) }
