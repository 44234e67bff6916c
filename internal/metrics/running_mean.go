package metrics

import (
	"fmt"

	"github.com/san-kum/mcsim/internal/mcmc"
)

// RunningMean is the mean of one coordinate over every recorded state.
type RunningMean struct {
	name    string
	dim     int
	sum     float64
	samples int
}

func NewRunningMean(dim int) *RunningMean {
	return &RunningMean{
		name: fmt.Sprintf("mean_x%d", dim),
		dim:  dim,
	}
}

func (r *RunningMean) Name() string {
	return r.name
}

func (r *RunningMean) Observe(step int, x mcmc.State, accepted bool) {
	if r.dim >= len(x) {
		return
	}
	r.sum += x[r.dim]
	r.samples++
}

func (r *RunningMean) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return r.sum / float64(r.samples)
}

func (r *RunningMean) Reset() {
	r.sum = 0
	r.samples = 0
}
