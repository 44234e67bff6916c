package metrics

import "github.com/san-kum/mcsim/internal/mcmc"

// RejectRun is the longest streak of consecutive rejections. A value close
// to the step count means the chain is stuck, typically in a region of zero
// density or with a step size far too large.
type RejectRun struct {
	name    string
	current int
	longest int
}

func NewRejectRun() *RejectRun {
	return &RejectRun{name: "max_reject_run"}
}

func (r *RejectRun) Name() string {
	return r.name
}

func (r *RejectRun) Observe(step int, x mcmc.State, accepted bool) {
	if accepted {
		r.current = 0
		return
	}
	r.current++
	if r.current > r.longest {
		r.longest = r.current
	}
}

func (r *RejectRun) Value() float64 {
	return float64(r.longest)
}

func (r *RejectRun) Reset() {
	r.current = 0
	r.longest = 0
}

// Defaults returns the metrics attached to every CLI run.
func Defaults() []mcmc.Metric {
	return []mcmc.Metric{
		NewWindowAcceptance(1000),
		NewRejectRun(),
		NewRunningMean(0),
	}
}
