package metrics

import "github.com/san-kum/mcsim/internal/mcmc"

// WindowAcceptance tracks the acceptance rate over fixed windows of steps.
// Value reports the rate of the last completed window, or the partial
// window if none has completed yet.
type WindowAcceptance struct {
	name     string
	window   int
	accepted int
	seen     int
	last     float64
	complete bool
	onWindow func(step int, rate float64)
}

func NewWindowAcceptance(window int) *WindowAcceptance {
	if window < 1 {
		window = 1
	}
	return &WindowAcceptance{
		name:   "window_acceptance",
		window: window,
	}
}

// OnWindow registers fn to be called each time a window completes.
func (w *WindowAcceptance) OnWindow(fn func(step int, rate float64)) *WindowAcceptance {
	w.onWindow = fn
	return w
}

func (w *WindowAcceptance) Name() string { return w.name }

func (w *WindowAcceptance) Observe(step int, x mcmc.State, accepted bool) {
	w.seen++
	if accepted {
		w.accepted++
	}
	if w.seen < w.window {
		return
	}

	w.last = float64(w.accepted) / float64(w.seen)
	w.complete = true
	if w.onWindow != nil {
		w.onWindow(step, w.last)
	}
	w.accepted, w.seen = 0, 0
}

func (w *WindowAcceptance) Value() float64 {
	if w.complete {
		return w.last
	}
	if w.seen == 0 {
		return 0
	}
	return float64(w.accepted) / float64(w.seen)
}

func (w *WindowAcceptance) Reset() {
	w.accepted, w.seen = 0, 0
	w.last = 0
	w.complete = false
}
