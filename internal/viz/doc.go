// Package viz renders sampler output in the terminal.
//
// Static views are plain strings suitable for printing:
//
//   - [TracePlot]: asciigraph line chart of one coordinate over the run
//   - [HistogramBars]: horizontal bar chart of a [diag.Histogram]
//   - [SummaryTable]: per-dimension posterior summary
//
// [Live] is a Bubble Tea model that steps an [mcmc.Chain] on a timer and
// redraws the trace, the acceptance rate and, for chains of two or more
// dimensions, a Braille scatter of recent states.
//
// # Key Bindings
//
//	Space/P - Pause/Resume sampling
//	R       - Restart the chain from its seed
//	+/-     - Double or halve steps per frame
//	T       - Cycle color themes
//	Q       - Quit
package viz
