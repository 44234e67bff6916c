// Package diag provides post-run diagnostics for chain traces.
//
// These consume a finished trace and never feed back into sampling:
//
//   - [Burn], [Thin]: trim the initial transient and decorrelate
//   - [Mean], [Variance]: per-dimension moments
//   - [Histogram]: fixed-width binning of one coordinate
//   - [AutocorrelationLength]: steps between roughly independent samples
//
// # Burn-in
//
// A chain started far from the bulk of the target needs time to get there:
//
//	kept, _ := diag.Burn(result.Trace, 1000)
//	summary := diag.Summarize(kept)
package diag
