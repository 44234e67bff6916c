package mcmc

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRange indicates an empty, non-finite or inverted parameter range.
	ErrInvalidRange = errors.New("mcmc: invalid parameter range")

	// ErrDimensionMismatch indicates a state or config whose dimension differs from the bounds.
	ErrDimensionMismatch = errors.New("mcmc: dimension mismatch between state and bounds")

	ErrInvalidSteps    = errors.New("mcmc: step count must be non-negative")
	ErrInvalidStepSize = errors.New("mcmc: proposal step size must be positive and finite")

	// ErrInvalidDensity indicates a density evaluator returned NaN, Inf or a negative value.
	ErrInvalidDensity = errors.New("mcmc: density must be finite and non-negative")

	ErrNoSource = errors.New("mcmc: no random source")
)

// EvaluatorError reports a density evaluation failure that ended a chain.
type EvaluatorError struct {
	Step    int
	State   State
	Wrapped error
}

func (e *EvaluatorError) Error() string {
	return fmt.Sprintf("step %d at %v: %v", e.Step, []float64(e.State), e.Wrapped)
}

func (e *EvaluatorError) Unwrap() error {
	return e.Wrapped
}
