package odesim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState indicates NaN or Inf in the integrated state.
	ErrInvalidState = errors.New("odesim: invalid state (NaN or Inf detected)")

	// ErrStepBudget indicates the internal step budget was exhausted
	// before reaching the final sample time.
	ErrStepBudget = errors.New("odesim: internal step budget exhausted")

	// ErrStepTooSmall indicates the adaptive step fell below MinDt.
	ErrStepTooSmall = errors.New("odesim: adaptive timestep below minimum")

	// ErrBadTspan indicates a non-increasing or empty sample time span.
	ErrBadTspan = errors.New("odesim: tspan must be non-empty and strictly increasing")
)

// StepError wraps an error with the time and step at which it occurred.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.6g): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error { return e.Wrapped }
