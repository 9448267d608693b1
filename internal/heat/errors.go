package heat

import (
	"errors"
	"fmt"
)

// Domain errors for conduction runs.
var (
	// ErrInvalidParameter indicates a non-positive or out-of-range physical or discretization input.
	ErrInvalidParameter = errors.New("heat: invalid parameter")

	// ErrSingularSystem indicates the tridiagonal system cannot be solved.
	ErrSingularSystem = errors.New("heat: singular system")

	// ErrNumericalDivergence indicates a non-finite temperature was produced while stepping.
	ErrNumericalDivergence = errors.New("heat: numerical divergence (NaN or Inf detected)")
)

// ParameterError names the input that failed validation.
type ParameterError struct {
	Name   string
	Value  float64
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%v: %s = %g: %s", ErrInvalidParameter, e.Name, e.Value, e.Reason)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}

// StepError wraps an error with the step and node where it occurred.
type StepError struct {
	Step    int
	Node    int
	Time    float64
	Value   float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.6fs) node %d: %v (value %g)", e.Step, e.Time, e.Node, e.Wrapped, e.Value)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}

// SingularError reports the node whose pivot vanished.
func SingularError(node int, pivot float64) error {
	return fmt.Errorf("%w: zero pivot %g at node %d", ErrSingularSystem, pivot, node)
}
