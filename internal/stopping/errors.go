package stopping

import (
	"errors"
	"fmt"
)

// Domain errors for stopping power evaluation.
var (
	// ErrConfiguration indicates malformed grid rules, correction bands or descriptors.
	ErrConfiguration = errors.New("stopping: invalid configuration")

	// ErrUnknownModel indicates a correction model name missing from the registry.
	ErrUnknownModel = errors.New("stopping: unknown correction model")

	// ErrInvalidEnergy indicates a zero, negative or non-finite kinetic energy.
	ErrInvalidEnergy = errors.New("stopping: kinetic energy must be positive")

	// ErrDomain indicates kinematics outside the validity of the Bethe-Bloch formula.
	ErrDomain = errors.New("stopping: energy outside formula validity")

	// ErrComputation indicates a non-finite or negative stopping power.
	ErrComputation = errors.New("stopping: non-finite or negative stopping power")
)

// EvalError wraps an error with the energy being evaluated.
type EvalError struct {
	Energy  float64
	Detail  string
	Wrapped error
}

func (e *EvalError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v (E=%g MeV)", e.Wrapped, e.Energy)
	}
	return fmt.Sprintf("%v (E=%g MeV): %s", e.Wrapped, e.Energy, e.Detail)
}

func (e *EvalError) Unwrap() error {
	return e.Wrapped
}

func configErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}
