package spacetime

import (
	"errors"
	"fmt"
)

var (
	// ErrDomain indicates an input outside the region where the geometry is defined.
	ErrDomain = errors.New("spacetime: outside domain of validity")

	// ErrConfiguration indicates a malformed variant tag or parameter set.
	ErrConfiguration = errors.New("spacetime: invalid configuration")

	// ErrNumericOverflow indicates NaN or Inf in a coordinate or velocity.
	ErrNumericOverflow = errors.New("spacetime: numeric overflow (NaN or Inf detected)")
)

// DomainError reports which operation rejected which value.
type DomainError struct {
	Op     string
	Reason string
	Value  float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("spacetime: %s: %s (got %g)", e.Op, e.Reason, e.Value)
}

func (e *DomainError) Is(target error) bool { return target == ErrDomain }

// ConfigurationError is returned where parameters are constructed; it never
// reaches the integrator.
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("spacetime: invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

func domainErr(op, reason string, v float64) error {
	return &DomainError{Op: op, Reason: reason, Value: v}
}
