package integrators

import (
	"fmt"
	"strings"

	"github.com/san-kum/geodesim/internal/spacetime"
)

// StepCoordinates advances x by n forward-Euler sub-steps of size h using the
// pre-step velocity u for every sub-step.
func StepCoordinates(x spacetime.Coordinate, u spacetime.FourVelocity, h float64, n int) spacetime.Coordinate {
	for i := 0; i < n; i++ {
		for a := range x {
			x[a] += h * u[a]
		}
	}
	return x
}

// StepVelocity advances u by n forward-Euler sub-steps of the geodesic
// equation. Γ is evaluated once, at p.
func StepVelocity(u spacetime.FourVelocity, p spacetime.Params, h float64, n int) spacetime.FourVelocity {
	gamma := spacetime.Christoffel(p)
	for i := 0; i < n; i++ {
		u = kick(&gamma, u, h)
	}
	return u
}

func kick(gamma *spacetime.Connection, u spacetime.FourVelocity, h float64) spacetime.FourVelocity {
	acc := gamma.Contract(u)
	for a := range u {
		u[a] -= h * acc[a]
	}
	return u
}

// Policy selects where the connection is evaluated during a multi-sub-step call.
type Policy int

const (
	// Frozen evaluates Γ once at the pre-step point and moves the coordinates
	// with the pre-step velocity.
	Frozen Policy = iota
	// PerSubstep interleaves coordinate and velocity updates and re-evaluates
	// Γ at every sub-step.
	PerSubstep
)

func (p Policy) String() string {
	switch p {
	case Frozen:
		return "frozen"
	case PerSubstep:
		return "per-substep"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "frozen":
		return Frozen, nil
	case "per-substep", "substep":
		return PerSubstep, nil
	default:
		return 0, &spacetime.ConfigurationError{Field: "policy", Value: s, Reason: "want frozen or per-substep"}
	}
}

// Euler is the geodesic stepper. It never re-normalises the four-velocity and
// never reports an error; callers inspect the result for NaN/Inf or a horizon
// crossing.
type Euler struct {
	Policy Policy
}

func NewEuler(policy Policy) *Euler {
	return &Euler{Policy: policy}
}

// Step advances (x, u) by n sub-steps of size h. p supplies the variant and
// mass parameters; its R and Theta are replaced by those of x.
func (e *Euler) Step(p spacetime.Params, x spacetime.Coordinate, u spacetime.FourVelocity, h float64, n int) (spacetime.Coordinate, spacetime.FourVelocity) {
	if e.Policy == PerSubstep {
		for i := 0; i < n; i++ {
			gamma := spacetime.Christoffel(p.At(x))
			x = StepCoordinates(x, u, h, 1)
			u = kick(&gamma, u, h)
		}
		return x, u
	}
	return StepCoordinates(x, u, h, n), StepVelocity(u, p.At(x), h, n)
}
