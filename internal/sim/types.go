package sim

import (
	"fmt"

	"github.com/san-kum/geodesim/internal/spacetime"
)

// Body is one independently owned orbit: the geometry parameters plus the
// current position and four-velocity.
type Body struct {
	Params spacetime.Params
	X      spacetime.Coordinate
	U      spacetime.FourVelocity
}

// Here returns the parameters evaluated at the body's position.
func (b Body) Here() spacetime.Params { return b.Params.At(b.X) }

// NormSquared is g_ab U^a U^b at the body's position.
func (b Body) NormSquared() float64 {
	return spacetime.NormSquared(b.U, spacetime.Metric(b.Here()))
}

type Integrator interface {
	Step(p spacetime.Params, x spacetime.Coordinate, u spacetime.FourVelocity, h float64, n int) (spacetime.Coordinate, spacetime.FourVelocity)
}

type Metric interface {
	Name() string
	Observe(b Body, tau float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(b Body, tau float64)
}

// Config controls one run. Each tick advances the affine parameter by
// StepSize × SubSteps.
type Config struct {
	StepSize      float64
	SubSteps      int
	Ticks         int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		StepSize:      0.01,
		SubSteps:      10,
		Ticks:         10000,
		ValidateState: true,
	}
}

// TickSize is the affine-parameter advance per tick.
func (c Config) TickSize() float64 { return c.StepSize * float64(c.SubSteps) }

type Result struct {
	States     []spacetime.Coordinate
	Velocities []spacetime.FourVelocity
	Taus       []float64
	Norms      []float64
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
	Halted     bool
}

// Final returns the last recorded body state.
func (r *Result) Final(p spacetime.Params) Body {
	n := len(r.States) - 1
	return Body{Params: p, X: r.States[n], U: r.Velocities[n]}
}

// SimError records why a run halted.
type SimError struct {
	Tick int
	Tau  float64
	Err  error
}

func (e SimError) Error() string {
	return fmt.Sprintf("tick %d (tau=%.4f): %v", e.Tick, e.Tau, e.Err)
}

func (e SimError) Unwrap() error { return e.Err }
