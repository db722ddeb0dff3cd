package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/geodesim/internal/sim"
	"github.com/san-kum/geodesim/internal/spacetime"
)

// SweepPoint is the periapsis advance measured at one spin value. Err is set
// when the run did not complete two radial periods.
type SweepPoint struct {
	Spin       float64
	Precession float64
	Periapses  int
	Err        error
}

// SpinSweep re-runs body in Kerr geometry for each spin, keeping its spatial
// velocity and re-solving U^t, and measures the perihelion advance of each
// run. The runs are independent and go through a sim.Ensemble.
func SpinSweep(ctx context.Context, newIntegrator func() sim.Integrator, body sim.Body, cfg sim.Config, spins []float64) ([]SweepPoint, error) {
	target := body.NormSquared()
	bodies := make([]sim.Body, len(spins))
	for i, a := range spins {
		p := body.Params
		p.Variant = spacetime.Kerr
		p.A = a
		if err := p.At(body.X).Validate(); err != nil {
			return nil, fmt.Errorf("spin %g: %w", a, err)
		}
		u, err := spacetime.Assemble(spatial(body.U), p.At(body.X), target)
		if err != nil {
			return nil, fmt.Errorf("spin %g: %w", a, err)
		}
		bodies[i] = sim.Body{Params: p, X: body.X, U: u}
	}

	results, err := sim.NewEnsemble(newIntegrator).Run(ctx, bodies, cfg)
	if err != nil {
		return nil, err
	}

	points := make([]SweepPoint, len(spins))
	for i, res := range results {
		radii, phis := Series(res.States, spacetime.R), Series(res.States, spacetime.Phi)
		idx := Periapses(radii)
		shift, err := Precession(PeriapsisPhases(radii, phis, idx))
		points[i] = SweepPoint{Spin: spins[i], Precession: shift, Periapses: len(idx), Err: err}
		if err != nil {
			points[i].Precession = math.NaN()
		}
	}
	return points, nil
}

// Series extracts one coordinate from a recorded trajectory.
func Series(states []spacetime.Coordinate, index int) []float64 {
	out := make([]float64, len(states))
	for i, x := range states {
		out[i] = x[index]
	}
	return out
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
