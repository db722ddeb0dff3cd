package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/geodesim/internal/sim"
	"github.com/san-kum/geodesim/internal/spacetime"
)

// Deviation estimates the exponential growth rate of the separation between
// body and a neighbour displaced radially by delta, per unit proper time.
// The separation is measured in (r, r·φ) and renormalized whenever it grows
// past one, so the estimate survives long runs. Bound orbits in these metrics
// are integrable and give a rate that decays towards zero.
func Deviation(integ sim.Integrator, body sim.Body, cfg sim.Config, delta float64) (float64, error) {
	if delta <= 0 {
		return 0, fmt.Errorf("perturbation must be positive, got %g", delta)
	}
	if err := body.Here().Validate(); err != nil {
		return 0, err
	}

	near := body
	near.X[spacetime.R] += delta
	u, err := spacetime.Assemble(spatial(body.U), near.Here(), body.NormSquared())
	if err != nil {
		return 0, fmt.Errorf("neighbour: %w", err)
	}
	near.U = u

	sumLog := 0.0
	elapsed := 0.0
	sep := delta
	for i := 0; i < cfg.Ticks; i++ {
		body.X, body.U = integ.Step(body.Params, body.X, body.U, cfg.StepSize, cfg.SubSteps)
		near.X, near.U = integ.Step(near.Params, near.X, near.U, cfg.StepSize, cfg.SubSteps)
		if body.Here().Validate() != nil || near.Here().Validate() != nil {
			break
		}
		elapsed += cfg.TickSize()

		sep = separation(body.X, near.X)
		if sep > 1.0 {
			sumLog += math.Log(sep / delta)
			scale := delta / sep
			for k := range near.X {
				near.X[k] = body.X[k] + (near.X[k]-body.X[k])*scale
				near.U[k] = body.U[k] + (near.U[k]-body.U[k])*scale
			}
			sep = delta
		}
	}

	if elapsed == 0 || sep == 0 {
		return 0, ErrTooFewSamples
	}
	return (sumLog + math.Log(sep/delta)) / elapsed, nil
}

func separation(a, b spacetime.Coordinate) float64 {
	dr := b[spacetime.R] - a[spacetime.R]
	rdphi := a[spacetime.R] * (b[spacetime.Phi] - a[spacetime.Phi])
	return math.Hypot(dr, rdphi)
}

func spatial(u spacetime.FourVelocity) [3]float64 {
	return [3]float64{u[spacetime.R], u[spacetime.Theta], u[spacetime.Phi]}
}
