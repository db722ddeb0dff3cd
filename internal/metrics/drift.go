package metrics

import (
	"math"

	"github.com/san-kum/geodesim/internal/sim"
	"github.com/san-kum/geodesim/internal/spacetime"
)

// NormDrift tracks the largest departure of g(U,U) from its first observed
// value. The integrator never renormalizes, so this is the run's accuracy.
type NormDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewNormDrift() *NormDrift {
	return &NormDrift{name: "norm_drift"}
}

func (n *NormDrift) Name() string { return n.name }

func (n *NormDrift) Observe(b sim.Body, tau float64) {
	norm2 := b.NormSquared()
	if n.samples == 0 {
		n.initial = norm2
	}
	n.samples++
	n.maxDrift = math.Max(n.maxDrift, math.Abs(norm2-n.initial))
}

func (n *NormDrift) Value() float64 { return n.maxDrift }

func (n *NormDrift) Reset() {
	n.initial = 0
	n.maxDrift = 0
	n.samples = 0
}

// KillingEnergy is the conserved specific energy E = g_tμ U^μ of a geodesic
// in a stationary metric.
func KillingEnergy(b sim.Body) float64 {
	g := spacetime.Metric(b.Here())
	return g[spacetime.T][spacetime.T]*b.U[spacetime.T] + g[spacetime.T][spacetime.Phi]*b.U[spacetime.Phi]
}

// KillingAngularMomentum is the conserved specific angular momentum
// L = −g_φμ U^μ of a geodesic in an axisymmetric metric.
func KillingAngularMomentum(b sim.Body) float64 {
	g := spacetime.Metric(b.Here())
	return -(g[spacetime.Phi][spacetime.T]*b.U[spacetime.T] + g[spacetime.Phi][spacetime.Phi]*b.U[spacetime.Phi])
}

// EnergyDrift is the largest relative change of the Killing energy.
type EnergyDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(b sim.Body, tau float64) {
	energy := KillingEnergy(b)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
