package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/san-kum/geodesim/internal/sim"
	"github.com/san-kum/geodesim/internal/spacetime"
)

func circular(rs, r float64) sim.Body {
	omega := math.Sqrt(rs / (2 * r * r * r))
	ut := 1 / math.Sqrt(1-3*rs/(2*r))
	return sim.Body{
		Params: spacetime.NewSchwarzschild(rs, r, math.Pi/2),
		X:      spacetime.Coordinate{0, r, math.Pi / 2, 0},
		U:      spacetime.FourVelocity{ut, 0, 0, omega * ut},
	}
}

func TestNormDrift(t *testing.T) {
	m := NewNormDrift()
	b := circular(1, 10)

	m.Observe(b, 0)
	assert.Equal(t, 0.0, m.Value())

	b.U[spacetime.T] *= 1.01
	m.Observe(b, 1)
	assert.Greater(t, m.Value(), 0.0)

	want := math.Abs(b.NormSquared() - 1)
	assert.InDelta(t, want, m.Value(), 1e-9)

	m.Reset()
	assert.Equal(t, 0.0, m.Value())
}

func TestKillingConstants(t *testing.T) {
	rs, r := 1.0, 10.0
	b := circular(rs, r)

	// Circular Schwarzschild orbit: E = (1 − rs/r)/sqrt(1 − 3rs/2r),
	// L = sqrt(rs·r/2)/sqrt(1 − 3rs/2r).
	root := math.Sqrt(1 - 3*rs/(2*r))
	assert.InDelta(t, (1-rs/r)/root, KillingEnergy(b), 1e-12)
	assert.InDelta(t, math.Sqrt(rs*r/2)/root, KillingAngularMomentum(b), 1e-12)
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift()
	b := circular(1, 10)
	m.Observe(b, 0)
	m.Observe(b, 1)
	assert.InDelta(t, 0, m.Value(), 1e-15)

	b.U[spacetime.T] *= 1.1
	m.Observe(b, 2)
	assert.InDelta(t, 0.1, m.Value(), 1e-12)

	m.Reset()
	assert.Equal(t, 0.0, m.Value())
}

func TestRadiusRange(t *testing.T) {
	m := NewRadiusRange()
	assert.Equal(t, 0.0, m.Value())

	for _, r := range []float64{10, 12, 8, 9} {
		b := circular(1, 10)
		b.X[spacetime.R] = r
		m.Observe(b, 0)
	}
	assert.Equal(t, 8.0, m.Min())
	assert.Equal(t, 12.0, m.Max())
	assert.Equal(t, 4.0, m.Value())

	m.Reset()
	assert.Equal(t, 0.0, m.Value())
}

func TestSuperluminal(t *testing.T) {
	m := NewSuperluminal()
	b := circular(1, 10)
	m.Observe(b, 0)
	assert.Equal(t, 0.0, m.Value())

	// Boosting only the azimuthal component pushes U off the mass shell
	// into the spacelike region.
	b.U[spacetime.Phi] *= 20
	m.Observe(b, 1)
	assert.Equal(t, 1.0, m.Value())

	m.Reset()
	assert.Equal(t, 0.0, m.Value())
}

func TestSuperluminal_IgnoresNoStaticObserver(t *testing.T) {
	m := NewSuperluminal()
	b := circular(1, 10)
	b.X[spacetime.R] = 0.5
	m.Observe(b, 0)
	assert.Equal(t, 0.0, m.Value())
}
