package spacetime

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormSquared_Diagonal(t *testing.T) {
	g := Metric(NewSchwarzschild(1, 2, 3))
	v := FourVelocity{1, 2, 3, 4}

	s := math.Sin(3)
	want := 0.5 - 2*4 - 4*9 - 4*s*s*16
	assert.InDelta(t, want, NormSquared(v, g), 1e-12)
}

func TestNormSquared_KerrIncludesCrossTerm(t *testing.T) {
	g := Metric(NewKerr(2, 0.8, 6, 1.2))
	v := FourVelocity{1.3, 0.2, 0.01, 0.04}

	diag := 0.0
	for a := 0; a < 4; a++ {
		diag += g[a][a] * v[a] * v[a]
	}
	want := diag + 2*g[T][Phi]*v[T]*v[Phi]
	assert.InDelta(t, want, NormSquared(v, g), 1e-12)
	assert.NotEqual(t, diag, NormSquared(v, g))
}

func TestNorm(t *testing.T) {
	g := Metric(NewSchwarzschild(1, 4, 1))

	n, err := Norm(FourVelocity{2, 0, 0, 0}, g)
	require.NoError(t, err)
	assert.InDelta(t, 2*math.Sqrt(0.75), n, 1e-12)

	_, err = Norm(FourVelocity{0, 1, 0, 0}, g)
	assert.ErrorIs(t, err, ErrDomain)
	var dErr *DomainError
	require.ErrorAs(t, err, &dErr)
	assert.Less(t, dErr.Value, 0.0)

	_, err = Norm(FourVelocity{math.Inf(1), 0, 0, 0}, g)
	assert.ErrorIs(t, err, ErrNumericOverflow)
}

func TestLocalSpeed(t *testing.T) {
	p := NewSchwarzschild(1, 10, math.Pi/2)

	v, err := LocalSpeed(FourVelocity{1 / math.Sqrt(0.9), 0, 0, 0}, p)
	require.NoError(t, err)
	assert.InDelta(t, 0, v, 1e-12)

	for _, r := range []float64{3, 10} {
		here := NewSchwarzschild(1, r, math.Pi/2)
		u, err := Assemble([3]float64{}, here, 1)
		require.NoError(t, err)
		v, err := LocalSpeed(u, here)
		require.NoError(t, err)
		assert.Zero(t, v, "r=%g", r)
	}

	// U^r = 1e-9 at r=10: v = sqrt(-g_rr) U^r / (sqrt(g_tt) U^t)
	u, err := Assemble([3]float64{1e-9, 0, 0}, p, 1)
	require.NoError(t, err)
	v, err = LocalSpeed(u, p)
	require.NoError(t, err)
	want := math.Sqrt(1/0.9) * 1e-9 / (math.Sqrt(0.9) * u[T])
	assert.InEpsilon(t, want, v, 1e-9)

	u = circularOrbit(1, 10)
	v, err = LocalSpeed(u, p)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(0.5/9), v, 1e-9)

	_, err = LocalSpeed(FourVelocity{1, 0, 0, 0}, NewKerr(2, 0.9, 1.9, math.Pi/2))
	assert.ErrorIs(t, err, ErrDomain)
}

// circularOrbit is the equatorial circular-orbit four-velocity around a
// Schwarzschild mass with radius rs at radius r.
func circularOrbit(rs, r float64) FourVelocity {
	m := rs / 2
	ut := 1 / math.Sqrt(1-3*m/r)
	return FourVelocity{ut, 0, 0, math.Sqrt(m/(r*r*r)) * ut}
}

func TestCircularOrbitIsUnitNorm(t *testing.T) {
	u := circularOrbit(1, 10)
	g := Metric(NewSchwarzschild(1, 10, math.Pi/2))
	assert.InDelta(t, 1, NormSquared(u, g), 1e-12)
}
