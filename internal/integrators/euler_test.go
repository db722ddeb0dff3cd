package integrators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/geodesim/internal/spacetime"
)

func circularOrbit(rs, r float64) spacetime.FourVelocity {
	m := rs / 2
	ut := 1 / math.Sqrt(1-3*m/r)
	return spacetime.FourVelocity{ut, 0, 0, math.Sqrt(m/(r*r*r)) * ut}
}

func TestStepCoordinates(t *testing.T) {
	x := spacetime.Coordinate{0, 10, 1, 0}
	u := spacetime.FourVelocity{1.1, -0.2, 0.01, 0.03}

	got := StepCoordinates(x, u, 0.01, 5)
	for a := range x {
		assert.InDelta(t, x[a]+0.05*u[a], got[a], 1e-12)
	}
	assert.Equal(t, x, StepCoordinates(x, u, 0.01, 0))
}

func TestStepVelocity_SingleSubstep(t *testing.T) {
	p := spacetime.NewKerr(2, 0.5, 9, 1.2)
	u := spacetime.FourVelocity{1.2, 0.05, 0.002, 0.03}
	h := 0.1

	gamma := spacetime.Christoffel(p)
	got := StepVelocity(u, p, h, 1)
	for a := 0; a < 4; a++ {
		sum := 0.0
		for b := 0; b < 4; b++ {
			for c := 0; c < 4; c++ {
				sum += gamma[a][b][c] * u[b] * u[c]
			}
		}
		assert.InDelta(t, u[a]-h*sum, got[a], 1e-14)
	}
}

func TestStepVelocity_FlatSpaceIsInertial(t *testing.T) {
	p := spacetime.NewSchwarzschild(0, 5, math.Pi/2)
	u := spacetime.FourVelocity{1.2, 0.5, 0, 0}

	got := StepVelocity(u, p, 0.01, 100)
	assert.InDeltaSlice(t, u[:], got[:], 1e-15)
}

func TestStepVelocity_FallsInward(t *testing.T) {
	p := spacetime.NewSchwarzschild(1, 10, math.Pi/2)
	u, err := spacetime.Assemble([3]float64{}, p, 1)
	require.NoError(t, err)

	got := StepVelocity(u, p, 0.01, 10)
	assert.Less(t, got[spacetime.R], 0.0)
}

func TestEuler_PoliciesAgreeOnOneSubstep(t *testing.T) {
	p := spacetime.NewKerr(2, 0.6, 12, 1.3)
	x := spacetime.Coordinate{0, 12, 1.3, 0}
	u, err := spacetime.Assemble([3]float64{0.01, 0.001, 0.02}, p, 1)
	require.NoError(t, err)

	x1, u1 := NewEuler(Frozen).Step(p, x, u, 0.05, 1)
	x2, u2 := NewEuler(PerSubstep).Step(p, x, u, 0.05, 1)
	assert.Equal(t, x1, x2)
	assert.Equal(t, u1, u2)

	x1, _ = NewEuler(Frozen).Step(p, x, u, 0.05, 20)
	x2, _ = NewEuler(PerSubstep).Step(p, x, u, 0.05, 20)
	assert.NotEqual(t, x1, x2)
}

func TestEuler_UsesCoordinatesNotStaleParams(t *testing.T) {
	x := spacetime.Coordinate{0, 20, math.Pi / 2, 0}
	u := circularOrbit(1, 20)

	stale := spacetime.NewSchwarzschild(1, 3, 0.2)
	fresh := spacetime.NewSchwarzschild(1, 20, math.Pi/2)

	x1, u1 := NewEuler(Frozen).Step(stale, x, u, 0.01, 4)
	x2, u2 := NewEuler(Frozen).Step(fresh, x, u, 0.01, 4)
	assert.Equal(t, x2, x1)
	assert.Equal(t, u2, u1)
}

func TestEuler_CircularOrbitIsStationary(t *testing.T) {
	const (
		rs    = 1.0
		r0    = 10 * rs
		h     = 0.001
		sub   = 10
		ticks = 5000
	)

	for _, policy := range []Policy{Frozen, PerSubstep} {
		t.Run(policy.String(), func(t *testing.T) {
			p := spacetime.NewSchwarzschild(rs, r0, math.Pi/2)
			x := spacetime.Coordinate{0, r0, math.Pi / 2, 0}
			u := circularOrbit(rs, r0)
			integ := NewEuler(policy)

			for i := 0; i < ticks; i++ {
				x, u = integ.Step(p, x, u, h, sub)
				require.True(t, x.IsFinite() && u.IsFinite(), "tick %d", i)
				require.InDelta(t, r0, x[spacetime.R], 0.05, "tick %d", i)
			}

			assert.Greater(t, x[spacetime.Phi], 1.0)
			assert.InDelta(t, math.Pi/2, x[spacetime.Theta], 1e-9)

			n2 := spacetime.NormSquared(u, spacetime.Metric(p.At(x)))
			assert.InDelta(t, 1, n2, 5e-3)
		})
	}
}

func TestEuler_HorizonCrossingIsReportedByValidate(t *testing.T) {
	p := spacetime.NewSchwarzschild(1, 1.001, math.Pi/2)
	x := spacetime.Coordinate{0, 1.001, math.Pi / 2, 0}
	u, err := spacetime.Assemble([3]float64{-1, 0, 0}, p, 1)
	require.NoError(t, err)

	x, _ = NewEuler(Frozen).Step(p, x, u, 0.01, 10)
	assert.ErrorIs(t, p.At(x).Validate(), spacetime.ErrDomain)
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want Policy
		ok   bool
	}{
		{"", Frozen, true},
		{"frozen", Frozen, true},
		{"Per-Substep", PerSubstep, true},
		{"substep", PerSubstep, true},
		{"rk4", 0, false},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if !tt.ok {
			assert.ErrorIs(t, err, spacetime.ErrConfiguration, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
