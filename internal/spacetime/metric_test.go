package spacetime

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetric_SchwarzschildFixture(t *testing.T) {
	g := Metric(NewSchwarzschild(1, 2, 3))

	s := math.Sin(3)
	want := [4]float64{0.5, -2, -4, -4 * s * s}
	for a := 0; a < 4; a++ {
		assert.InDelta(t, want[a], g[a][a], 1e-12, "g[%d][%d]", a, a)
	}
	assert.InDelta(t, -0.0797, g[Phi][Phi], 1e-4)

	for a := 0; a < 4; a++ {
		for b := 0; b < 4; b++ {
			if a != b {
				assert.Zero(t, g[a][b], "off-diagonal g[%d][%d]", a, b)
			}
		}
	}
}

func TestMetric_Symmetric(t *testing.T) {
	cases := []Params{
		NewSchwarzschild(1, 2, 3),
		NewSchwarzschild(2, 15, 0.4),
		NewKerr(2, 0.5, 7, 1.1),
		NewKerr(2, -0.9, 4, 2.5),
		NewKerr(1, 0.49, 30, math.Pi/2),
	}
	for _, p := range cases {
		g := Metric(p)
		assert.True(t, g.IsSymmetric(), "%+v", p)
	}
}

func TestMetric_KerrCrossTerm(t *testing.T) {
	p := NewKerr(2, 0.7, 6, 1.0)
	g := Metric(p)

	sin2 := math.Pow(math.Sin(1.0), 2)
	want := p.Rs * p.R * p.A * sin2 / p.Sigma()
	assert.InDelta(t, want, g[T][Phi], 1e-12)
	assert.Equal(t, g[T][Phi], g[Phi][T])
	assert.Zero(t, g[R][Phi])
}

func TestMetric_FlatLimit(t *testing.T) {
	r, th := 5.0, 0.8
	g := Metric(NewSchwarzschild(1e-12, r, th))

	s := math.Sin(th)
	assert.InDelta(t, 1, g[T][T], 1e-9)
	assert.InDelta(t, -1, g[R][R], 1e-9)
	assert.InDelta(t, -r*r, g[Theta][Theta], 1e-9)
	assert.InDelta(t, -r*r*s*s, g[Phi][Phi], 1e-9)
}

func TestMetric_KerrReducesToSchwarzschild(t *testing.T) {
	for _, spin := range []float64{0, 1e-10} {
		k := Metric(NewKerr(2, spin, 9, 1.3))
		s := Metric(NewSchwarzschild(2, 9, 1.3))
		for a := 0; a < 4; a++ {
			for b := 0; b < 4; b++ {
				assert.InDelta(t, s[a][b], k[a][b], 1e-8, "a=%g g[%d][%d]", spin, a, b)
			}
		}
	}
}

func TestMetric_HorizonBlowup(t *testing.T) {
	rs := 1.0
	prev := 0.0
	for _, eps := range []float64{1e-2, 1e-4, 1e-6, 1e-9} {
		g := Metric(NewSchwarzschild(rs, rs*(1+eps), math.Pi/2))
		grr := math.Abs(g[R][R])
		assert.Greater(t, grr, prev)
		prev = grr
	}
	assert.Greater(t, prev, 1e8)

	err := NewSchwarzschild(rs, rs*(1+1e-9), math.Pi/2).Validate()
	assert.NoError(t, err)
	err = NewSchwarzschild(rs, rs, math.Pi/2).Validate()
	assert.ErrorIs(t, err, ErrDomain)
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name string
		p    Params
		want error
	}{
		{"valid schwarzschild", NewSchwarzschild(1, 10, 1), nil},
		{"valid kerr", NewKerr(1, 0.3, 10, 1), nil},
		{"naked singularity outside ring", NewKerr(1, 0.8, 3, 1), nil},
		{"inside horizon", NewSchwarzschild(1, 0.5, 1), ErrDomain},
		{"at horizon", NewSchwarzschild(1, 1, 1), ErrDomain},
		{"negative r", NewSchwarzschild(0, -1, 1), ErrDomain},
		{"north pole", NewSchwarzschild(1, 10, 0), ErrDomain},
		{"south pole", NewSchwarzschild(1, 10, math.Pi), ErrDomain},
		{"negative rs", NewSchwarzschild(-1, 10, 1), ErrDomain},
		{"kerr delta zero", NewKerr(1, 0.5, 0.5, 1), ErrDomain},
		{"kerr inner region", NewKerr(1, 0.4, 0.1, 1), ErrDomain},
		{"nan radius", NewSchwarzschild(1, math.NaN(), 1), ErrNumericOverflow},
		{"bad variant", Params{Variant: Variant(7), Rs: 1, R: 10, Theta: 1}, ErrConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParams_Horizon(t *testing.T) {
	assert.Equal(t, 2.0, NewSchwarzschild(2, 10, 1).Horizon())
	assert.InDelta(t, 0.5, NewKerr(1, 0.5, 10, 1).Horizon(), 1e-12)
	assert.InDelta(t, (1+math.Sqrt(1-4*0.09))/2, NewKerr(1, 0.3, 10, 1).Horizon(), 1e-12)
	assert.True(t, math.IsNaN(NewKerr(1, 0.6, 10, 1).Horizon()))
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant("Kerr")
	require.NoError(t, err)
	assert.Equal(t, Kerr, v)

	v, err = ParseVariant(" schwarzschild ")
	require.NoError(t, err)
	assert.Equal(t, Schwarzschild, v)

	_, err = ParseVariant("minkowski")
	assert.ErrorIs(t, err, ErrConfiguration)

	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "minkowski", cfgErr.Value)
}

func TestVariant_TextRoundTrip(t *testing.T) {
	b, err := Kerr.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "kerr", string(b))

	var v Variant
	require.NoError(t, v.UnmarshalText([]byte("schwarzschild")))
	assert.Equal(t, Schwarzschild, v)
	assert.Error(t, v.UnmarshalText([]byte("reissner-nordstrom")))
}

func TestCoordinate_Cartesian(t *testing.T) {
	x, y, z := Coordinate{0, 2, math.Pi / 2, 0}.Cartesian()
	assert.InDelta(t, 2, x, 1e-12)
	assert.InDelta(t, 0, y, 1e-12)
	assert.InDelta(t, 0, z, 1e-12)

	x, y, z = Coordinate{0, 3, math.Pi / 2, math.Pi / 2}.Cartesian()
	assert.InDelta(t, 0, x, 1e-12)
	assert.InDelta(t, 0, y, 1e-12)
	assert.InDelta(t, 3, z, 1e-12)

	_, y, _ = Coordinate{0, 4, 1e-9, 0}.Cartesian()
	assert.InDelta(t, 4, y, 1e-9)
}

func TestCoordinate_IsFinite(t *testing.T) {
	assert.True(t, Coordinate{1, 2, 3, 4}.IsFinite())
	assert.False(t, Coordinate{1, math.Inf(1), 3, 4}.IsFinite())
	assert.False(t, FourVelocity{math.NaN(), 0, 0, 0}.IsFinite())
}
