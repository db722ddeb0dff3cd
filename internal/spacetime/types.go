package spacetime

import (
	"fmt"
	"math"
	"strings"
)

// Index positions shared by every four-component quantity.
const (
	T = iota
	R
	Theta
	Phi
)

// Coordinate is a spacetime position (t, r, θ, φ). θ is measured from the +z axis.
type Coordinate [4]float64

// FourVelocity is dx^a/dτ for the same index order as Coordinate.
type FourVelocity [4]float64

func (x Coordinate) IsFinite() bool   { return allFinite(x[:]) }
func (u FourVelocity) IsFinite() bool { return allFinite(u[:]) }

// Cartesian maps (r, θ, φ) to the y-up rendering frame:
// x = r sinθ cosφ, y = r cosθ, z = r sinθ sinφ.
func (x Coordinate) Cartesian() (float64, float64, float64) {
	r, th, ph := x[R], x[Theta], x[Phi]
	st, ct := math.Sincos(th)
	sp, cp := math.Sincos(ph)
	return r * st * cp, r * ct, r * st * sp
}

func allFinite(v []float64) bool {
	for _, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// MetricTensor holds g_ab. It is symmetric.
type MetricTensor [4][4]float64

// Connection holds Γ^a_bc at [a][b][c].
type Connection [4][4][4]float64

// Variant selects the spacetime geometry.
type Variant int

const (
	Schwarzschild Variant = iota
	Kerr
)

var variantNames = map[Variant]string{
	Schwarzschild: "schwarzschild",
	Kerr:          "kerr",
}

func (v Variant) String() string {
	if name, ok := variantNames[v]; ok {
		return name
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// ParseVariant accepts the lower-case variant names.
func ParseVariant(s string) (Variant, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for v, name := range variantNames {
		if name == key {
			return v, nil
		}
	}
	return 0, &ConfigurationError{Field: "metric", Value: s, Reason: "want schwarzschild or kerr"}
}

func (v Variant) MarshalText() ([]byte, error) {
	if _, ok := variantNames[v]; !ok {
		return nil, &ConfigurationError{Field: "metric", Value: v.String(), Reason: "unsupported variant"}
	}
	return []byte(v.String()), nil
}

func (v *Variant) UnmarshalText(b []byte) error {
	parsed, err := ParseVariant(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Params is everything the geometry needs at one point. Rs and A are derived
// from the central mass and spin by the caller; R and Theta change every tick.
type Params struct {
	Variant Variant
	Rs      float64
	A       float64 // Kerr spin a = J/M, ignored for Schwarzschild
	R       float64
	Theta   float64
}

func NewSchwarzschild(rs, r, theta float64) Params {
	return Params{Variant: Schwarzschild, Rs: rs, R: r, Theta: theta}
}

func NewKerr(rs, a, r, theta float64) Params {
	return Params{Variant: Kerr, Rs: rs, A: a, R: r, Theta: theta}
}

// At returns a copy of p evaluated at the spatial point of x.
func (p Params) At(x Coordinate) Params {
	p.R = x[R]
	p.Theta = x[Theta]
	return p
}

// Sigma is r² + (a cosθ)². It equals r² for Schwarzschild.
func (p Params) Sigma() float64 {
	if p.Variant != Kerr {
		return p.R * p.R
	}
	ac := p.A * math.Cos(p.Theta)
	return p.R*p.R + ac*ac
}

// Delta is r² − rs·r + a². It equals r(r − rs) for Schwarzschild.
func (p Params) Delta() float64 {
	a := 0.0
	if p.Variant == Kerr {
		a = p.A
	}
	return p.R*p.R - p.Rs*p.R + a*a
}

// Horizon is the outer event-horizon radius. It is NaN when |a| > rs/2, where
// there is no horizon.
func (p Params) Horizon() float64 {
	if p.Variant != Kerr {
		return p.Rs
	}
	disc := p.Rs*p.Rs - 4*p.A*p.A
	if disc < 0 {
		return math.NaN()
	}
	return (p.Rs + math.Sqrt(disc)) / 2
}

// Validate reports the first reason p lies outside the region where the metric
// and connection are defined.
func (p Params) Validate() error {
	const op = "validate"
	for _, f := range []float64{p.Rs, p.A, p.R, p.Theta} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return ErrNumericOverflow
		}
	}
	if _, ok := variantNames[p.Variant]; !ok {
		return &ConfigurationError{Field: "metric", Value: p.Variant.String(), Reason: "unsupported variant"}
	}
	if p.Rs < 0 {
		return domainErr(op, "schwarzschild radius must be non-negative", p.Rs)
	}
	if p.R <= 0 {
		return domainErr(op, "r must be positive", p.R)
	}
	if p.Theta <= 0 || p.Theta >= math.Pi {
		return domainErr(op, "theta must lie strictly between 0 and pi", p.Theta)
	}

	switch p.Variant {
	case Schwarzschild:
		if p.R <= p.Rs {
			return domainErr(op, "r at or inside the event horizon", p.R)
		}
	case Kerr:
		if p.Sigma() == 0 {
			return domainErr(op, "sigma vanishes (ring singularity)", p.R)
		}
		if p.Delta() <= 0 {
			return domainErr(op, "delta non-positive (between or on horizons)", p.Delta())
		}
		if h := p.Horizon(); !math.IsNaN(h) && p.R <= h {
			return domainErr(op, "r inside the outer event horizon", p.R)
		}
	}
	return nil
}
