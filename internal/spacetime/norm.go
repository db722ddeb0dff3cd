package spacetime

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// NormSquared is g_ab v^a v^b, including the Kerr off-diagonal term.
func NormSquared(v FourVelocity, g MetricTensor) float64 {
	x := mat.NewVecDense(4, v[:])
	return mat.Inner(x, g.Dense(), x)
}

// Norm is sqrt(NormSquared). A negative square is a DomainError: the vector is
// spacelike under (+,-,-,-).
func Norm(v FourVelocity, g MetricTensor) (float64, error) {
	n2 := NormSquared(v, g)
	if math.IsNaN(n2) || math.IsInf(n2, 0) {
		return n2, ErrNumericOverflow
	}
	if n2 < 0 {
		return 0, domainErr("norm", "negative squared norm (spacelike vector)", n2)
	}
	return math.Sqrt(n2), nil
}

// LocalSpeed is the 3-speed of u measured by a static observer at p, in units
// of c. It exceeds 1 only once u has drifted to a spacelike vector. Inside the
// Kerr ergoregion no static observer exists and a DomainError is returned.
func LocalSpeed(u FourVelocity, p Params) (float64, error) {
	g := Metric(p)
	if g[T][T] <= 0 {
		return 0, domainErr("local speed", "no static observer (g_tt <= 0)", g[T][T])
	}
	gamma := (g[T][T]*u[T] + g[T][Phi]*u[Phi]) / math.Sqrt(g[T][T])
	if gamma == 0 {
		return math.Inf(1), nil
	}
	// Spatial part in the static frame, summed directly so that small speeds
	// do not cancel against g(U,U).
	spatial := 0.0
	for i := R; i <= Phi; i++ {
		for j := R; j <= Phi; j++ {
			h := g[i][j] - g[T][i]*g[T][j]/g[T][T]
			spatial -= h * u[i] * u[j]
		}
	}
	if spatial < 0 {
		spatial = 0
	}
	return math.Sqrt(spatial) / math.Abs(gamma), nil
}
