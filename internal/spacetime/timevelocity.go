package spacetime

import "math"

// SolveTimeVelocity returns both roots U^t of
//
//	g_tt (U^t)² + 2K U^t + S − target = 0
//
// where S = g_ij U^i U^j over the spatial components and K = g_ti U^i.
// Choosing the physical root is left to the caller; see FutureRoot.
func SolveTimeVelocity(spatial [3]float64, p Params, target float64) (float64, float64, error) {
	const op = "solve time velocity"
	g := Metric(p)

	s := 0.0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			s += g[i+1][j+1] * spatial[i] * spatial[j]
		}
	}
	k := 0.0
	for i := 0; i < 3; i++ {
		k += g[T][i+1] * spatial[i]
	}

	gtt := g[T][T]
	if gtt == 0 {
		return 0, 0, domainErr(op, "g_tt vanishes (ergosurface)", gtt)
	}
	disc := k*k - gtt*(s-target)
	if math.IsNaN(disc) || math.IsInf(disc, 0) {
		return 0, 0, ErrNumericOverflow
	}
	if disc < 0 {
		return 0, 0, domainErr(op, "negative discriminant (spatial velocity is superluminal)", disc)
	}

	sq := math.Sqrt(disc)
	return (-k + sq) / gtt, (-k - sq) / gtt, nil
}

// FutureRoot picks the future-directed solution: the larger root, which must
// be positive.
func FutureRoot(r1, r2 float64) (float64, error) {
	u := math.Max(r1, r2)
	if u <= 0 {
		return 0, domainErr("future root", "no future-directed root", u)
	}
	return u, nil
}

// Assemble completes spatial components into a four-velocity of squared norm
// target, using SolveTimeVelocity and FutureRoot.
func Assemble(spatial [3]float64, p Params, target float64) (FourVelocity, error) {
	r1, r2, err := SolveTimeVelocity(spatial, p, target)
	if err != nil {
		return FourVelocity{}, err
	}
	ut, err := FutureRoot(r1, r2)
	if err != nil {
		return FourVelocity{}, err
	}
	return FourVelocity{ut, spatial[0], spatial[1], spatial[2]}, nil
}
