package analysis

import (
	"fmt"
	"math"
)

// Periapses returns the indices of local minima of r: below the previous
// sample and not above the next, so a flat bottom is reported at its first
// point.
func Periapses(r []float64) []int {
	idx := make([]int, 0)
	for i := 1; i+1 < len(r); i++ {
		if r[i] < r[i-1] && r[i] <= r[i+1] {
			idx = append(idx, i)
		}
	}
	return idx
}

// Apoapses returns the indices of local maxima of r, with plateaus reported
// at their first point as in Periapses.
func Apoapses(r []float64) []int {
	idx := make([]int, 0)
	for i := 1; i+1 < len(r); i++ {
		if r[i] > r[i-1] && r[i] >= r[i+1] {
			idx = append(idx, i)
		}
	}
	return idx
}

// PeriapsisPhases refines each periapsis index with a parabola through its
// neighbours and returns the interpolated azimuth there.
func PeriapsisPhases(r, phi []float64, idx []int) []float64 {
	phases := make([]float64, 0, len(idx))
	for _, i := range idx {
		if i < 1 || i+1 >= len(r) || i+1 >= len(phi) {
			continue
		}
		curv := r[i-1] - 2*r[i] + r[i+1]
		offset := 0.0
		if curv != 0 {
			offset = (r[i-1] - r[i+1]) / (2 * curv)
		}
		slope := (phi[i+1] - phi[i-1]) / 2
		phases = append(phases, phi[i]+offset*slope)
	}
	return phases
}

// Precession is the mean advance of the periapsis per revolution, in radians,
// from the unwrapped azimuths of successive periapses.
func Precession(phases []float64) (float64, error) {
	if len(phases) < 2 {
		return 0, fmt.Errorf("%w: need two periapses, have %d", ErrTooFewSamples, len(phases))
	}
	sum := 0.0
	for i := 1; i < len(phases); i++ {
		sum += phases[i] - phases[i-1] - 2*math.Pi
	}
	return sum / float64(len(phases)-1), nil
}

// SemiLatusRectum is 2·ra·rp/(ra+rp) for the given apsides.
func SemiLatusRectum(rp, ra float64) float64 {
	return 2 * ra * rp / (ra + rp)
}

// Eccentricity is (ra−rp)/(ra+rp).
func Eccentricity(rp, ra float64) float64 {
	return (ra - rp) / (ra + rp)
}
