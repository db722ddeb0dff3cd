// Package analysis extracts orbital observables from recorded runs.
//
//   - [PowerSpectrum] and [DominantFrequency]: radial oscillation frequency
//   - [Periapses] and [Precession]: perihelion advance per orbit
//   - [Deviation]: growth rate of the separation between neighbouring geodesics
//   - [SpinSweep]: precession as a function of Kerr spin
//   - [Project] and [ProjectionToASCII]: the orbit seen from above the equator
//
// # Perihelion advance
//
// For a bound Schwarzschild orbit the periapsis advances by roughly
// 3π·rs/p per revolution, where p is the semi-latus rectum:
//
//	idx := analysis.Periapses(radii)
//	shift, err := analysis.Precession(analysis.PeriapsisPhases(radii, phis, idx))
package analysis
