// Package spacetime provides the curved-spacetime geometry used by the orbit engine.
//
// The package evaluates, at a single point (t, r, θ, φ):
//
//   - [Metric]: the metric tensor g_ab for a [Variant]
//   - [Christoffel]: the connection coefficients Γ^a_bc
//   - [NormSquared] and [Norm]: the Lorentzian size of a four-vector
//   - [SolveTimeVelocity]: the U^t component that makes a four-velocity unit-norm
//
// All functions are pure. Nothing is cached between calls since r and θ change
// on every tick.
//
// # Conventions
//
// Signature is (+,-,-,-) for both variants, so a massive particle has
// normSquared = +1. Indices are ordered t=0, r=1, θ=2, φ=3. Units are natural
// (c = G = 1); the Schwarzschild radius rs is 2M.
//
// # Domain
//
// Metric and Christoffel do not validate their input. Call [Params.Validate]
// at the boundary: near the horizon or the polar axis they return very large
// or non-finite values instead of errors.
package spacetime
