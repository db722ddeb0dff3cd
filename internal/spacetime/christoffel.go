package spacetime

import (
	"fmt"
	"math"
)

// Christoffel returns Γ^a_bc at p. Each variant fills the b ≤ c half and
// Symmetrize mirrors it.
func Christoffel(p Params) Connection {
	var c Connection
	switch p.Variant {
	case Schwarzschild:
		c = schwarzschildChristoffel(p)
	case Kerr:
		c = kerrChristoffel(p)
	default:
		panic(fmt.Sprintf("spacetime: unsupported variant %v", p.Variant))
	}
	c.Symmetrize()
	return c
}

// Symmetrize copies every Γ^a_bc with b < c onto Γ^a_cb.
func (c *Connection) Symmetrize() {
	for a := 0; a < 4; a++ {
		for b := 0; b < 4; b++ {
			for d := b + 1; d < 4; d++ {
				c[a][d][b] = c[a][b][d]
			}
		}
	}
}

// Contract returns Σ_bc Γ^a_bc u^b u^c for each a.
func (c *Connection) Contract(u FourVelocity) [4]float64 {
	var out [4]float64
	for a := 0; a < 4; a++ {
		sum := 0.0
		for b := 0; b < 4; b++ {
			for d := 0; d < 4; d++ {
				sum += c[a][b][d] * u[b] * u[d]
			}
		}
		out[a] = sum
	}
	return out
}

func schwarzschildChristoffel(p Params) Connection {
	var c Connection
	r, rs := p.R, p.Rs
	sin, cos := math.Sincos(p.Theta)
	rMinusRs := r - rs

	c[T][T][R] = rs / (2 * r * rMinusRs)
	c[R][T][T] = rs * rMinusRs / (2 * r * r * r)
	c[R][R][R] = -c[T][T][R]
	c[R][Theta][Theta] = -rMinusRs
	c[R][Phi][Phi] = -rMinusRs * sin * sin
	c[Theta][R][Theta] = 1 / r
	c[Theta][Phi][Phi] = -sin * cos
	c[Phi][R][Phi] = 1 / r
	c[Phi][Theta][Phi] = cos / sin
	return c
}

// kerrChristoffel uses the Boyer-Lindquist connection with M = rs/2.
func kerrChristoffel(p Params) Connection {
	var c Connection
	r, a := p.R, p.A
	m := p.Rs / 2
	sin, cos := math.Sincos(p.Theta)
	sin2, cos2 := sin*sin, cos*cos
	cot := cos / sin

	r2, a2 := r*r, a*a
	sigma := p.Sigma()
	delta := p.Delta()
	sigma2 := sigma * sigma
	sigma3 := sigma2 * sigma
	q := r2 - a2*cos2
	big := (r2+a2)*(r2+a2) - a2*delta*sin2

	c[T][T][R] = m * (r2 + a2) * q / (sigma2 * delta)
	c[T][T][Theta] = -2 * m * r * a2 * sin * cos / sigma2
	c[T][R][Phi] = m * a * sin2 * (a2*cos2*(a2-r2) - r2*(a2+3*r2)) / (sigma2 * delta)
	c[T][Theta][Phi] = 2 * m * r * a2 * a * sin2 * sin * cos / sigma2

	c[R][T][T] = m * delta * q / sigma3
	c[R][T][Phi] = -m * delta * a * sin2 * q / sigma3
	c[R][R][R] = (r*a2*sin2 - m*q) / (sigma * delta)
	c[R][R][Theta] = -a2 * sin * cos / sigma
	c[R][Theta][Theta] = -r * delta / sigma
	c[R][Phi][Phi] = delta * sin2 * (-r*sigma2 + m*a2*sin2*q) / sigma3

	c[Theta][T][T] = -2 * m * r * a2 * sin * cos / sigma3
	c[Theta][T][Phi] = 2 * m * r * a * (r2 + a2) * sin * cos / sigma3
	c[Theta][R][R] = a2 * sin * cos / (sigma * delta)
	c[Theta][R][Theta] = r / sigma
	c[Theta][Theta][Theta] = -a2 * sin * cos / sigma
	c[Theta][Phi][Phi] = -sin * cos * (big*sigma + 2*m*r*a2*sin2*(r2+a2)) / sigma3

	c[Phi][T][R] = m * a * q / (sigma2 * delta)
	c[Phi][T][Theta] = -2 * m * r * a * cot / sigma2
	c[Phi][R][Phi] = (r*sigma2 - 2*m*r2*sigma - m*a2*sin2*q) / (sigma2 * delta)
	c[Phi][Theta][Phi] = cot * (sigma2 + 2*m*r*a2*sin2) / sigma2
	return c
}
