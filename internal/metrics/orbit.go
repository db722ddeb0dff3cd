package metrics

import (
	"math"

	"github.com/san-kum/geodesim/internal/sim"
	"github.com/san-kum/geodesim/internal/spacetime"
)

// RadiusRange records the smallest and largest r seen. Value is the spread.
type RadiusRange struct {
	name     string
	min, max float64
	samples  int
}

func NewRadiusRange() *RadiusRange {
	return &RadiusRange{name: "radius_range"}
}

func (r *RadiusRange) Name() string { return r.name }

func (r *RadiusRange) Observe(b sim.Body, tau float64) {
	radius := b.X[spacetime.R]
	if r.samples == 0 {
		r.min, r.max = radius, radius
	}
	r.samples++
	r.min = math.Min(r.min, radius)
	r.max = math.Max(r.max, radius)
}

func (r *RadiusRange) Min() float64 { return r.min }
func (r *RadiusRange) Max() float64 { return r.max }

func (r *RadiusRange) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return r.max - r.min
}

func (r *RadiusRange) Reset() {
	r.min, r.max = 0, 0
	r.samples = 0
}

// Superluminal counts ticks where a static observer would measure the body
// moving faster than light. A massive geodesic never does; a nonzero count
// means the state has drifted off the mass shell.
type Superluminal struct {
	name       string
	violations int
}

func NewSuperluminal() *Superluminal {
	return &Superluminal{name: "superluminal_ticks"}
}

func (s *Superluminal) Name() string { return s.name }

func (s *Superluminal) Observe(b sim.Body, tau float64) {
	v, err := spacetime.LocalSpeed(b.U, b.Here())
	if err != nil {
		return
	}
	if v > 1 {
		s.violations++
	}
}

func (s *Superluminal) Value() float64 { return float64(s.violations) }

func (s *Superluminal) Reset() { s.violations = 0 }
