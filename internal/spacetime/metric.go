package spacetime

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Descriptor is the human-facing description of a variant.
type Descriptor struct {
	Description string
	Coordinates [4]string
}

var descriptors = map[Variant]Descriptor{
	Schwarzschild: {
		Description: "space near an uncharged, non-rotating mass",
		Coordinates: [4]string{"t", "r", "theta", "phi"},
	},
	Kerr: {
		Description: "space near an uncharged, rotating mass (Boyer-Lindquist coordinates)",
		Coordinates: [4]string{"t", "r", "theta", "phi"},
	},
}

func Describe(v Variant) Descriptor { return descriptors[v] }

// Metric returns g_ab at p. It panics on a Variant outside the closed set,
// which ParseVariant and Validate reject at the boundary.
func Metric(p Params) MetricTensor {
	switch p.Variant {
	case Schwarzschild:
		return schwarzschildMetric(p)
	case Kerr:
		return kerrMetric(p)
	default:
		panic(fmt.Sprintf("spacetime: unsupported variant %v", p.Variant))
	}
}

func schwarzschildMetric(p Params) MetricTensor {
	var g MetricTensor
	f := 1 - p.Rs/p.R
	rsin := p.R * math.Sin(p.Theta)

	g[T][T] = f
	g[R][R] = -1 / f
	g[Theta][Theta] = -p.R * p.R
	g[Phi][Phi] = -rsin * rsin
	return g
}

func kerrMetric(p Params) MetricTensor {
	var g MetricTensor
	r, a := p.R, p.A
	sigma := p.Sigma()
	delta := p.Delta()
	sin2 := math.Pow(math.Sin(p.Theta), 2)

	g[T][T] = 1 - p.Rs*r/sigma
	g[R][R] = -sigma / delta
	g[Theta][Theta] = -sigma
	g[Phi][Phi] = -(r*r + a*a + p.Rs*r*a*a*sin2/sigma) * sin2
	g[T][Phi] = p.Rs * r * a * sin2 / sigma
	g[Phi][T] = g[T][Phi]
	return g
}

// Dense copies g into a gonum matrix.
func (g MetricTensor) Dense() *mat.Dense {
	data := make([]float64, 0, 16)
	for a := range g {
		data = append(data, g[a][:]...)
	}
	return mat.NewDense(4, 4, data)
}

func (g MetricTensor) IsSymmetric() bool {
	for a := 0; a < 4; a++ {
		for b := a + 1; b < 4; b++ {
			if g[a][b] != g[b][a] {
				return false
			}
		}
	}
	return true
}
