// Package units converts physical quantities between SI and natural units in
// which c, G, ħ, ε₀ and k_B are all 1.
//
// A quantity's dimension is an exponent vector either over the SI base units
// (s, m, kg, A, K) or over the constants (c, G, ħ, ε₀, k_B). The two bases are
// related by the fixed matrices SIToNatural and NaturalToSI.
package units

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Vector is a 5-component exponent vector.
type Vector [5]float64

// SI base units, in Vector order.
var SIBasis = [5]string{"s", "m", "kg", "A", "K"}

// Natural basis constants, in Vector order.
var NaturalBasis = [5]string{"c", "G", "hbar", "eps0", "kB"}

// Constants holds the SI magnitudes of c, G, ħ, ε₀, k_B (CODATA 2018).
var Constants = [5]float64{
	299792458,
	6.67430e-11,
	1.054571817e-34,
	8.8541878128e-12,
	1.380649e-23,
}

// SIToNatural maps SI exponents to constant exponents: natural = SIToNatural · si.
var SIToNatural = [5][5]float64{
	{-2.5, -1.5, 0.5, 3, 2.5},
	{0.5, 0.5, -0.5, -0.5, -0.5},
	{0.5, 0.5, 0.5, 0, 0.5},
	{0, 0, 0, 0.5, 0},
	{0, 0, 0, 0, -1},
}

// NaturalToSI is the inverse of SIToNatural. Column j is the SI dimension of
// constant j, e.g. G = m³ kg⁻¹ s⁻².
var NaturalToSI = [5][5]float64{
	{-1, -2, -1, 4, -2},
	{1, 3, 2, -3, 2},
	{0, -1, 1, -1, 1},
	{0, 0, 0, 2, 0},
	{0, 0, 0, 0, -1},
}

func dense(m [5][5]float64) *mat.Dense {
	data := make([]float64, 0, 25)
	for i := range m {
		data = append(data, m[i][:]...)
	}
	return mat.NewDense(5, 5, data)
}

func transform(m [5][5]float64, v Vector) Vector {
	var out mat.VecDense
	out.MulVec(dense(m), mat.NewVecDense(5, v[:]))

	var res Vector
	for i := range res {
		res[i] = out.AtVec(i)
	}
	return res
}

// ToNaturalBasis re-expresses SI exponents over the constants.
func ToNaturalBasis(si Vector) Vector { return transform(SIToNatural, si) }

// ToSIBasis re-expresses constant exponents over the SI base units.
func ToSIBasis(natural Vector) Vector { return transform(NaturalToSI, natural) }

// Direction of a value conversion.
type Direction int

const (
	ToNatural Direction = iota
	ToSI
)

func (d Direction) String() string {
	switch d {
	case ToNatural:
		return "si->natural"
	case ToSI:
		return "natural->si"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Scale is the SI magnitude of one natural unit of the given dimension,
// Π Constants[i]^natural[i].
func Scale(natural Vector) float64 {
	f := 1.0
	for i, e := range natural {
		if e != 0 {
			f *= math.Pow(Constants[i], e)
		}
	}
	return f
}

// Convert rescales value between SI and natural units for a quantity whose
// dimension is natural (exponents over the constants).
func Convert(value float64, natural Vector, dir Direction) float64 {
	switch dir {
	case ToNatural:
		return value / Scale(natural)
	case ToSI:
		return value * Scale(natural)
	default:
		panic(fmt.Sprintf("units: unknown direction %v", dir))
	}
}
