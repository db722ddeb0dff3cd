package units

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/geodesim/internal/spacetime"
)

// ErrUnknownSymbol is wrapped by every *SymbolError.
var ErrUnknownSymbol = errors.New("units: unknown unit symbol")

// SymbolError reports a malformed unit specification.
type SymbolError struct {
	Spec   string
	Symbol string
	Reason string
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("units: %q in %q: %s", e.Symbol, e.Spec, e.Reason)
}

func (e *SymbolError) Unwrap() error { return ErrUnknownSymbol }

// Is lets a malformed unit specification match spacetime.ErrConfiguration
// like every other rejected configuration value.
func (e *SymbolError) Is(target error) bool { return target == spacetime.ErrConfiguration }

var naturalAliases = map[string]int{
	"c": 0, "G": 1, "hbar": 2, "h": 2, "eps0": 3, "e": 3, "kB": 4, "k": 4,
}

var siSymbols = map[string]int{
	"s": 0, "m": 1, "kg": 2, "A": 3, "K": 4,
}

// Unit carries a dimension in both bases. Build one with ParseSI,
// ParseNatural, FromSI or FromNatural; the vectors are never mutated.
type Unit struct {
	SI      Vector
	Natural Vector
}

func FromSI(si Vector) Unit           { return Unit{SI: si, Natural: ToNaturalBasis(si)} }
func FromNatural(natural Vector) Unit { return Unit{SI: ToSIBasis(natural), Natural: natural} }

var (
	Dimensionless   = FromSI(Vector{})
	Time            = FromSI(Vector{1, 0, 0, 0, 0})
	Length          = FromSI(Vector{0, 1, 0, 0, 0})
	Mass            = FromSI(Vector{0, 0, 1, 0, 0})
	Velocity        = FromSI(Vector{-1, 1, 0, 0, 0})
	AngularVelocity = FromSI(Vector{-1, 0, 0, 0, 0})
	AngularMomentum = FromSI(Vector{-1, 2, 1, 0, 0})
	Energy          = FromSI(Vector{-2, 2, 1, 0, 0})
	Temperature     = FromSI(Vector{0, 0, 0, 0, 1})
)

// ParseSI reads a product such as "kg m^2 s^-2" over s, m, kg, A, K.
func ParseSI(spec string) (Unit, error) {
	v, err := parse(spec, siSymbols)
	if err != nil {
		return Unit{}, err
	}
	return FromSI(v), nil
}

// ParseNatural reads a product such as "c^-1.5 G^0.5 hbar^0.5" over the
// constants. h, e and k are accepted for hbar, eps0 and kB.
func ParseNatural(spec string) (Unit, error) {
	v, err := parse(spec, naturalAliases)
	if err != nil {
		return Unit{}, err
	}
	return FromNatural(v), nil
}

func parse(spec string, symbols map[string]int) (Vector, error) {
	var v Vector
	fields := strings.FieldsFunc(spec, func(r rune) bool {
		return r == ' ' || r == '*' || r == '·' || r == '\t'
	})
	for _, f := range fields {
		if f == "1" {
			continue
		}
		sym, exp := f, 1.0
		if i := strings.IndexByte(f, '^'); i >= 0 {
			sym = f[:i]
			e, err := strconv.ParseFloat(f[i+1:], 64)
			if err != nil {
				return Vector{}, &SymbolError{Spec: spec, Symbol: f, Reason: "bad exponent"}
			}
			exp = e
		}
		idx, ok := symbols[sym]
		if !ok {
			return Vector{}, &SymbolError{Spec: spec, Symbol: sym, Reason: "not a basis symbol"}
		}
		v[idx] += exp
	}
	return v, nil
}

// ToNatural converts an SI value of this unit to natural units.
func (u Unit) ToNatural(value float64) float64 { return Convert(value, u.Natural, ToNatural) }

// ToSI converts a natural value of this unit to SI.
func (u Unit) ToSI(value float64) float64 { return Convert(value, u.Natural, ToSI) }

func (u Unit) String() string {
	return format(u.SI, SIBasis[:])
}

// NaturalString renders the natural-basis exponents.
func (u Unit) NaturalString() string {
	return format(u.Natural, NaturalBasis[:])
}

func format(v Vector, names []string) string {
	parts := make([]string, 0, len(v))
	for i, e := range v {
		switch {
		case e == 0:
		case e == 1:
			parts = append(parts, names[i])
		default:
			parts = append(parts, names[i]+"^"+strconv.FormatFloat(e, 'g', -1, 64))
		}
	}
	if len(parts) == 0 {
		return "1"
	}
	return strings.Join(parts, " ")
}
