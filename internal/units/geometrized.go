package units

// SolarMass in kilograms.
const SolarMass = 1.9891e30

func SolarMassToSI(solarMasses float64) float64 { return solarMasses * SolarMass }

// MassToGeometrized returns GM/c², the mass expressed as a length in metres.
func MassToGeometrized(kg float64) float64 {
	c := Constants[0]
	return kg * Constants[1] / (c * c)
}

func SolarMassToGeometrized(solarMasses float64) float64 {
	return MassToGeometrized(SolarMassToSI(solarMasses))
}

// VelocityToGeometrized returns v/c. It applies to angular velocities times
// distance as well.
func VelocityToGeometrized(v float64) float64 { return v / Constants[0] }

func VelocityToSI(v float64) float64 { return v * Constants[0] }
