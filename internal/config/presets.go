package config

import (
	"math"
	"sort"
)

const equator = math.Pi / 2

// Presets are keyed by name. Natural-unit presets use rs = 1.
var Presets = map[string]*Config{
	"circular": {
		Metric: "schwarzschild", Units: UnitsNatural, Mass: 0.5,
		Initial:  InitialConfig{R: 10, Theta: equator, Uphi: 0.024254},
		StepSize: 0.001, SubSteps: 10, Ticks: 30000, Policy: "frozen", TargetNorm: 1,
	},
	"precessing": {
		Metric: "schwarzschild", Units: UnitsNatural, Mass: 0.5,
		Initial:  InitialConfig{R: 40, Theta: equator, Uphi: 0.002282},
		StepSize: 0.002, SubSteps: 5, Ticks: 320000, Policy: "frozen", TargetNorm: 1,
	},
	"plunge": {
		Metric: "schwarzschild", Units: UnitsNatural, Mass: 0.5,
		Initial:  InitialConfig{R: 6, Theta: equator, Uphi: 0.01},
		StepSize: 0.001, SubSteps: 10, Ticks: 20000, Policy: "frozen", TargetNorm: 1,
	},
	"kerr_prograde": {
		Metric: "kerr", Units: UnitsNatural, Mass: 0.5, Spin: 0.2,
		Initial:  InitialConfig{R: 10, Theta: equator, Uphi: 0.024},
		StepSize: 0.001, SubSteps: 10, Ticks: 30000, Policy: "frozen", TargetNorm: 1,
	},
	"kerr_retrograde": {
		Metric: "kerr", Units: UnitsNatural, Mass: 0.5, Spin: -0.2,
		Initial:  InitialConfig{R: 10, Theta: equator, Uphi: 0.024},
		StepSize: 0.001, SubSteps: 10, Ticks: 30000, Policy: "frozen", TargetNorm: 1,
	},
	"kerr_polar": {
		Metric: "kerr", Units: UnitsNatural, Mass: 0.5, Spin: 0.2,
		Initial:  InitialConfig{R: 12, Theta: 1.2, Utheta: 0.01, Uphi: 0.012},
		StepSize: 0.001, SubSteps: 10, Ticks: 40000, Policy: "per-substep", TargetNorm: 1,
	},
	"mercury": {
		Metric: "schwarzschild", Units: UnitsSI, Mass: 1.9891e30,
		Initial:  InitialConfig{R: 6.9817e10, Theta: equator, Uphi: 5.5659e-7},
		StepSize: 600, SubSteps: 6, Ticks: 2200, Policy: "frozen", TargetNorm: 1,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
