package config

import (
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/geodesim/internal/integrators"
	"github.com/san-kum/geodesim/internal/sim"
	"github.com/san-kum/geodesim/internal/spacetime"
	"github.com/san-kum/geodesim/internal/units"
)

const (
	DefaultMetric     = "schwarzschild"
	DefaultUnits      = "natural"
	DefaultMass       = 0.5
	DefaultR          = 10.0
	DefaultStepSize   = 0.01
	DefaultSubSteps   = 10
	DefaultTicks      = 10000
	DefaultPolicy     = "frozen"
	DefaultTargetNorm = 1.0
)

// Unit systems accepted in the units field. Natural values are taken as
// given with c = G = ħ = 1; SI values are converted on Build.
const (
	UnitsNatural = "natural"
	UnitsSI      = "si"
)

type Config struct {
	Metric     string        `yaml:"metric"`
	Units      string        `yaml:"units"`
	Mass       float64       `yaml:"mass"`
	Spin       float64       `yaml:"spin"`
	Initial    InitialConfig `yaml:"initial"`
	StepSize   float64       `yaml:"step_size"`
	SubSteps   int           `yaml:"sub_steps"`
	Ticks      int           `yaml:"ticks"`
	Policy     string        `yaml:"policy"`
	TargetNorm float64       `yaml:"target_norm"`
}

// InitialConfig is the starting position and the spatial four-velocity.
// U^t is solved from the mass-shell condition.
type InitialConfig struct {
	R      float64 `yaml:"r"`
	Theta  float64 `yaml:"theta"`
	Phi    float64 `yaml:"phi"`
	Ur     float64 `yaml:"ur"`
	Utheta float64 `yaml:"utheta"`
	Uphi   float64 `yaml:"uphi"`
}

func DefaultConfig() *Config {
	return &Config{
		Metric: DefaultMetric,
		Units:  DefaultUnits,
		Mass:   DefaultMass,
		Initial: InitialConfig{
			R:     DefaultR,
			Theta: math.Pi / 2,
		},
		StepSize:   DefaultStepSize,
		SubSteps:   DefaultSubSteps,
		Ticks:      DefaultTicks,
		Policy:     DefaultPolicy,
		TargetNorm: DefaultTargetNorm,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func (c *Config) unitSystem() (string, error) {
	switch u := strings.ToLower(strings.TrimSpace(c.Units)); u {
	case "", UnitsNatural:
		return UnitsNatural, nil
	case UnitsSI:
		return UnitsSI, nil
	default:
		return "", &spacetime.ConfigurationError{Field: "units", Value: c.Units, Reason: "want si or natural"}
	}
}

// toNatural converts a configured value of unit u into natural units.
func (c *Config) toNatural(u units.Unit, v float64) float64 {
	if sys, _ := c.unitSystem(); sys == UnitsSI {
		return u.ToNatural(v)
	}
	return v
}

// FromNatural converts a natural-unit result back into the configured
// unit system, for display.
func (c *Config) FromNatural(u units.Unit, v float64) float64 {
	if sys, _ := c.unitSystem(); sys == UnitsSI {
		return u.ToSI(v)
	}
	return v
}

// Integrator returns the stepper selected by the policy field.
func (c *Config) Integrator() (*integrators.Euler, error) {
	policy, err := integrators.ParsePolicy(c.Policy)
	if err != nil {
		return nil, err
	}
	return integrators.NewEuler(policy), nil
}

// Build converts the configuration to natural units, checks it, and returns
// the initial body with U^t on the future-directed root.
func (c *Config) Build() (sim.Body, sim.Config, error) {
	if _, err := integrators.ParsePolicy(c.Policy); err != nil {
		return sim.Body{}, sim.Config{}, err
	}
	if c.StepSize <= 0 {
		return sim.Body{}, sim.Config{}, configErr("step_size", c.StepSize, "must be positive")
	}
	if c.SubSteps <= 0 {
		return sim.Body{}, sim.Config{}, configErr("sub_steps", c.SubSteps, "must be positive")
	}
	if c.Ticks <= 0 {
		return sim.Body{}, sim.Config{}, configErr("ticks", c.Ticks, "must be positive")
	}

	params, x, err := c.Spacetime()
	if err != nil {
		return sim.Body{}, sim.Config{}, err
	}
	u, err := spacetime.Assemble(c.SpatialVelocity(), params.At(x), c.TargetNorm)
	if err != nil {
		return sim.Body{}, sim.Config{}, fmt.Errorf("initial velocity: %w", err)
	}

	run := sim.Config{
		StepSize:      c.toNatural(units.Time, c.StepSize),
		SubSteps:      c.SubSteps,
		Ticks:         c.Ticks,
		ValidateState: true,
	}
	return sim.Body{Params: params, X: x, U: u}, run, nil
}

// Spacetime returns the geometry and the initial position in natural units.
// The position is checked against the domain of the metric.
func (c *Config) Spacetime() (spacetime.Params, spacetime.Coordinate, error) {
	var params spacetime.Params
	var x spacetime.Coordinate
	if _, err := c.unitSystem(); err != nil {
		return params, x, err
	}
	variant, err := spacetime.ParseVariant(c.Metric)
	if err != nil {
		return params, x, err
	}
	if c.Mass < 0 || math.IsNaN(c.Mass) {
		return params, x, configErr("mass", c.Mass, "must be non-negative")
	}

	mass := c.toNatural(units.Mass, c.Mass)
	rs := 2 * mass

	switch variant {
	case spacetime.Kerr:
		a := 0.0
		if c.Spin != 0 {
			if mass == 0 {
				return params, x, configErr("spin", c.Spin, "needs a non-zero mass")
			}
			a = c.toNatural(units.AngularMomentum, c.Spin) / mass
		}
		params = spacetime.NewKerr(rs, a, 0, 0)
	default:
		if c.Spin != 0 {
			return params, x, configErr("spin", c.Spin, "only the kerr metric has spin")
		}
		params = spacetime.NewSchwarzschild(rs, 0, 0)
	}

	x = spacetime.Coordinate{
		0,
		c.toNatural(units.Length, c.Initial.R),
		c.Initial.Theta,
		c.Initial.Phi,
	}
	if err := params.At(x).Validate(); err != nil {
		return params, x, fmt.Errorf("initial position: %w", err)
	}
	return params, x, nil
}

// SpatialVelocity returns (U^r, U^θ, U^φ) in natural units.
func (c *Config) SpatialVelocity() [3]float64 {
	return [3]float64{
		c.toNatural(units.Velocity, c.Initial.Ur),
		c.toNatural(units.AngularVelocity, c.Initial.Utheta),
		c.toNatural(units.AngularVelocity, c.Initial.Uphi),
	}
}

func configErr(field string, value any, reason string) error {
	return &spacetime.ConfigurationError{Field: field, Value: fmt.Sprint(value), Reason: reason}
}
