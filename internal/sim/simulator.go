package sim

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/geodesim/internal/spacetime"
)

type Simulator struct {
	integrator Integrator
	metrics    []Metric
	observers  []Observer
	logger     *slog.Logger
}

func New(integrator Integrator) *Simulator {
	return &Simulator{
		integrator: integrator,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
		logger:     slog.Default(),
	}
}

func (s *Simulator) AddMetric(m Metric)            { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)        { s.observers = append(s.observers, o) }
func (s *Simulator) SetLogger(logger *slog.Logger) { s.logger = logger }

// Run integrates body for cfg.Ticks ticks. Metrics and observers see every
// state stored in the Result, from the initial one to the last. A horizon or axis crossing, or a
// non-finite state, ends the run early: the reason is appended to
// Result.Errors and Halted is set, but Run itself does not fail.
func (s *Simulator) Run(ctx context.Context, body Body, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if err := body.Here().Validate(); err != nil {
		return nil, fmt.Errorf("initial state: %w", err)
	}

	result := &Result{
		States:     make([]spacetime.Coordinate, 0, cfg.Ticks+1),
		Velocities: make([]spacetime.FourVelocity, 0, cfg.Ticks+1),
		Taus:       make([]float64, 0, cfg.Ticks+1),
		Norms:      make([]float64, 0, cfg.Ticks+1),
		Metrics:    make(map[string]float64),
		Errors:     make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	tau := 0.0
	dtau := cfg.TickSize()
	result.record(body, tau)
	s.observe(body, tau)

	s.logger.Debug("run starting",
		"variant", body.Params.Variant,
		"rs", body.Params.Rs,
		"r", body.X[spacetime.R],
		"ticks", cfg.Ticks,
		"step", cfg.StepSize,
		"substeps", cfg.SubSteps)

	for i := 0; i < cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		next, err := Advance(s.integrator, body, cfg)
		if err != nil {
			simErr := SimError{Tick: i, Tau: tau + dtau, Err: err}
			result.Errors = append(result.Errors, simErr)
			result.Halted = true
			s.logger.Warn("run halted", "tick", i, "tau", tau+dtau, "reason", err)
			break
		}

		body = next
		tau += dtau
		result.StepsTaken++
		result.record(body, tau)
		s.observe(body, tau)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Debug("run finished", "steps", result.StepsTaken, "halted", result.Halted)
	return result, nil
}

// observe feeds every recorded state, the initial one included, to the
// metrics and observers.
func (s *Simulator) observe(b Body, tau float64) {
	for _, m := range s.metrics {
		m.Observe(b, tau)
	}
	for _, obs := range s.observers {
		obs.OnStep(b, tau)
	}
}

func (r *Result) record(b Body, tau float64) {
	r.States = append(r.States, b.X)
	r.Velocities = append(r.Velocities, b.U)
	r.Taus = append(r.Taus, tau)
	r.Norms = append(r.Norms, b.NormSquared())
}

// Advance performs one tick of cfg on body. When the new state is non-finite,
// or fails validation with cfg.ValidateState set, it returns the reason and
// body is to be kept as the last good state.
func Advance(integ Integrator, body Body, cfg Config) (Body, error) {
	x, u := integ.Step(body.Params, body.X, body.U, cfg.StepSize, cfg.SubSteps)
	next := Body{Params: body.Params, X: x, U: u}
	if err := checkState(next, cfg); err != nil {
		return body, err
	}
	return next, nil
}

func checkState(b Body, cfg Config) error {
	if !b.X.IsFinite() || !b.U.IsFinite() {
		return spacetime.ErrNumericOverflow
	}
	if cfg.ValidateState {
		return b.Here().Validate()
	}
	return nil
}

func validateConfig(cfg Config) error {
	if cfg.StepSize <= 0 {
		return fmt.Errorf("step size must be positive, got %f", cfg.StepSize)
	}
	if cfg.SubSteps <= 0 {
		return fmt.Errorf("sub-steps must be positive, got %d", cfg.SubSteps)
	}
	if cfg.Ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", cfg.Ticks)
	}
	return nil
}

// RunWithCallback drives body one tick at a time until callback returns
// false, the context ends, or the state leaves the domain. It is the loop a
// playback layer uses; cfg.Ticks is ignored.
func (s *Simulator) RunWithCallback(ctx context.Context, body Body, cfg Config, callback func(Body, float64) bool) error {
	cfg.Ticks = 1
	if err := validateConfig(cfg); err != nil {
		return err
	}

	tau := 0.0
	for tick := 0; ; tick++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(body, tau) {
			return nil
		}

		for _, obs := range s.observers {
			obs.OnStep(body, tau)
		}

		next, err := Advance(s.integrator, body, cfg)
		tau += cfg.TickSize()
		if err != nil {
			return SimError{Tick: tick, Tau: tau, Err: err}
		}
		body = next
	}
}
