package sim_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/geodesim/internal/integrators"
	"github.com/san-kum/geodesim/internal/metrics"
	"github.com/san-kum/geodesim/internal/sim"
	"github.com/san-kum/geodesim/internal/spacetime"
)

func circular(rs, r float64) sim.Body {
	p := spacetime.NewSchwarzschild(rs, r, math.Pi/2)
	omega := math.Sqrt(rs / (2 * r * r * r))
	ut := 1 / math.Sqrt(1-3*rs/(2*r))
	return sim.Body{
		Params: p,
		X:      spacetime.Coordinate{0, r, math.Pi / 2, 0},
		U:      spacetime.FourVelocity{ut, 0, 0, omega * ut},
	}
}

func radialDrop(rs, r float64) sim.Body {
	p := spacetime.NewSchwarzschild(rs, r, math.Pi/2)
	ut := 1 / math.Sqrt(1-rs/r)
	return sim.Body{
		Params: p,
		X:      spacetime.Coordinate{0, r, math.Pi / 2, 0},
		U:      spacetime.FourVelocity{ut, 0, 0, 0},
	}
}

type countingMetric struct{ n int }

func (m *countingMetric) Name() string                  { return "count" }
func (m *countingMetric) Observe(_ sim.Body, _ float64) { m.n++ }
func (m *countingMetric) Value() float64                { return float64(m.n) }
func (m *countingMetric) Reset()                        { m.n = 0 }

// blowUp is an integrator that goes non-finite after a fixed number of steps.
type blowUp struct{ after, calls int }

func (b *blowUp) Step(_ spacetime.Params, x spacetime.Coordinate, u spacetime.FourVelocity, _ float64, _ int) (spacetime.Coordinate, spacetime.FourVelocity) {
	b.calls++
	if b.calls > b.after {
		u[spacetime.R] = math.Inf(1)
	}
	return x, u
}

type recorder struct{ taus []float64 }

func (r *recorder) OnStep(_ sim.Body, tau float64) { r.taus = append(r.taus, tau) }

var _ = Describe("Simulator", func() {
	var (
		s   *sim.Simulator
		cfg sim.Config
		ctx context.Context
	)

	BeforeEach(func() {
		s = sim.New(integrators.NewEuler(integrators.Frozen))
		cfg = sim.Config{StepSize: 0.001, SubSteps: 10, Ticks: 500, ValidateState: true}
		ctx = context.Background()
	})

	Describe("Run", func() {
		It("records one state per tick plus the initial one", func() {
			result, err := s.Run(ctx, circular(1, 10), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.States).To(HaveLen(cfg.Ticks + 1))
			Expect(result.Velocities).To(HaveLen(cfg.Ticks + 1))
			Expect(result.Norms).To(HaveLen(cfg.Ticks + 1))
			Expect(result.StepsTaken).To(Equal(cfg.Ticks))
			Expect(result.Halted).To(BeFalse())
			Expect(result.Taus[len(result.Taus)-1]).To(BeNumerically("~", 5.0, 1e-9))
		})

		It("keeps a circular orbit near its radius", func() {
			result, err := s.Run(ctx, circular(1, 10), cfg)
			Expect(err).NotTo(HaveOccurred())
			for _, x := range result.States {
				Expect(x[spacetime.R]).To(BeNumerically("~", 10, 0.05))
			}
			Expect(result.Norms[len(result.Norms)-1]).To(BeNumerically("~", 1, 5e-3))
		})

		It("halts a plunging body at the horizon without failing", func() {
			cfg.Ticks = 200000
			cfg.StepSize = 0.01
			result, err := s.Run(ctx, radialDrop(1, 3), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Halted).To(BeTrue())
			Expect(result.StepsTaken).To(BeNumerically("<", cfg.Ticks))
			Expect(result.Errors).To(HaveLen(1))

			var simErr sim.SimError
			Expect(errors.As(result.Errors[0], &simErr)).To(BeTrue())
			Expect(errors.Is(simErr, spacetime.ErrDomain)).To(BeTrue())

			for _, x := range result.States {
				Expect(x[spacetime.R]).To(BeNumerically(">", 1))
			}
		})

		It("halts on a non-finite state when validation is off", func() {
			cfg.ValidateState = false
			s = sim.New(&blowUp{after: 7})
			result, err := s.Run(ctx, circular(1, 10), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Halted).To(BeTrue())
			Expect(result.StepsTaken).To(Equal(7))
			Expect(errors.Is(result.Errors[0], spacetime.ErrNumericOverflow)).To(BeTrue())
			last := result.States[len(result.States)-1]
			Expect(last.IsFinite()).To(BeTrue())
		})

		It("logs a halt through the configured logger", func() {
			var buf bytes.Buffer
			cfg.ValidateState = false
			s = sim.New(&blowUp{after: 3})
			s.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)).With("run", "blowup"))

			result, err := s.Run(ctx, circular(1, 10), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Halted).To(BeTrue())
			Expect(buf.String()).To(ContainSubstring("run halted"))
			Expect(buf.String()).To(ContainSubstring("run=blowup"))
			Expect(buf.String()).To(ContainSubstring("tick=3"))
		})

		It("rejects an initial state inside the horizon", func() {
			_, err := s.Run(ctx, radialDrop(1, 0.5), cfg)
			Expect(err).To(MatchError(spacetime.ErrDomain))
		})

		DescribeTable("rejects bad configuration",
			func(mutate func(*sim.Config)) {
				mutate(&cfg)
				_, err := s.Run(ctx, circular(1, 10), cfg)
				Expect(err).To(HaveOccurred())
			},
			Entry("zero step", func(c *sim.Config) { c.StepSize = 0 }),
			Entry("negative step", func(c *sim.Config) { c.StepSize = -1 }),
			Entry("zero sub-steps", func(c *sim.Config) { c.SubSteps = 0 }),
			Entry("zero ticks", func(c *sim.Config) { c.Ticks = 0 }),
		)

		It("feeds metrics and observers once per tick", func() {
			m := &countingMetric{}
			rec := &recorder{}
			s.AddMetric(m)
			s.AddObserver(rec)

			result, err := s.Run(ctx, circular(1, 10), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Metrics).To(HaveKeyWithValue("count", float64(cfg.Ticks+1)))
			Expect(rec.taus).To(HaveLen(cfg.Ticks + 1))
			Expect(rec.taus[0]).To(BeZero())
			Expect(rec.taus[1]).To(BeNumerically("~", cfg.TickSize(), 1e-12))
			Expect(rec.taus[cfg.Ticks]).To(Equal(result.Taus[cfg.Ticks]))
		})

		DescribeTable("reports the norm drift of every recorded state",
			func(ticks int) {
				cfg = sim.Config{StepSize: 0.1, SubSteps: 10, Ticks: ticks, ValidateState: true}
				s.AddMetric(metrics.NewNormDrift())

				result, err := s.Run(ctx, radialDrop(1, 10), cfg)
				Expect(err).NotTo(HaveOccurred())

				want := 0.0
				for _, n := range result.Norms {
					want = math.Max(want, math.Abs(n-result.Norms[0]))
				}
				Expect(want).To(BeNumerically(">", 0))
				Expect(result.Metrics["norm_drift"]).To(Equal(want))
			},
			Entry("single tick", 1),
			Entry("several ticks", 20),
		)

		It("stops when the context is cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			_, err := s.Run(cancelled, circular(1, 10), cfg)
			Expect(err).To(MatchError(context.Canceled))
		})
	})

	Describe("RunWithCallback", func() {
		It("runs until the callback declines", func() {
			calls := 0
			err := s.RunWithCallback(ctx, circular(1, 10), cfg, func(_ sim.Body, _ float64) bool {
				calls++
				return calls < 25
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(calls).To(Equal(25))
		})

		It("reports a domain exit as a SimError", func() {
			cfg.StepSize = 0.01
			err := s.RunWithCallback(ctx, radialDrop(1, 3), cfg, func(_ sim.Body, tau float64) bool { return tau < 1000 })
			var simErr sim.SimError
			Expect(errors.As(err, &simErr)).To(BeTrue())
			Expect(simErr.Tau).To(BeNumerically(">", 0))
		})
	})

	Describe("Ensemble", func() {
		It("runs independent bodies and keeps their results in order", func() {
			e := sim.NewEnsemble(func() sim.Integrator { return integrators.NewEuler(integrators.Frozen) })
			bodies := []sim.Body{circular(1, 10), circular(1, 20), circular(2, 30)}

			results, err := e.Run(ctx, bodies, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(3))
			for i, r := range results {
				Expect(r.States[0]).To(Equal(bodies[i].X))
				Expect(r.Halted).To(BeFalse())
			}
		})

		It("fails when any body starts outside the domain", func() {
			e := sim.NewEnsemble(func() sim.Integrator { return integrators.NewEuler(integrators.Frozen) })
			_, err := e.Run(ctx, []sim.Body{circular(1, 10), radialDrop(1, 0.2)}, cfg)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Advance", func() {
		It("moves a valid body one tick", func() {
			start := circular(1, 10)
			next, err := sim.Advance(integrators.NewEuler(integrators.Frozen), start, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(next.X[spacetime.Phi]).To(BeNumerically(">", start.X[spacetime.Phi]))
			Expect(next.Params).To(Equal(start.Params))
		})

		It("returns the last good body on overflow", func() {
			start := circular(1, 10)
			next, err := sim.Advance(&blowUp{}, start, cfg)
			Expect(err).To(MatchError(spacetime.ErrNumericOverflow))
			Expect(next).To(Equal(start))
		})
	})

	Describe("Config", func() {
		It("has sane defaults", func() {
			d := sim.DefaultConfig()
			Expect(d.StepSize).To(BeNumerically(">", 0))
			Expect(d.SubSteps).To(BeNumerically(">", 0))
			Expect(d.ValidateState).To(BeTrue())
			Expect(d.TickSize()).To(BeNumerically("~", d.StepSize*float64(d.SubSteps)))
		})
	})

	Describe("SimError", func() {
		It("formats and unwraps", func() {
			err := sim.SimError{Tick: 3, Tau: 0.5, Err: spacetime.ErrNumericOverflow}
			Expect(err.Error()).To(ContainSubstring("tick 3"))
			Expect(errors.Is(err, spacetime.ErrNumericOverflow)).To(BeTrue())
		})
	})
})
