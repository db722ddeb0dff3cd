package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/geodesim/internal/sim"
	"github.com/san-kum/geodesim/internal/spacetime"
)

// Exporter publishes the live orbit state as Prometheus metrics. Each
// exporter owns its registry so several runs can coexist in one process.
type Exporter struct {
	registry    *prometheus.Registry
	radius      prometheus.Gauge
	theta       prometheus.Gauge
	phi         prometheus.Gauge
	normSquared prometheus.Gauge
	properTime  prometheus.Gauge
	localSpeed  prometheus.Gauge
	ticks       prometheus.Counter
	halts       prometheus.Counter
}

func NewExporter(run string) *Exporter {
	labels := prometheus.Labels{"run": run}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "geodesim",
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
	}
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "geodesim",
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
	}

	e := &Exporter{
		registry:    prometheus.NewRegistry(),
		radius:      gauge("radius", "Boyer-Lindquist radial coordinate of the body"),
		theta:       gauge("theta", "Polar angle of the body in radians"),
		phi:         gauge("phi", "Azimuthal angle of the body in radians"),
		normSquared: gauge("norm_squared", "g(U,U) of the current four-velocity"),
		properTime:  gauge("proper_time", "Affine parameter elapsed since the run started"),
		localSpeed:  gauge("local_speed", "Three-speed measured by a static observer, in units of c"),
		ticks:       counter("ticks_total", "Integration ticks observed"),
		halts:       counter("halts_total", "Runs halted by a domain exit or numeric overflow"),
	}
	e.registry.MustRegister(
		e.radius, e.theta, e.phi,
		e.normSquared, e.properTime, e.localSpeed,
		e.ticks, e.halts,
	)
	return e
}

// OnStep implements sim.Observer.
func (e *Exporter) OnStep(b sim.Body, tau float64) {
	e.radius.Set(b.X[spacetime.R])
	e.theta.Set(b.X[spacetime.Theta])
	e.phi.Set(b.X[spacetime.Phi])
	e.normSquared.Set(b.NormSquared())
	e.properTime.Set(tau)
	if v, err := spacetime.LocalSpeed(b.U, b.Here()); err == nil {
		e.localSpeed.Set(v)
	}
	e.ticks.Inc()
}

func (e *Exporter) RecordHalt() { e.halts.Inc() }

func (e *Exporter) Registry() *prometheus.Registry { return e.registry }

func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// WriteTextfile dumps the current values in the node-exporter textfile format.
func (e *Exporter) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, e.registry)
}
