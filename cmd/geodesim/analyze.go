package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/geodesim/internal/analysis"
	"github.com/san-kum/geodesim/internal/sim"
	"github.com/san-kum/geodesim/internal/spacetime"
)

var (
	delta     float64
	spinMin   float64
	spinMax   float64
	spinCount int
)

func analysisCommands() []*cobra.Command {
	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "radial frequency, periapsis advance and orbit projection",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().Float64Var(&delta, "delta", 1e-6, "radial offset of the neighbour geodesic")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "periapsis advance as a function of kerr spin a",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepSpin,
	}
	addOrbitFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&spinMin, "a-min", -0.4, "smallest spin a (natural units)")
	sweepCmd.Flags().Float64Var(&spinMax, "a-max", 0.4, "largest spin a (natural units)")
	sweepCmd.Flags().IntVar(&spinCount, "a-count", 9, "number of spin values")

	return []*cobra.Command{analyzeCmd, sweepCmd}
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("orbit analysis: %s\n", meta.ID)
	fmt.Printf("metric: %s (rs=%g, a=%g)\n\n", meta.Metric, meta.Rs, meta.Spin)

	r := traj.Column(spacetime.R)
	phi := traj.Column(spacetime.Phi)
	dt := meta.StepSize * float64(meta.SubSteps)

	freq, err := analysis.DominantFrequency(r, dt)
	switch {
	case errors.Is(err, analysis.ErrTooFewSamples):
		fmt.Println("radial frequency: too few samples")
	case err != nil:
		return err
	default:
		fmt.Printf("radial frequency: %.6g per unit tau\n", freq)
		if freq > 0 {
			fmt.Printf("radial period: %.6g\n", 1/freq)
		}
	}

	peri := analysis.Periapses(r)
	apo := analysis.Apoapses(r)
	fmt.Printf("periapses: %d, apoapses: %d\n", len(peri), len(apo))
	if len(peri) > 0 && len(apo) > 0 {
		rp, ra := r[peri[0]], r[apo[0]]
		p := analysis.SemiLatusRectum(rp, ra)
		fmt.Printf("r_p = %.6g, r_a = %.6g, e = %.4f, p = %.6g\n", rp, ra, analysis.Eccentricity(rp, ra), p)

		if adv, err := analysis.Precession(analysis.PeriapsisPhases(r, phi, peri)); err == nil {
			fmt.Printf("periapsis advance: %.6g rad/orbit\n", adv)
			if meta.Metric == spacetime.Schwarzschild.String() {
				fmt.Printf("weak-field estimate 3*pi*rs/p: %.6g rad/orbit\n", 3*math.Pi*meta.Rs/p)
			}
		}
	}

	body, integ, cfg, err := replay(meta, traj)
	if err != nil {
		return err
	}
	rate, err := analysis.Deviation(integ, body, cfg, delta)
	if err == nil {
		fmt.Printf("geodesic deviation rate: %.4g per unit tau\n", rate)
	}
	fmt.Println()

	if len(r) >= 8 {
		n := 1
		for n*2 <= len(r) {
			n *= 2
		}
		ps := analysis.PowerSpectrum(r[:n])
		graph := asciigraph.Plot(ps[1:len(ps)/8+1],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum of r"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	horizon := body.Params.Horizon()
	if math.IsNaN(horizon) {
		horizon = 0
	}
	fmt.Print(analysis.ProjectionToASCII(analysis.Project(traj.States), horizon, 72, 32))
	return nil
}

func sweepSpin(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	body, runCfg, err := cfg.Build()
	if err != nil {
		return err
	}
	if _, err := cfg.Integrator(); err != nil {
		return err
	}
	if spinCount < 1 {
		return fmt.Errorf("a-count must be positive, got %d", spinCount)
	}

	newIntegrator := func() sim.Integrator {
		integ, _ := cfg.Integrator()
		return integ
	}
	spins := analysis.Linspace(spinMin, spinMax, spinCount)

	fmt.Printf("sweeping %s over %d spin values...\n\n", runLabel(name), len(spins))
	points, err := analysis.SpinSweep(cmd.Context(), newIntegrator, body, runCfg, spins)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "A\tADVANCE\tPERIAPSES\tNOTE")
	var curve []float64
	for _, pt := range points {
		note := ""
		if pt.Err != nil {
			note = pt.Err.Error()
		} else {
			curve = append(curve, pt.Precession)
		}
		fmt.Fprintf(w, "%.4f\t%.6g\t%d\t%s\n", pt.Spin, pt.Precession, pt.Periapses, note)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(curve) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(curve,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption("periapsis advance vs a"),
		))
	}
	return nil
}
