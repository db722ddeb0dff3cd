package main

import (
	"fmt"
	"os"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/geodesim/internal/integrators"
	"github.com/san-kum/geodesim/internal/sim"
	"github.com/san-kum/geodesim/internal/spacetime"
	"github.com/san-kum/geodesim/internal/storage"
)

var outPath string

func dataCommands() []*cobra.Command {
	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot r(tau) and the norm of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the trajectory of a run to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run and its trajectory to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	return []*cobra.Command{plotCmd, exportCSVCmd, exportJSONCmd}
}

func loadRun(runID string) (*storage.RunMetadata, *storage.Trajectory, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	traj, err := st.LoadStates(runID)
	if err != nil {
		return nil, nil, err
	}
	if traj.Len() == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return meta, traj, nil
}

// replay rebuilds the initial body, integrator and tick configuration of a
// saved run.
func replay(meta *storage.RunMetadata, traj *storage.Trajectory) (sim.Body, *integrators.Euler, sim.Config, error) {
	variant, err := spacetime.ParseVariant(meta.Metric)
	if err != nil {
		return sim.Body{}, nil, sim.Config{}, err
	}
	p, err := integrators.ParsePolicy(meta.Policy)
	if err != nil {
		return sim.Body{}, nil, sim.Config{}, err
	}
	body := sim.Body{
		Params: spacetime.Params{Variant: variant, Rs: meta.Rs, A: meta.Spin},
		X:      traj.States[0],
		U:      traj.Velocities[0],
	}
	cfg := sim.Config{
		StepSize:      meta.StepSize,
		SubSteps:      meta.SubSteps,
		Ticks:         meta.Ticks,
		ValidateState: true,
	}
	return body, integrators.NewEuler(p), cfg, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("metric: %s (rs=%g, a=%g)\n", meta.Metric, meta.Rs, meta.Spin)
	fmt.Printf("samples: %d\n\n", traj.Len())

	graph := asciigraph.Plot(traj.Column(spacetime.R),
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("r(tau)"),
	)
	fmt.Println(graph)
	fmt.Println()

	graph = asciigraph.Plot(traj.Norms,
		asciigraph.Height(6),
		asciigraph.Width(80),
		asciigraph.Precision(6),
		asciigraph.Caption("g(U,U)"),
	)
	fmt.Println(graph)
	fmt.Println()

	if meta.Halted {
		fmt.Printf("halted: %s\n", meta.HaltReason)
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if outPath != "" {
		if err := storage.ExportCSV(outPath, traj); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "exported %d samples to %s\n", traj.Len(), outPath)
		return nil
	}
	return storage.WriteStates(os.Stdout, traj)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if outPath != "" {
		if err := storage.ExportJSON(outPath, *meta, traj); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "exported %s to %s\n", meta.ID, outPath)
		return nil
	}
	return storage.WriteJSON(os.Stdout, *meta, traj)
}
