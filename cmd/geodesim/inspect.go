package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/geodesim/internal/spacetime"
	"github.com/san-kum/geodesim/internal/units"
)

var fromSystem string

func inspectCommands() []*cobra.Command {
	metricCmd := &cobra.Command{
		Use:   "metric [preset]",
		Short: "print the metric and connection at the initial position",
		Args:  cobra.MaximumNArgs(1),
		RunE:  printMetric,
	}
	addOrbitFlags(metricCmd)

	timevelCmd := &cobra.Command{
		Use:   "timevel [preset]",
		Short: "solve U^t for the initial spatial velocity",
		Args:  cobra.MaximumNArgs(1),
		RunE:  solveTimeVelocity,
	}
	addOrbitFlags(timevelCmd)

	convertCmd := &cobra.Command{
		Use:   "convert [value] [unit...]",
		Short: "convert a value between SI and natural units",
		Example: `  geodesim convert 1.9891e30 kg
  geodesim convert 6.9817e10 m
  geodesim convert --from natural 1 c^-1.5 G^0.5 hbar^0.5`,
		Args: cobra.MinimumNArgs(1),
		RunE: convertValue,
	}
	convertCmd.Flags().StringVar(&fromSystem, "from", "si", "unit system of the input: si or natural")

	return []*cobra.Command{metricCmd, timevelCmd, convertCmd}
}

func printMetric(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	params, x, err := cfg.Spacetime()
	if err != nil {
		return err
	}
	here := params.At(x)
	desc := spacetime.Describe(here.Variant)

	fmt.Printf("%s: %s\n", here.Variant, desc.Description)
	fmt.Printf("rs = %g, a = %g, r = %g, theta = %g\n", here.Rs, here.A, here.R, here.Theta)
	if h := here.Horizon(); !math.IsNaN(h) {
		fmt.Printf("outer horizon: r = %g\n", h)
	}
	fmt.Printf("sigma = %g, delta = %g\n\n", here.Sigma(), here.Delta())

	g := spacetime.Metric(here)
	fmt.Printf("g_ab (%s):\n", strings.Join(desc.Coordinates[:], ", "))
	fmt.Printf("%v\n\n", mat.Formatted(g.Dense(), mat.Prefix(""), mat.Squeeze()))

	gamma := spacetime.Christoffel(here)
	fmt.Println("non-zero connection components:")
	names := desc.Coordinates
	for a := 0; a < 4; a++ {
		for b := 0; b < 4; b++ {
			for c := b; c < 4; c++ {
				v := gamma[a][b][c]
				if math.Abs(v) < 1e-15 {
					continue
				}
				fmt.Printf("  Gamma^%s_%s%s = % .8g\n", names[a], names[b], names[c], v)
			}
		}
	}
	return nil
}

func solveTimeVelocity(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	params, x, err := cfg.Spacetime()
	if err != nil {
		return err
	}
	here := params.At(x)
	spatial := cfg.SpatialVelocity()

	fmt.Printf("U^r = %g, U^theta = %g, U^phi = %g, target g(U,U) = %g\n", spatial[0], spatial[1], spatial[2], cfg.TargetNorm)

	r1, r2, err := spacetime.SolveTimeVelocity(spatial, here, cfg.TargetNorm)
	if err != nil {
		return err
	}
	fmt.Printf("roots: %.12g, %.12g\n", r1, r2)

	u, err := spacetime.Assemble(spatial, here, cfg.TargetNorm)
	if err != nil {
		return err
	}
	fmt.Printf("future-directed U^t: %.12g\n", u[spacetime.T])
	fmt.Printf("check g(U,U): %.12g\n", spacetime.NormSquared(u, spacetime.Metric(here)))

	if v, err := spacetime.LocalSpeed(u, here); err == nil {
		fmt.Printf("speed seen by a static observer: %.6g c\n", v)
	}
	return nil
}

func convertValue(cmd *cobra.Command, args []string) error {
	value, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", args[0], err)
	}
	spec := strings.Join(args[1:], " ")

	switch strings.ToLower(fromSystem) {
	case "si":
		u, err := units.ParseSI(spec)
		if err != nil {
			return err
		}
		fmt.Printf("%g %s = %g [%s]\n", value, u, u.ToNatural(value), u.NaturalString())
	case "natural":
		u, err := units.ParseNatural(spec)
		if err != nil {
			return err
		}
		fmt.Printf("%g [%s] = %g %s\n", value, u.NaturalString(), u.ToSI(value), u)
	default:
		return fmt.Errorf("unknown unit system %q: want si or natural", fromSystem)
	}
	return nil
}
