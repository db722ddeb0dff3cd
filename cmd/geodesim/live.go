package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/san-kum/geodesim/internal/metrics"
	"github.com/san-kum/geodesim/internal/sim"
	"github.com/san-kum/geodesim/internal/viz"
)

var (
	listenAddr string
	tickEvery  time.Duration
	themeName  string
)

func liveCommands() []*cobra.Command {
	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run a simulation with the live orbit view",
		Long:  "Without a preset, config file or orbit flag, opens the preset menu.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addOrbitFlags(liveCmd)
	liveCmd.Flags().StringVar(&themeName, "theme", viz.Themes[0].Name, "colour theme: cyberpunk, retro or accretion")

	serveCmd := &cobra.Command{
		Use:   "serve [preset]",
		Short: "run a simulation in real time and expose it to prometheus",
		Args:  cobra.MaximumNArgs(1),
		RunE:  serveMetrics,
	}
	addOrbitFlags(serveCmd)
	serveCmd.Flags().StringVar(&listenAddr, "addr", ":9090", "listen address")
	serveCmd.Flags().DurationVar(&tickEvery, "interval", 20*time.Millisecond, "wall-clock time per tick")

	return []*cobra.Command{liveCmd, serveCmd}
}

func runLive(cmd *cobra.Command, args []string) error {
	viz.SetTheme(themeName)
	if len(args) == 0 && !orbitFlagsChanged(cmd) {
		return viz.RunMenu()
	}

	cfg, name, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	body, runCfg, err := cfg.Build()
	if err != nil {
		return err
	}
	integ, err := cfg.Integrator()
	if err != nil {
		return err
	}
	return viz.Run(runLabel(name), integ, body, runCfg)
}

func serveMetrics(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	body, runCfg, err := cfg.Build()
	if err != nil {
		return err
	}
	integ, err := cfg.Integrator()
	if err != nil {
		return err
	}
	if tickEvery <= 0 {
		return fmt.Errorf("interval must be positive, got %v", tickEvery)
	}

	exporter := metrics.NewExporter(runLabel(name))
	mux := http.NewServeMux()
	mux.Handle("/metrics", exporter.Handler())
	srv := &http.Server{Addr: listenAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()
	slog.Info("serving metrics", "addr", listenAddr, "run", runLabel(name))

	ctx := cmd.Context()
	ticker := time.NewTicker(tickEvery)
	defer ticker.Stop()

	s := sim.New(integ)
	s.SetLogger(slog.Default().With("run", runLabel(name)))
	s.AddObserver(exporter)
	err = s.RunWithCallback(ctx, body, runCfg, func(b sim.Body, tau float64) bool {
		select {
		case <-ctx.Done():
			return false
		case err := <-serveErr:
			serveErr <- err
			return false
		case <-ticker.C:
			return true
		}
	})

	var simErr sim.SimError
	switch {
	case errors.As(err, &simErr):
		exporter.RecordHalt()
		slog.Warn("orbit halted, still serving final values", "tick", simErr.Tick, "tau", simErr.Tau, "err", simErr.Err)
	case err != nil && !errors.Is(err, context.Canceled):
		return err
	}

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func orbitFlagsChanged(cmd *cobra.Command) bool {
	changed := false
	cmd.LocalNonPersistentFlags().Visit(func(f *pflag.Flag) {
		if f.Name != "theme" {
			changed = true
		}
	})
	return changed
}
