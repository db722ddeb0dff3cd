package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/geodesim/internal/config"
)

func newOrbitCmd() *cobra.Command {
	configFile = ""
	cmd := &cobra.Command{Use: "test"}
	addOrbitFlags(cmd)
	return cmd
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, name, err := loadConfig(newOrbitCmd(), nil)
	require.NoError(t, err)
	assert.Empty(t, name)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestLoadConfig_PresetThenFlags(t *testing.T) {
	cmd := newOrbitCmd()
	require.NoError(t, cmd.Flags().Set("r", "12"))
	require.NoError(t, cmd.Flags().Set("policy", "per-substep"))

	cfg, name, err := loadConfig(cmd, []string{"kerr_prograde"})
	require.NoError(t, err)
	assert.Equal(t, "kerr_prograde", name)
	assert.Equal(t, "kerr", cfg.Metric)
	assert.Equal(t, 12.0, cfg.Initial.R)
	assert.Equal(t, "per-substep", cfg.Policy)
	assert.Equal(t, 0.2, cfg.Spin)

	assert.Equal(t, 10.0, config.Presets["kerr_prograde"].Initial.R, "preset must not be modified")
}

func TestLoadConfig_FileOverridesPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orbit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("metric: kerr\nspin: 0.1\nticks: 50\n"), 0644))

	cmd := newOrbitCmd()
	require.NoError(t, cmd.Flags().Set("config", path))

	cfg, _, err := loadConfig(cmd, []string{"circular"})
	require.NoError(t, err)
	assert.Equal(t, "kerr", cfg.Metric)
	assert.Equal(t, 50, cfg.Ticks)
	assert.Equal(t, config.DefaultR, cfg.Initial.R)
}

func TestLoadConfig_UnknownPreset(t *testing.T) {
	_, _, err := loadConfig(newOrbitCmd(), []string{"nope"})
	assert.ErrorContains(t, err, "unknown preset")
}

func TestRunLabel(t *testing.T) {
	assert.Equal(t, "custom", runLabel(""))
	assert.Equal(t, "mercury", runLabel("mercury"))
}
