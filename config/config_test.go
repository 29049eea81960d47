package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tracktum/ahrs-engine/ahrs"
	"github.com/tracktum/ahrs-engine/config"
)

func TestLoadAppliesDefaultsForOmittedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dcm_kp: 0.5\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, 0.5, cfg.DCMKp)
	require.Equal(t, 0.0007, cfg.DCMKi, "omitted fields keep DefaultConfig's value")
}

func TestLoadMissingFileReturnsWrappedError(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")

	cfg := ahrs.DefaultConfig()
	cfg.DCMKp = 0.33
	cfg.DebugMotor = 3
	require.NoError(t, config.Save(path, cfg))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, 0.33, loaded.DCMKp)
	require.Equal(t, 3, loaded.DebugMotor)
}
