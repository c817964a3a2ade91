package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, time.Second, cfg.RefreshInterval)
	assert.Equal(t, 10, cfg.WindowSize)
	assert.Equal(t, 10, cfg.MarkerCount)
	assert.True(t, cfg.VitalChart)
	assert.InDelta(t, 34.0522, cfg.BaseLat, 1e-9)
	assert.InDelta(t, -118.2437, cfg.BaseLon, 1e-9)
	assert.InDelta(t, 0.03, cfg.MarkerJitter, 1e-9)
	assert.Equal(t, "@every 3s", cfg.SnapshotSchedule)
	assert.Equal(t, "images", cfg.SnapshotCollection)
	assert.Empty(t, cfg.FirebaseCredentials)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("REFRESH_INTERVAL", "250ms")
	t.Setenv("WINDOW_SIZE", "20")
	t.Setenv("RANDOM_SEED", "77")
	t.Setenv("VITAL_CHART", "false")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.RefreshInterval)
	assert.Equal(t, 20, cfg.WindowSize)
	assert.Equal(t, int64(77), cfg.RandomSeed)
	assert.False(t, cfg.VitalChart)
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CAMERA_FPS=25\nSNAPSHOT_COLLECTION=frames\n"), 0644))
	t.Cleanup(func() {
		os.Unsetenv("CAMERA_FPS")
		os.Unsetenv("SNAPSHOT_COLLECTION")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.CameraFPS)
	assert.Equal(t, "frames", cfg.SnapshotCollection)
}
