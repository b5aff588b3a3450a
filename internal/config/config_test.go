package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 64, cfg.HashMB)
	assert.Equal(t, 1, cfg.MultiPV)
	assert.False(t, cfg.Ponder)
	assert.Equal(t, "warning", cfg.LogLevel)
	assert.True(t, cfg.StorageEnabled)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	want := Config{
		HashMB:         128,
		MultiPV:        3,
		Ponder:         true,
		LogLevel:       "info",
		StorageEnabled: false,
	}
	require.NoError(t, SaveTo(want, path))

	got, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[engine]\nhash_mb = 256\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.HashMB)
	// Unspecified fields keep their defaults.
	assert.Equal(t, 1, cfg.MultiPV)
	assert.Equal(t, "warning", cfg.LogLevel)
}

func TestLoadInvalidValuesNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[engine]\nhash_mb = -5\nmulti_pv = 0\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.HashMB)
	assert.Equal(t, 1, cfg.MultiPV)
}
