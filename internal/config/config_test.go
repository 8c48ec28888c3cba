package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", DefaultConfigFileName)

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, filepath.Join(dir, "nested", DefaultSnapshotName), cfg.SnapshotPath)
	assert.Equal(t, time.Minute, cfg.TickInterval())
	assert.Equal(t, time.Hour, cfg.Thresholds().UrgentWithin)
	assert.Equal(t, 12*time.Hour, cfg.Thresholds().WarningWithin)
	assert.Equal(t, " ", cfg.Keys.Toggle)

	again, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadOrCreateReadsOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	body := `
snapshot_path = "/var/tmp/pet.json"
tick_interval_sec = 15
warning_within_min = 180

[keys]
quit = "x"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/tmp/pet.json", cfg.SnapshotPath)
	assert.Equal(t, 15*time.Second, cfg.TickInterval())
	assert.Equal(t, 3*time.Hour, cfg.Thresholds().WarningWithin)
	assert.Equal(t, "x", cfg.Keys.Quit)
	// Keys left out of the file keep their defaults.
	assert.Equal(t, "a", cfg.Keys.Add)
	assert.Equal(t, filepath.Join(dir, DefaultLogName), cfg.Log.Path)
}

func TestLoadOrCreateRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("tick_interval_sec = ["), 0o644))

	_, err := LoadOrCreate(path)
	assert.Error(t, err)
}

func TestResolveConfigPathHonoursXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "todopet", DefaultConfigFileName), ResolveConfigPath())
}
