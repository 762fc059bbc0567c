package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "data/master_dataset.csv", c.MasterCSV)
	assert.Equal(t, 60, c.HTTPTimeoutSec)
	assert.Equal(t, 2, c.Decimals)
	assert.Equal(t, "cluster-robust", c.SEType)
	assert.Equal(t, filepath.Join(home, ".spreaddash", "snapshots.db"), c.SnapshotPath)
	assert.NoError(t, c.Validate())
}

func TestLoadFileAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("master_csv: https://example.org/m.csv\ndecimals: 3\n"), 0o644))
	t.Setenv("SPREADDASH_DECIMALS", "4")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/m.csv", c.MasterCSV)
	assert.Equal(t, 4, c.Decimals)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "info", c.LogLevel)
}

func TestSaveRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	c, err := Load("")
	require.NoError(t, err)
	require.NoError(t, c.Set("se_type", "hc1"))
	require.NoError(t, c.Set("strict", "true"))
	require.NoError(t, Save(c, ""))

	_, err = os.Stat(filepath.Join(home, ".spreaddash", "config.yaml"))
	require.NoError(t, err)

	again, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "hc1", again.SEType)
	assert.True(t, again.Strict)
}

func TestSetRejectsInvalid(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	require.NoError(t, err)

	assert.ErrorIs(t, c.Set("decimals", "twelve"), ErrInvalid)
	assert.ErrorIs(t, c.Set("decimals", "12"), ErrInvalid)
	assert.ErrorIs(t, c.Set("decimals", "0"), ErrInvalid)
	assert.ErrorIs(t, c.Set("log_format", "xml"), ErrInvalid)
	assert.ErrorIs(t, c.Set("strict", "maybe"), ErrInvalid)

	err = c.Set("colour", "red")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
}
