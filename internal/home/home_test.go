package home

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	dir, err := New("/srv/mapscrape")
	require.NoError(t, err)
	assert.Equal(t, "/srv/mapscrape", dir.Path())

	def, err := New("")
	require.NoError(t, err)
	userHome, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(userHome, DefaultDirName), def.Path())
}

func TestDir_Paths(t *testing.T) {
	dir, _ := New("/srv/mapscrape")

	assert.Equal(t, "/srv/mapscrape/config.yaml", dir.ConfigPath())
	assert.Equal(t, "/srv/mapscrape/exports", dir.ExportsDir())
	assert.Equal(t, "/srv/mapscrape/exports/hotels-oslo.csv", dir.ExportPath("hotels-oslo.csv"))
}

func TestDir_EnsureExists(t *testing.T) {
	dir, _ := New(filepath.Join(t.TempDir(), "nested", "home"))
	require.False(t, dir.Exists())

	require.NoError(t, dir.EnsureExists())
	require.NoError(t, dir.EnsureExists(), "idempotent")

	assert.True(t, dir.Exists())
	assert.DirExists(t, dir.ExportsDir())
}

func TestDir_ConfigExists(t *testing.T) {
	dir, _ := New(t.TempDir())
	require.False(t, dir.ConfigExists())

	require.NoError(t, os.WriteFile(dir.ConfigPath(), []byte("log:\n  level: info\n"), 0o644))
	assert.True(t, dir.ConfigExists())
}
