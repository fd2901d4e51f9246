package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadValidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".flatwire.yaml")
	require.NoError(t, os.WriteFile(path, []byte("outDir: gen\ndefaultTarget: go\nstrictCasing: false\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "gen", cfg.OutDir)
	require.Equal(t, "go", cfg.DefaultTarget)
	require.False(t, cfg.StrictCasing)
}

func TestLoadRejectsUnknownTarget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".flatwire.yaml")
	require.NoError(t, os.WriteFile(path, []byte("defaultTarget: cobol\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
