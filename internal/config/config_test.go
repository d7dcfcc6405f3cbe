package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault_HasUsableMemBackend(t *testing.T) {
	cfg := Default()
	require.Equal(t, "mem", cfg.Disk.Backend)
	require.Greater(t, cfg.Pool.Capacity, 0)
	require.Greater(t, cfg.Index.Buckets, 0)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pagekeeper.yaml")

	yaml := []byte(`
disk:
  backend: file
  file: ./data/pages.db
pool:
  capacity: 128
index:
  buckets: 32
server:
  debug: true
`)
	require.NoError(t, os.WriteFile(path, yaml, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "file", cfg.Disk.Backend)
	require.Equal(t, "./data/pages.db", cfg.Disk.File)
	require.Equal(t, 128, cfg.Pool.Capacity)
	require.Equal(t, 32, cfg.Index.Buckets)
	require.True(t, cfg.Server.Debug)
}

func TestLoad_MissingFile_ReturnsError(t *testing.T) {
	_, err := Load("/nonexistent/pagekeeper.yaml")
	require.Error(t, err)
}
