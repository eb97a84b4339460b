package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Equal(t, "lustre", cfg.Package)
	require.Empty(t, cfg.Entry)
	require.Empty(t, cfg.Reserved)
}

func TestLoadOverridesOnlyGivenFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lustc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entry: main_loop\nreserved: [type, range]\nfresh_prefix: __aux\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "lustre", cfg.Package, "unset fields keep the default")
	require.Equal(t, "main_loop", cfg.Entry)
	require.Equal(t, []string{"type", "range"}, cfg.Reserved)
	require.Equal(t, "__aux", cfg.FreshPrefix)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does_not_exist.yaml"))
	require.Error(t, err)
}

func TestLoadInvalidYAMLFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entry: [this is not a scalar"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
