package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/lama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "lama version "+lama.Version+"\n", out)
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "materials.yaml")
	require.NoError(t, os.WriteFile(lib, []byte("materials:\n  - {kind: Spring, name: Mount, density: 1, k: 10}\n"), 0o644))
	cfg := filepath.Join(dir, "lama.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("log:\n  level: error\n"), 0o644))

	out, err := execute(t, "validate", lib, "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "1 of 1 materials valid.")
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"validate", "import", "export", "tensor", "describe", "discover", "run", "serve", "version"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}
