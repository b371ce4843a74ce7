package process

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/aretw0/lama/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests drive /bin/sh")
	}
}

func TestRunner_Run(t *testing.T) {
	requireShell(t)
	runner := NewRunner()

	t.Run("Captures Streams And Exit Code", func(t *testing.T) {
		res, err := runner.Run(context.Background(), ports.Command{
			Path: "sh",
			Args: []string{"-c", "echo out; echo err 1>&2; exit 3"},
		})
		require.NoError(t, err, "non-zero exit is not an error")
		assert.Equal(t, 3, res.ExitCode)
		assert.Equal(t, "out\n", res.Stdout)
		assert.Equal(t, "err\n", res.Stderr)
	})

	t.Run("Runs In Working Directory", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "beam.inp"), nil, 0o644))

		res, err := runner.Run(context.Background(), ports.Command{
			Path: "sh",
			Args: []string{"-c", "ls"},
			Dir:  dir,
		})
		require.NoError(t, err)
		assert.Equal(t, 0, res.ExitCode)
		assert.Contains(t, res.Stdout, "beam.inp")
	})

	t.Run("Passes Environment", func(t *testing.T) {
		r := NewRunner(WithEnv("OMP_NUM_THREADS=4"))
		res, err := r.Run(context.Background(), ports.Command{
			Path: "sh",
			Args: []string{"-c", "echo $OMP_NUM_THREADS $LAMA_JOB"},
			Env:  []string{"LAMA_JOB=beam"},
		})
		require.NoError(t, err)
		assert.Equal(t, "4 beam\n", res.Stdout)
	})

	t.Run("Launch Failure", func(t *testing.T) {
		_, err := runner.Run(context.Background(), ports.Command{
			Path: filepath.Join(t.TempDir(), "does-not-exist"),
		})
		assert.Error(t, err)
	})

	t.Run("Descendant Holding Output", func(t *testing.T) {
		r := NewRunner(WithWaitDelay(100 * time.Millisecond))
		start := time.Now()
		res, err := r.Run(context.Background(), ports.Command{
			Path: "sh",
			Args: []string{"-c", "sleep 5 & echo done; exit 0"},
		})
		require.NoError(t, err)
		assert.Equal(t, 0, res.ExitCode)
		assert.Equal(t, "done\n", res.Stdout)
		assert.Less(t, time.Since(start), 4*time.Second)
	})

	t.Run("Cancellation Kills Child", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := runner.Run(ctx, ports.Command{Path: "sh", Args: []string{"-c", "exec sleep 10"}})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), 8*time.Second)
	})
}
