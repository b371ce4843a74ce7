package solver

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/lama/pkg/domain"
	"github.com/aretw0/lama/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeInstall returns a StatFunc that reports the given paths as existing
// regular files and everything else as missing.
func fakeInstall(t *testing.T, present ...string) StatFunc {
	t.Helper()
	file := filepath.Join(t.TempDir(), "ccx")
	require.NoError(t, os.WriteFile(file, []byte("#!/bin/sh\n"), 0o755))
	info, err := os.Stat(file)
	require.NoError(t, err)

	set := map[string]bool{}
	for _, p := range present {
		set[p] = true
	}
	return func(name string) (fs.FileInfo, error) {
		if set[name] {
			return info, nil
		}
		return nil, fs.ErrNotExist
	}
}

func TestClassify(t *testing.T) {
	for _, goos := range []string{"linux", "darwin", "windows"} {
		p, err := Classify(goos)
		require.NoError(t, err)
		assert.Equal(t, Platform(goos), p)
	}

	_, err := Classify("plan9")
	assert.ErrorIs(t, err, domain.ErrUnsupportedPlatform)
}

func TestPlatformConventions(t *testing.T) {
	assert.Equal(t, "ccx.exe", Windows.ExecutableName())
	assert.Equal(t, "ccx", MacOS.ExecutableName())
	assert.Equal(t, "where", Windows.SearchCommand())
	assert.Equal(t, "which", Linux.SearchCommand())
	assert.Equal(t, `C:\Program Files\CalculiX\ccx.exe`, Windows.WellKnownPaths()[0])
	assert.Equal(t, []string{"/usr/local/bin/ccx", "/opt/homebrew/bin/ccx", "/opt/local/bin/ccx"}, MacOS.WellKnownPaths())
}

func TestDiscovery_WellKnownPaths(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns First Existing Path", func(t *testing.T) {
		spy := &spyRunner{}
		d := NewDiscovery(MacOS, spy, WithStat(fakeInstall(t, "/opt/homebrew/bin/ccx", "/opt/local/bin/ccx")))

		path, ok := d.FindExecutable(ctx)
		assert.True(t, ok)
		assert.Equal(t, "/opt/homebrew/bin/ccx", path)
		assert.Empty(t, spy.Calls(), "no PATH lookup when a well-known path exists")
	})

	t.Run("Configured Paths Come First", func(t *testing.T) {
		d := NewDiscovery(Windows, &spyRunner{},
			WithStat(fakeInstall(t, `D:\tools\ccx.exe`, `C:\CalculiX\ccx.exe`)),
			WithSearchPaths(`D:\tools\ccx.exe`))

		path, ok := d.FindExecutable(ctx)
		assert.True(t, ok)
		assert.Equal(t, `D:\tools\ccx.exe`, path)
	})

	t.Run("Skips Directories", func(t *testing.T) {
		dir := t.TempDir()
		d := NewDiscovery(Linux, &spyRunner{err: errors.New("no which")},
			WithSearchPaths(dir),
			WithStat(func(name string) (fs.FileInfo, error) {
				if name == dir {
					return os.Stat(dir)
				}
				return nil, fs.ErrNotExist
			}))

		_, ok := d.FindExecutable(ctx)
		assert.False(t, ok)
	})
}

func TestDiscovery_SearchFallback(t *testing.T) {
	ctx := context.Background()
	nothing := func(string) (fs.FileInfo, error) { return nil, fs.ErrNotExist }

	t.Run("Uses First Line Of Search Output", func(t *testing.T) {
		spy := &spyRunner{result: ports.ProcessResult{Stdout: "\n  /home/eng/bin/ccx  \r\n/usr/bin/ccx\n"}}
		d := NewDiscovery(Linux, spy, WithStat(nothing))

		path, ok := d.FindExecutable(ctx)
		assert.True(t, ok)
		assert.Equal(t, "/home/eng/bin/ccx", path)

		calls := spy.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, "which", calls[0].Path)
		assert.Equal(t, []string{"ccx"}, calls[0].Args)
	})

	t.Run("Windows Search Command", func(t *testing.T) {
		spy := &spyRunner{result: ports.ProcessResult{Stdout: `C:\ccx\ccx.exe` + "\r\n"}}
		path, ok := NewDiscovery(Windows, spy, WithStat(nothing)).FindExecutable(ctx)
		assert.True(t, ok)
		assert.Equal(t, `C:\ccx\ccx.exe`, path)
		assert.Equal(t, "where", spy.Calls()[0].Path)
		assert.Equal(t, []string{"ccx.exe"}, spy.Calls()[0].Args)
	})

	failures := map[string]*spyRunner{
		"Search Command Fails":  {err: errors.New("exec: \"which\": executable file not found")},
		"Search Reports Absent": {result: ports.ProcessResult{ExitCode: 1}},
		"Search Prints Nothing": {result: ports.ProcessResult{Stdout: "  \n"}},
	}
	for name, spy := range failures {
		t.Run(name, func(t *testing.T) {
			path, ok := NewDiscovery(MacOS, spy, WithStat(nothing)).FindExecutable(ctx)
			assert.False(t, ok)
			assert.Empty(t, path)
		})
	}

	t.Run("No Runner", func(t *testing.T) {
		_, ok := NewDiscovery(Linux, nil, WithStat(nothing)).FindExecutable(ctx)
		assert.False(t, ok)
	})
}

func TestPlatformInfo(t *testing.T) {
	if _, err := Current(); err != nil {
		t.Skip("host platform not supported")
	}
	info, err := PlatformInfo()
	require.NoError(t, err)
	assert.Contains(t, info, "Platform: ")
	assert.Contains(t, info, "Architecture: ")
}
