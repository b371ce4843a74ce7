package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/lama/pkg/domain"
	"github.com/aretw0/lama/pkg/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const library = `
materials:
  - kind: Isotropic
    name: Steel
    color: "#B7410E"
    density: 7850
    E: 210e9
    nu: 0.3
  - kind: stiffness-matrix
    name: Lattice
    density: 900
    matrix:
      - [100e9, 30e9, 0, 0, 0, 0]
      - [30e9, 100e9, 0, 0, 0, 0]
      - [0, 0, 100e9, 0, 0, 0]
      - [0, 0, 0, 100e9, 0, 0]
      - [0, 0, 0, 0, 100e9, 0]
      - [0, 0, 0, 0, 0, 100e9]
  - kind: Isotropic
    name: Rubber
    density: 1100
    E: 0.01e9
    nu: 0.5
  - kind: Spring
    name: Steel
    density: 0
    k: 1000
`

func writeLibrary(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadLibrary(t *testing.T) {
	report, err := ReadLibrary(writeLibrary(t, "materials.yaml", library), nil)
	require.NoError(t, err)
	require.Len(t, report.Entries, 4)

	steel, ok := report.Find("Steel")
	require.True(t, ok)
	require.NoError(t, steel.Err)
	iso := steel.Material.(domain.Isotropic)
	assert.Equal(t, 210e9, iso.YoungModulus)
	assert.Equal(t, domain.Color{R: 0xB7, G: 0x41, B: 0x0E}, iso.Color)

	lattice := report.Entries[1]
	require.NoError(t, lattice.Err)
	assert.Equal(t, domain.KindStiffnessMatrix, lattice.Material.Kind())
	assert.True(t, lattice.Material.Common().Flags.Has(domain.FlagDefaultColor))

	rubber := report.Entries[2]
	assert.ErrorIs(t, rubber.Err, domain.ErrOutOfRange, "nu = 0.5 is excluded")

	dup := report.Entries[3]
	assert.Error(t, dup.Err)
	assert.Contains(t, dup.Err.Error(), "materials[0]")

	assert.Len(t, report.Valid(), 2)
	err = report.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `materials[2] "Rubber"`)
	assert.ErrorIs(t, err, domain.ErrOutOfRange)
}

func TestReadLibrary_Errors(t *testing.T) {
	t.Run("Missing File", func(t *testing.T) {
		_, err := ReadLibrary(filepath.Join(t.TempDir(), "nope.yaml"), nil)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("Syntax Error", func(t *testing.T) {
		_, err := ReadLibrary(writeLibrary(t, "bad.json", `{"materials": [`), nil)
		assert.Error(t, err)
	})

	t.Run("Custom Tolerances Apply", func(t *testing.T) {
		path := writeLibrary(t, "lib.yaml", `
materials:
  - kind: Orthotropic
    name: Ply
    density: 1600
    E1: 140e9
    E2: 10e9
    E3: 10e9
    nu12: 0.3
    nu13: 0.3
    nu23: 0.4
    nu21: 0.0215
    G12: 5e9
    G13: 5e9
    G23: 3.5e9
`)
		strict, err := ReadLibrary(path, material.NewValidator())
		require.NoError(t, err)
		assert.ErrorIs(t, strict.Entries[0].Err, domain.ErrReciprocityViolation)

		loose, err := ReadLibrary(path, material.NewValidator(material.WithReciprocityTolerance(0.01)))
		require.NoError(t, err)
		assert.NoError(t, loose.Entries[0].Err)
	})
}

func TestWriteLibrary(t *testing.T) {
	src, err := ReadLibrary(writeLibrary(t, "materials.yaml", library), nil)
	require.NoError(t, err)
	want := src.Valid()

	for _, name := range []string{"out.yaml", "out.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			require.NoError(t, WriteLibrary(path, want))
			// Overwrite in place.
			require.NoError(t, WriteLibrary(path, want))

			got, err := ReadLibrary(path, nil)
			require.NoError(t, err)
			require.NoError(t, got.Err())
			assert.Equal(t, want, got.Valid())

			leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), "tmp-*"))
			require.NoError(t, err)
			assert.Empty(t, leftovers)
		})
	}
}
