package ports

import (
	"context"
	"testing"

	"github.com/aretw0/lama/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunMaterialStoreContract runs a suite of tests to verify that a MaterialStore
// implementation adheres to the defined interface contract.
func RunMaterialStoreContract(t *testing.T, store MaterialStore) {
	ctx := context.Background()

	steel := domain.Isotropic{
		Base:         domain.Base{Name: "contract-steel", Color: domain.Color{R: 183, G: 65, B: 14}, Density: 7850},
		YoungModulus: 210e9,
		PoissonRatio: 0.3,
	}

	t.Run("Save and Load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, steel), "Save should not return error")

		loaded, err := store.Load(ctx, steel.Name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, domain.Material(steel), loaded)
	})

	t.Run("Save Replaces", func(t *testing.T) {
		softer := steel
		softer.YoungModulus = 200e9
		require.NoError(t, store.Save(ctx, softer))

		loaded, err := store.Load(ctx, steel.Name)
		require.NoError(t, err)
		assert.Equal(t, 200e9, loaded.(domain.Isotropic).YoungModulus)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-material")
		assert.ErrorIs(t, err, domain.ErrMaterialNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, steel))
		require.NoError(t, store.Delete(ctx, steel.Name), "Delete should not return error")

		_, err := store.Load(ctx, steel.Name)
		assert.ErrorIs(t, err, domain.ErrMaterialNotFound, "Load after Delete should return ErrMaterialNotFound")

		assert.NoError(t, store.Delete(ctx, steel.Name), "Deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		spring := domain.Spring{Base: domain.Base{Name: "contract-mount"}, SpringConstant: 1e4}
		require.NoError(t, store.Save(ctx, steel))
		require.NoError(t, store.Save(ctx, spring))
		defer func() {
			_ = store.Delete(ctx, steel.Name)
			_ = store.Delete(ctx, spring.Name)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, steel.Name)
		assert.Contains(t, names, spring.Name)
		assert.IsIncreasing(t, names)
	})

	t.Run("List Names With Temp Prefix", func(t *testing.T) {
		bracket := domain.Spring{Base: domain.Base{Name: "tmp-bracket"}, SpringConstant: 10}
		require.NoError(t, store.Save(ctx, bracket))
		defer func() { _ = store.Delete(ctx, bracket.Name) }()

		_, err := store.Load(ctx, bracket.Name)
		require.NoError(t, err)

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, bracket.Name)
	})
}
