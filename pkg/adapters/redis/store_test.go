package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/lama/pkg/adapters/redis"
	"github.com/aretw0/lama/pkg/domain"
	"github.com/aretw0/lama/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.MaterialStore = (*redis.Store)(nil)

func newStore(t *testing.T, opts ...redis.Option) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	store := redis.NewFromClient(client, opts...)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStore_Contract(t *testing.T) {
	store, _ := newStore(t)
	ports.RunMaterialStoreContract(t, store)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store, mr := newStore(t, redis.WithPrefix("test:"))
	ctx := context.Background()

	var m domain.Matrix6
	for i := range 6 {
		m[i][i] = 100e9
	}
	m[0][1], m[1][0] = 30e9, 30e9

	stored := []domain.Material{
		domain.Orthotropic{
			Base: domain.Base{Name: "cfrp", Color: domain.Color{R: 20, G: 20, B: 20}, Density: 1600},
			E1:   140e9, E2: 10e9, E3: 10e9,
			Nu12: 0.3, Nu13: 0.3, Nu23: 0.4,
			G12: 5e9, G13: 5e9, G23: 3.5e9,
		},
		domain.StiffnessMatrix{
			Base:   domain.Base{Name: "lattice", Color: domain.Color{R: 1, G: 2, B: 3}, Density: 900},
			Matrix: m,
		},
		domain.Spring{
			Base:           domain.Base{Name: "mount", Color: domain.DefaultColor, Flags: domain.FlagDefaultColor | domain.FlagZeroDensity},
			SpringConstant: 2.5e4,
		},
	}

	for _, want := range stored {
		require.NoError(t, store.Save(ctx, want))
		got, err := store.Load(ctx, want.Common().Name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	assert.True(t, mr.Exists("test:cfrp"), "keys carry the configured prefix")

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"cfrp", "lattice", "mount"}, names)
}

func TestRedisStore_CorruptRecord(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(redis.DefaultPrefix+"broken", `{"kind":"Isotropic","name":"broken","density":1,"E":-5,"nu":0.3}`))
	_, err := store.Load(ctx, "broken")
	assert.ErrorIs(t, err, domain.ErrOutOfRange)

	require.NoError(t, mr.Set(redis.DefaultPrefix+"garbage", "not json"))
	_, err = store.Load(ctx, "garbage")
	assert.Error(t, err)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	store, mr := newStore(t, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	spring := domain.Spring{Base: domain.Base{Name: "transient"}, SpringConstant: 1}

	require.NoError(t, store.Save(ctx, spring))

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "transient")

	// Key expiry is driven by miniredis time.
	mr.FastForward(2 * time.Second)
	_, err = store.Load(ctx, "transient")
	assert.ErrorIs(t, err, domain.ErrMaterialNotFound)

	// Index pruning compares against wall-clock time.
	time.Sleep(1200 * time.Millisecond)
	names, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestRedisStore_Ping(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	store := redis.New(mr.Addr(), "", 0)
	defer store.Close()
	assert.NoError(t, store.Ping(context.Background()))

	mr.Close()
	assert.Error(t, store.Ping(context.Background()))
}
