package kvstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract exercises the behaviour every Store implementation shares.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("should return ErrKeyNotFound for missing key", func(t *testing.T) {
		store := newStore(t)

		_, err := store.Get(ctx, "missing")

		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("should store and read a value", func(t *testing.T) {
		store := newStore(t)

		require.NoError(t, store.Set(ctx, "technologies", []byte(`[{"id":1}]`)))
		value, err := store.Get(ctx, "technologies")

		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":1}]`, string(value))
	})

	t.Run("last write wins", func(t *testing.T) {
		store := newStore(t)

		require.NoError(t, store.Set(ctx, "theme", []byte(`"light"`)))
		require.NoError(t, store.Set(ctx, "theme", []byte(`"dark"`)))
		value, err := store.Get(ctx, "theme")

		require.NoError(t, err)
		assert.Equal(t, `"dark"`, string(value))
	})

	t.Run("should remove a key", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Set(ctx, "theme", []byte(`"dark"`)))

		require.NoError(t, store.Remove(ctx, "theme"))
		_, err := store.Get(ctx, "theme")

		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("removing a missing key is not an error", func(t *testing.T) {
		store := newStore(t)

		assert.NoError(t, store.Remove(ctx, "never-set"))
	})
}
