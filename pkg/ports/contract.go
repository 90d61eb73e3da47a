package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunKVStoreContract runs a suite of tests to verify that a KVStore implementation
// adheres to the defined interface contract.
func RunKVStoreContract(t *testing.T, store KVStore) {
	ctx := context.Background()
	prefix := "contract-" + time.Now().Format("20060102150405")

	t.Run("Set and Get", func(t *testing.T) {
		key := prefix + "/chat-messages"
		value := []byte(`[{"id":"a","role":"system","content":"hi"}]`)

		require.NoError(t, store.Set(ctx, key, value), "Set should not return error")

		loaded, err := store.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.JSONEq(t, string(value), string(loaded))
	})

	t.Run("Overwrite", func(t *testing.T) {
		key := prefix + "/current-step"
		require.NoError(t, store.Set(ctx, key, []byte("1")))
		require.NoError(t, store.Set(ctx, key, []byte("2")))

		loaded, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "2", string(loaded))
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.Get(ctx, prefix+"/missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		key := prefix + "/liked-outfits"
		require.NoError(t, store.Set(ctx, key, []byte("[2,5]")))

		require.NoError(t, store.Delete(ctx, key), "Delete should not return error")

		_, err := store.Get(ctx, key)
		assert.ErrorIs(t, err, ErrNotFound, "Get after Delete should return ErrNotFound")

		assert.NoError(t, store.Delete(ctx, key), "Deleting a missing key is not an error")
	})

	t.Run("List", func(t *testing.T) {
		k1 := prefix + "-list/a"
		k2 := prefix + "-list/b"
		other := prefix + "-other/c"
		require.NoError(t, store.Set(ctx, k2, []byte("2")))
		require.NoError(t, store.Set(ctx, k1, []byte("1")))
		require.NoError(t, store.Set(ctx, other, []byte("3")))

		defer func() {
			_ = store.Delete(ctx, k1)
			_ = store.Delete(ctx, k2)
			_ = store.Delete(ctx, other)
		}()

		keys, err := store.List(ctx, prefix+"-list/")
		require.NoError(t, err)
		assert.Equal(t, []string{k1, k2}, keys)
	})
}
