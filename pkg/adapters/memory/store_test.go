package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/stylist/pkg/adapters/memory"
	"github.com/aretw0/stylist/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunKVStoreContract(t, memory.NewStore())
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	value := []byte("[1,2]")
	require.NoError(t, store.Set(ctx, "k", value))
	value[1] = '9'

	loaded, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "[1,2]", string(loaded), "Set must copy the value")

	loaded[1] = '7'
	again, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "[1,2]", string(again), "Get must return a copy")
}
