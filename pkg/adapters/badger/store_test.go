package badger_test

import (
	"context"
	"testing"

	"github.com/aretw0/stylist/pkg/adapters/badger"
	"github.com/aretw0/stylist/pkg/ports"
	"github.com/stretchr/testify/require"
)

func TestBadgerStore_Contract(t *testing.T) {
	store, err := badger.Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ports.RunKVStoreContract(t, store)
}

func TestBadgerStore_Reopen(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	ctx := context.Background()

	store, err := badger.Open(dir)
	req.NoError(err)
	req.NoError(store.Set(ctx, "s/liked-outfits", []byte("[5]")))
	req.NoError(store.Close())

	reopened, err := badger.Open(dir)
	req.NoError(err)
	defer reopened.Close()

	value, err := reopened.Get(ctx, "s/liked-outfits")
	req.NoError(err)
	req.Equal("[5]", string(value))
}
