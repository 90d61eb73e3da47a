package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/stylist/internal/runtime"
	"github.com/aretw0/stylist/pkg/adapters/memory"
	"github.com/aretw0/stylist/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleLike(t *testing.T) {
	store := memory.NewStore()
	s := openSession(t, store)
	ctx := context.Background()

	liked, err := s.ToggleLike(ctx, 2)
	require.NoError(t, err)
	assert.True(t, liked)

	_, _ = s.ToggleLike(ctx, 5)
	_, _ = s.ToggleLike(ctx, 3)
	assert.Equal(t, []domain.OutfitID{2, 5, 3}, s.Liked())
	assert.True(t, s.IsLiked(5))

	liked, err = s.ToggleLike(ctx, 5)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, []domain.OutfitID{2, 3}, s.Liked())
	assert.False(t, s.IsLiked(5))

	raw, err := store.Get(ctx, runtime.SlotKey("test", runtime.SlotLiked))
	require.NoError(t, err)
	assert.JSONEq(t, "[2,3]", string(raw))
}

func TestToggleLike_DoubleToggleIsIdentity(t *testing.T) {
	s := openSession(t, memory.NewStore())
	ctx := context.Background()
	_, _ = s.ToggleLike(ctx, 1)
	before := s.Liked()

	_, _ = s.ToggleLike(ctx, 4)
	_, _ = s.ToggleLike(ctx, 4)

	assert.Equal(t, before, s.Liked())
}

func TestToggleLike_AcceptsUnknownIDs(t *testing.T) {
	s := openSession(t, memory.NewStore())

	liked, err := s.ToggleLike(context.Background(), 999)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, []domain.OutfitID{999}, s.Liked())
}

func TestToggleLike_EmptySetPersistsAsArray(t *testing.T) {
	store := memory.NewStore()
	s := openSession(t, store)
	ctx := context.Background()

	_, _ = s.ToggleLike(ctx, 1)
	_, _ = s.ToggleLike(ctx, 1)

	raw, err := store.Get(ctx, runtime.SlotKey("test", runtime.SlotLiked))
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(raw))
}

func TestToggleLike_Hook(t *testing.T) {
	var events []domain.LikeEvent
	s := openSession(t, memory.NewStore(), runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnLikeToggle: func(_ context.Context, e *domain.LikeEvent) {
			events = append(events, *e)
		},
	}))

	_, _ = s.ToggleLike(context.Background(), 3)
	_, _ = s.ToggleLike(context.Background(), 3)

	require.Len(t, events, 2)
	assert.True(t, events[0].Liked)
	assert.False(t, events[1].Liked)
	assert.Equal(t, domain.OutfitID(3), events[1].OutfitID)
}
