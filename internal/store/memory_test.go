package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evil-hangman/go-server/internal/game"
	"github.com/evil-hangman/go-server/internal/store"
)

func TestMemoryStore_SaveGet(t *testing.T) {
	sess, err := game.New([]string{"bear", "lion"}, 4, 8)
	require.NoError(t, err)

	g := store.NewGame("anon-1", sess)
	require.NotEmpty(t, g.ID)
	assert.Equal(t, "anon-1", g.OwnerID)

	m := store.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, m.Save(ctx, g))

	got, err := m.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Same(t, g, got)
}

func TestMemoryStore_GetMissing(t *testing.T) {
	m := store.NewMemoryStore()
	_, err := m.Get(context.Background(), "nope")
	assert.Error(t, err)
}

func TestNewGame_UniqueIDs(t *testing.T) {
	sess, err := game.New([]string{"bear"}, 4, 8)
	require.NoError(t, err)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := store.NewGame("anon", sess).ID
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
