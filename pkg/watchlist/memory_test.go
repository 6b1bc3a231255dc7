package watchlist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	markettypes "github.com/junohq/agentskills/pkg/types/market"
)

func TestMemoryStoreAddOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	target := 150.0
	require.NoError(t, store.Add(ctx, markettypes.WatchlistEntry{
		Symbol:      "aapl",
		Type:        markettypes.AssetStock,
		TargetPrice: &target,
		AlertType:   markettypes.AlertAbove,
		AddedAt:     time.Now(),
	}))

	newTarget := 120.0
	require.NoError(t, store.Add(ctx, markettypes.WatchlistEntry{
		Symbol:      "AAPL",
		Type:        markettypes.AssetStock,
		TargetPrice: &newTarget,
		AlertType:   markettypes.AlertBelow,
		AddedAt:     time.Now(),
	}))

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1, "re-adding the same symbol must overwrite")
	assert.Equal(t, "AAPL", entries[0].Symbol)
	assert.Equal(t, markettypes.AlertBelow, entries[0].AlertType)
	assert.Equal(t, 120.0, *entries[0].TargetPrice)
}

func TestMemoryStoreRemove(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Add(ctx, markettypes.WatchlistEntry{
		Symbol: "BTC", Type: markettypes.AssetCrypto, AddedAt: time.Now(),
	}))

	removed, err := store.Remove(ctx, "btc")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.Remove(ctx, "BTC")
	require.NoError(t, err)
	assert.False(t, removed, "removing an absent symbol must report false")
}

func TestMemoryStoreListSorted(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for _, sym := range []string{"MSFT", "AAPL", "GOOG"} {
		require.NoError(t, store.Add(ctx, markettypes.WatchlistEntry{
			Symbol: sym, Type: markettypes.AssetStock, AddedAt: time.Now(),
		}))
	}

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "AAPL", entries[0].Symbol)
	assert.Equal(t, "GOOG", entries[1].Symbol)
	assert.Equal(t, "MSFT", entries[2].Symbol)
}

func TestMemoryStoreEmptyList(t *testing.T) {
	entries, err := NewMemoryStore().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
