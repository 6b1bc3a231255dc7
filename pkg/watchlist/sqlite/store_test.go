package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	markettypes "github.com/junohq/agentskills/pkg/types/market"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(context.Background(), filepath.Join(t.TempDir(), "watchlist.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreAddListRemove(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	target := 65000.0
	require.NoError(t, store.Add(ctx, markettypes.WatchlistEntry{
		Symbol:      "btc",
		Type:        markettypes.AssetCrypto,
		TargetPrice: &target,
		AlertType:   markettypes.AlertAbove,
		AddedAt:     time.Now().UTC(),
	}))

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "BTC", entries[0].Symbol)
	require.NotNil(t, entries[0].TargetPrice)
	assert.Equal(t, 65000.0, *entries[0].TargetPrice)

	removed, err := store.Remove(ctx, "BTC")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.Remove(ctx, "BTC")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestStoreUpsert(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Add(ctx, markettypes.WatchlistEntry{
		Symbol: "AAPL", Type: markettypes.AssetStock, AddedAt: time.Now().UTC(),
	}))

	target := 180.0
	require.NoError(t, store.Add(ctx, markettypes.WatchlistEntry{
		Symbol:      "AAPL",
		Type:        markettypes.AssetStock,
		TargetPrice: &target,
		AlertType:   markettypes.AlertBelow,
		AddedAt:     time.Now().UTC(),
	}))

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, markettypes.AlertBelow, entries[0].AlertType)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "watchlist.db")

	store, err := NewStore(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Add(ctx, markettypes.WatchlistEntry{
		Symbol: "ETH", Type: markettypes.AssetCrypto, AddedAt: time.Now().UTC(),
	}))
	require.NoError(t, store.Close())

	reopened, err := NewStore(ctx, dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	entries, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ETH", entries[0].Symbol)
}
