// Package market holds the shared market-data types consumed by the
// stock/crypto analyzer skill and its watchlist store implementations.
package market

import (
	"context"
	"time"
)

// Asset types accepted by the analyzer.
const (
	AssetStock  = "stock"
	AssetCrypto = "crypto"
)

// Alert directions for watchlist entries.
const (
	AlertAbove = "above"
	AlertBelow = "below"
)

// ValidAssetType reports whether t is a supported asset type.
func ValidAssetType(t string) bool {
	return t == AssetStock || t == AssetCrypto
}

// ValidAlertType reports whether t is a supported alert direction.
func ValidAlertType(t string) bool {
	return t == AlertAbove || t == AlertBelow
}

// WatchlistEntry is one tracked symbol. Symbol is stored uppercase and
// is the unique key; re-adding the same symbol overwrites the entry.
type WatchlistEntry struct {
	Symbol      string    `json:"symbol" db:"symbol"`
	Type        string    `json:"type" db:"asset_type"`
	TargetPrice *float64  `json:"targetPrice,omitempty" db:"target_price"`
	AlertType   string    `json:"alertType,omitempty" db:"alert_type"`
	AddedAt     time.Time `json:"addedAt" db:"added_at"`
}

// WatchlistStore is the repository interface behind the watchlist
// actions. The in-memory implementation lives in pkg/watchlist; a
// SQLite-backed implementation lives in pkg/watchlist/sqlite.
type WatchlistStore interface {
	// Add inserts or overwrites the entry keyed by its uppercase symbol.
	Add(ctx context.Context, entry WatchlistEntry) error
	// Remove deletes the entry for symbol. Returns false if absent.
	Remove(ctx context.Context, symbol string) (bool, error)
	// List returns all entries ordered by symbol.
	List(ctx context.Context) ([]WatchlistEntry, error)
}
