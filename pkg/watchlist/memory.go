// Package watchlist provides the in-memory WatchlistStore used by the
// stock/crypto analyzer. Entries live for the process lifetime with no
// expiry; the SQLite-backed store in the sqlite subpackage persists
// them across restarts.
package watchlist

import (
	"context"
	"sort"
	"strings"
	"sync"

	markettypes "github.com/junohq/agentskills/pkg/types/market"
)

// MemoryStore keeps watchlist entries in a map keyed by uppercase
// symbol. All operations are safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]markettypes.WatchlistEntry
}

var _ markettypes.WatchlistStore = &MemoryStore{}

// NewMemoryStore creates an empty in-memory watchlist store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]markettypes.WatchlistEntry),
	}
}

// Add inserts or overwrites the entry keyed by its uppercase symbol.
func (s *MemoryStore) Add(_ context.Context, entry markettypes.WatchlistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.Symbol = strings.ToUpper(entry.Symbol)
	s.entries[entry.Symbol] = entry
	return nil
}

// Remove deletes the entry for symbol, returning false when absent.
func (s *MemoryStore) Remove(_ context.Context, symbol string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToUpper(symbol)
	if _, ok := s.entries[key]; !ok {
		return false, nil
	}
	delete(s.entries, key)
	return true, nil
}

// List returns all entries ordered by symbol.
func (s *MemoryStore) List(_ context.Context) ([]markettypes.WatchlistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]markettypes.WatchlistEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Symbol < entries[j].Symbol
	})
	return entries, nil
}
