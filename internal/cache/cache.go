package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/ducminhle1904/perp-signal-bot/pkg/types"
)

// CandleCache sits between the market-data provider and the engine so
// scheduled evaluations within the same bar don't refetch history.
// Delete invalidates a window early, e.g. when a live stream reports a
// newly closed bar.
type CandleCache interface {
	Get(ctx context.Context, key string) ([]types.Candle, bool, error)
	Set(ctx context.Context, key string, candles []types.Candle, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key builds the cache key for a symbol/interval/limit fetch.
func Key(symbol, interval string, limit int) string {
	return symbol + ":" + interval + ":" + strconv.Itoa(limit)
}

type memoryEntry struct {
	candles   []types.Candle
	expiresAt time.Time
}

// MemoryCache is a process-local TTL cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

// Get returns the cached window when present and unexpired.
func (m *MemoryCache) Get(_ context.Context, key string) ([]types.Candle, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false, nil
	}
	out := make([]types.Candle, len(entry.candles))
	copy(out, entry.candles)
	return out, true, nil
}

// Set stores a copy of the window with the given TTL.
func (m *MemoryCache) Set(_ context.Context, key string, candles []types.Candle, ttl time.Duration) error {
	stored := make([]types.Candle, len(candles))
	copy(stored, candles)
	m.mu.Lock()
	m.entries[key] = memoryEntry{candles: stored, expiresAt: time.Now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

// Delete drops the entry for key.
func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Close is a no-op.
func (m *MemoryCache) Close() error {
	return nil
}
