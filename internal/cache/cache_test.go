package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/perp-signal-bot/pkg/types"
)

func testCandles() []types.Candle {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return []types.Candle{
		{Open: 100, High: 101, Low: 99, Close: 100.5, Volume: 1000, Timestamp: base},
		{Open: 100.5, High: 102, Low: 100, Close: 101.5, Volume: 1200, Timestamp: base.Add(time.Minute)},
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "BTCUSDT:1:200", Key("BTCUSDT", "1", 200))
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	candles := testCandles()
	require.NoError(t, c.Set(ctx, "k", candles, time.Minute))

	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, candles, got)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", testCandles(), -time.Second))

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "expired entries are misses")
}

func TestMemoryCache_Delete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", testCandles(), time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, c.Delete(ctx, "missing"))
}

func TestMemoryCache_ReturnsCopy(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", testCandles(), time.Minute))
	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)

	got[0].Close = 0
	again, _, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.InDelta(t, 100.5, again[0].Close, 1e-9, "mutating a result must not corrupt the cache")
}
