package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/perp-signal-bot/internal/signals"
)

func testOutput(ts time.Time, direction signals.Direction) *signals.Output {
	return &signals.Output{
		Symbol:          "BTCUSDT",
		Timestamp:       ts,
		Direction:       direction,
		MarketBias:      signals.BiasBullish,
		Confidence:      0.66,
		RiskLevel:       signals.RiskMedium,
		TotalScore:      6,
		NormalizedScore: (6.0 + 13) / 26,
		PerCategoryScores: []signals.CategoryScore{
			{Category: "momentum", Score: 2, ContributingReasons: []string{"Bullish crossover"}},
			{Category: "trend", Score: 3, ContributingReasons: []string{"Sustained uptrend"}},
			{Category: "volatility", Score: 0, ContributingReasons: []string{}},
			{Category: "volume", Score: 1, ContributingReasons: []string{"Bullish volume confirmation"}},
			{Category: "perp", Score: 0, ContributingReasons: []string{}},
		},
		Reasons:          []string{"Bullish crossover", "Sustained uptrend", "Bullish volume confirmation"},
		RecommendedSLPct: 0.0036,
		RecommendedTPPct: 0.006,
		ATRValue:         0.3,
	}
}

func newTestSink(t *testing.T) *SQLiteSink {
	t.Helper()
	sink, err := NewSQLiteSink(filepath.Join(t.TempDir(), "signals.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sink.Close() })
	return sink
}

func TestSQLiteSink_StoreAndLatest(t *testing.T) {
	sink := newTestSink(t)
	ctx := context.Background()
	ts := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	original := testOutput(ts, signals.DirectionLong)
	require.NoError(t, sink.Store(ctx, original))

	got, err := sink.Latest(ctx, "BTCUSDT")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, original, got)
}

func TestSQLiteSink_LatestPicksNewest(t *testing.T) {
	sink := newTestSink(t)
	ctx := context.Background()
	ts := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, sink.Store(ctx, testOutput(ts, signals.DirectionLong)))
	newer := testOutput(ts.Add(time.Minute), signals.DirectionShort)
	require.NoError(t, sink.Store(ctx, newer))

	got, err := sink.Latest(ctx, "BTCUSDT")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, signals.DirectionShort, got.Direction)
}

func TestSQLiteSink_LatestUnknownSymbol(t *testing.T) {
	sink := newTestSink(t)

	got, err := sink.Latest(context.Background(), "DOGEUSDT")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNoopSink(t *testing.T) {
	sink := NoopSink{}
	ctx := context.Background()

	assert.NoError(t, sink.Store(ctx, testOutput(time.Now(), signals.DirectionLong)))
	got, err := sink.Latest(ctx, "BTCUSDT")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, sink.Close())
}
