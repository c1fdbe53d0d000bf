package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	mean, ok := SMA(values, 5)
	require.True(t, ok)
	assert.InDelta(t, 3.0, mean, 1e-9)

	mean, ok = SMA(values, 2)
	require.True(t, ok)
	assert.InDelta(t, 4.5, mean, 1e-9)
}

func TestSMA_InsufficientData(t *testing.T) {
	_, ok := SMA([]float64{1, 2}, 3)
	assert.False(t, ok)

	_, ok = SMA(nil, 1)
	assert.False(t, ok)
}

func TestStdDev(t *testing.T) {
	// Population stddev of {2, 4, 4, 4, 5, 5, 7, 9} is exactly 2.
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	sigma, ok := StdDev(values, 8)
	require.True(t, ok)
	assert.InDelta(t, 2.0, sigma, 1e-9)
}

func TestStdDev_Constant(t *testing.T) {
	sigma, ok := StdDev([]float64{3, 3, 3, 3}, 4)
	require.True(t, ok)
	assert.InDelta(t, 0.0, sigma, 1e-9)
}

func TestTrueRange(t *testing.T) {
	// No previous close: plain high-low.
	assert.InDelta(t, 5.0, TrueRange(105, 100, 0, false), 1e-9)

	// Gap up: |high - prevClose| dominates.
	assert.InDelta(t, 15.0, TrueRange(105, 100, 90, true), 1e-9)

	// Gap down: |low - prevClose| dominates.
	assert.InDelta(t, 10.0, TrueRange(105, 100, 110, true), 1e-9)
}

func TestEMA_SeededBySMA(t *testing.T) {
	ema := NewEMA(3)

	_, ready := ema.Update(1)
	assert.False(t, ready)
	_, ready = ema.Update(2)
	assert.False(t, ready)

	value, ready := ema.Update(3)
	require.True(t, ready)
	assert.InDelta(t, 2.0, value, 1e-9) // SMA of first three

	// alpha = 2/(3+1) = 0.5
	value, _ = ema.Update(4)
	assert.InDelta(t, 3.0, value, 1e-9)
}

func TestWilderMA(t *testing.T) {
	ma := NewWilderMA(2)

	_, ready := ma.Update(2)
	assert.False(t, ready)

	value, ready := ma.Update(4)
	require.True(t, ready)
	assert.InDelta(t, 3.0, value, 1e-9)

	// Wilder: (prev*(n-1) + x) / n = (3 + 5) / 2
	value, _ = ma.Update(5)
	assert.InDelta(t, 4.0, value, 1e-9)
}
