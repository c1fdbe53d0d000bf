package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEMACross_StrongUptrendStands(t *testing.T) {
	ema := NewEMACross()
	candles := candlesFromCloses(risingCloses(120, 100, 0.5))

	sig := lastSignal(ema, candles)
	require.NotNil(t, sig)

	assert.Equal(t, KindBullish, sig.Kind)
	assert.Equal(t, 1, sig.Strength)
	assert.Equal(t, "Strong uptrend", sig.Reason)

	fast, slow := ema.Values()
	assert.Greater(t, fast, slow)
}

func TestEMACross_GoldenCrossOnReversal(t *testing.T) {
	ema := NewEMACross()
	closes := append(fallingCloses(80, 150, 0.3), risingCloses(80, 126, 0.5)...)

	sigs := allSignals(ema, candlesFromCloses(closes))
	require.NotEmpty(t, sigs)

	crossed := false
	for _, sig := range sigs {
		if sig.Reason == "Golden cross" {
			crossed = true
			assert.Equal(t, 2, sig.Strength)
		}
	}
	assert.True(t, crossed, "expected a golden cross during the recovery")

	last := sigs[len(sigs)-1]
	assert.Equal(t, KindBullish, last.Kind)
	assert.Equal(t, 1, last.Strength)
}

func TestEMACross_DeathCrossOnBreakdown(t *testing.T) {
	ema := NewEMACross()
	closes := append(risingCloses(80, 100, 0.3), fallingCloses(80, 124, 0.5)...)

	sigs := allSignals(ema, candlesFromCloses(closes))
	require.NotEmpty(t, sigs)

	crossed := false
	for _, sig := range sigs {
		if sig.Reason == "Death cross" {
			crossed = true
			assert.Equal(t, -2, sig.Strength)
		}
	}
	assert.True(t, crossed, "expected a death cross during the breakdown")
}

func TestEMACross_WarmupReturnsNoSignal(t *testing.T) {
	ema := NewEMACross()
	candles := candlesFromCloses(risingCloses(ema.WarmupPeriod()-1, 100, 0.5))

	for _, c := range candles {
		assert.Nil(t, ema.Update(c))
	}
}

func TestEMACross_Metadata(t *testing.T) {
	ema := NewEMACross()
	assert.Equal(t, "EMA Cross", ema.Name())
	assert.Equal(t, CategoryTrend, ema.Category())
	assert.Equal(t, 50, ema.WarmupPeriod())
}
