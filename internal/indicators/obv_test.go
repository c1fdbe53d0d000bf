package indicators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/perp-signal-bot/pkg/types"
)

func TestOBV_AccumulatesSignedVolume(t *testing.T) {
	obv := NewOBV()
	closes := []float64{100, 101, 102, 101, 103}

	for _, c := range candlesFromCloses(closes) {
		obv.Update(c)
	}

	// +1000 +1000 -1000 +1000
	assert.InDelta(t, 2000.0, obv.CurrentValue(), 1e-9)
}

func TestOBV_BullishConfirmationInUptrend(t *testing.T) {
	obv := NewOBV()
	candles := candlesFromCloses(risingCloses(30, 100, 1))

	sig := lastSignal(obv, candles)
	require.NotNil(t, sig)

	assert.Equal(t, KindBullish, sig.Kind)
	assert.Equal(t, 1, sig.Strength)
	assert.Equal(t, "Bullish volume confirmation", sig.Reason)
}

func TestOBV_BearishConfirmationInDowntrend(t *testing.T) {
	obv := NewOBV()
	candles := candlesFromCloses(fallingCloses(30, 100, 1))

	sig := lastSignal(obv, candles)
	require.NotNil(t, sig)

	assert.Equal(t, KindBearish, sig.Kind)
	assert.Equal(t, -1, sig.Strength)
}

func TestOBV_BearishDivergence(t *testing.T) {
	obv := NewOBV()

	// Price grinds to new highs on thin volume while heavy selling drains
	// OBV: the fresh price extreme is not followed by cumulative volume.
	candles := make([]types.Candle, 0, 40)
	price := 100.0
	for i := 0; i < 40; i++ {
		var volume float64
		if i%2 == 0 {
			price += 2 // thin rally to a new high
			volume = 10
		} else {
			price -= 1 // heavy distribution
			volume = 1000
		}
		candles = append(candles, types.Candle{
			Open:      price,
			High:      price + 0.1,
			Low:       price - 0.1,
			Close:     price,
			Volume:    volume,
			Timestamp: testBase.Add(time.Duration(i) * time.Minute),
		})
	}

	sigs := allSignals(obv, candles)
	require.NotEmpty(t, sigs)

	found := false
	for _, sig := range sigs {
		if sig.Reason == "Bearish divergence" {
			found = true
			assert.Equal(t, -2, sig.Strength)
		}
	}
	assert.True(t, found, "expected a bearish OBV divergence")
}

func TestOBV_Metadata(t *testing.T) {
	obv := NewOBV()
	assert.Equal(t, "OBV", obv.Name())
	assert.Equal(t, CategoryVolume, obv.Category())
	assert.Equal(t, 15, obv.WarmupPeriod())
}
