package base

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/perp-signal-bot/pkg/types"
)

// constantRangeCandles produces flat closes at price with a fixed high-low
// spread, so the ATR converges to exactly that spread.
func constantRangeCandles(n int, price, spread float64) []types.Candle {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]types.Candle, n)
	for i := range candles {
		candles[i] = types.Candle{
			Open:      price,
			High:      price + spread/2,
			Low:       price - spread/2,
			Close:     price,
			Volume:    1000,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
	}
	return candles
}

func feed(a *ATR, candles []types.Candle) {
	for _, c := range candles {
		a.Update(c)
	}
}

func TestATR_ConstantRange(t *testing.T) {
	a := NewATR(14)
	feed(a, constantRangeCandles(40, 100, 2))

	require.True(t, a.Ready())
	assert.InDelta(t, 2.0, a.Value(), 1e-9)
	assert.InDelta(t, 0.02, a.Ratio(), 1e-9)
}

func TestATR_NotReadyBeforeWarmup(t *testing.T) {
	a := NewATR(14)
	feed(a, constantRangeCandles(10, 100, 2))
	assert.False(t, a.Ready())
}

func TestATR_RegimeBoundariesInclusive(t *testing.T) {
	tests := []struct {
		name   string
		spread float64
		want   Regime
	}{
		{"low below half percent", 0.49, RegimeLow},
		{"normal at exactly half percent", 0.5, RegimeNormal},
		{"normal below 1.5 percent", 1.49, RegimeNormal},
		{"elevated at exactly 1.5 percent", 1.5, RegimeElevated},
		{"elevated below 3 percent", 2.99, RegimeElevated},
		{"high at exactly 3 percent", 3.0, RegimeHigh},
		{"high above 3 percent", 6.0, RegimeHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewATR(14)
			feed(a, constantRangeCandles(60, 100, tt.spread))
			assert.Equal(t, tt.want, a.CurrentRegime())
		})
	}
}

func TestRegime_String(t *testing.T) {
	assert.Equal(t, "low", RegimeLow.String())
	assert.Equal(t, "normal", RegimeNormal.String())
	assert.Equal(t, "elevated", RegimeElevated.String())
	assert.Equal(t, "high", RegimeHigh.String())
}
