package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuperTrend_SustainedUptrend(t *testing.T) {
	st := NewSuperTrend()
	candles := candlesFromCloses(risingCloses(80, 100, 0.5))

	sig := lastSignal(st, candles)
	require.NotNil(t, sig)

	assert.True(t, st.IsUpTrend())
	assert.Equal(t, KindBullish, sig.Kind)
	assert.Equal(t, 2, sig.Strength)
	assert.Equal(t, "Sustained uptrend", sig.Reason)

	upper, lower := st.Bands()
	assert.Greater(t, upper, lower)
	assert.InDelta(t, lower, st.CurrentValue(), 1e-9)
}

func TestSuperTrend_FlipOnReversal(t *testing.T) {
	st := NewSuperTrend()
	closes := append(risingCloses(60, 100, 0.5), fallingCloses(60, 129, 0.8)...)

	sigs := allSignals(st, candlesFromCloses(closes))
	require.NotEmpty(t, sigs)

	flipped := false
	for _, sig := range sigs {
		if sig.Reason == "Trend flip down" {
			flipped = true
			assert.Equal(t, -2, sig.Strength)
		}
	}
	assert.True(t, flipped, "expected a flip to downtrend")
	assert.False(t, st.IsUpTrend())

	last := sigs[len(sigs)-1]
	assert.Equal(t, KindBearish, last.Kind)
}

func TestSuperTrend_WarmupReturnsNoSignal(t *testing.T) {
	st := NewSuperTrend()
	candles := candlesFromCloses(risingCloses(9, 100, 0.5))

	for _, c := range candles {
		assert.Nil(t, st.Update(c))
	}
}

func TestSuperTrend_Metadata(t *testing.T) {
	st := NewSuperTrend()
	assert.Equal(t, "SuperTrend", st.Name())
	assert.Equal(t, CategoryTrend, st.Category())
	assert.Equal(t, 11, st.WarmupPeriod())
}
