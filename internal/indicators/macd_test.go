package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMACD_SustainedUptrendAssertsBullishRegime(t *testing.T) {
	macd := NewMACD()
	candles := candlesFromCloses(risingCloses(90, 100, 0.5))

	sig := lastSignal(macd, candles)
	require.NotNil(t, sig)

	assert.Equal(t, KindBullish, sig.Kind)
	assert.Equal(t, 2, sig.Strength)
	assert.Equal(t, "Bullish crossover", sig.Reason)

	line, signalLine, histogram := macd.Values()
	assert.Greater(t, line, 0.0)
	assert.Greater(t, line, signalLine)
	assert.Greater(t, histogram, 0.0)
}

func TestMACD_SustainedDowntrendAssertsBearishRegime(t *testing.T) {
	macd := NewMACD()
	candles := candlesFromCloses(fallingCloses(90, 200, 0.5))

	sig := lastSignal(macd, candles)
	require.NotNil(t, sig)

	assert.Equal(t, KindBearish, sig.Kind)
	assert.Equal(t, -2, sig.Strength)
}

func TestMACD_CrossoverOnReversal(t *testing.T) {
	macd := NewMACD()
	closes := append(fallingCloses(60, 150, 0.3), risingCloses(60, 132, 0.5)...)

	sigs := allSignals(macd, candlesFromCloses(closes))
	require.NotEmpty(t, sigs)

	found := false
	for _, sig := range sigs {
		if sig.Reason == "Bullish crossover" && sig.Strength == 2 {
			found = true
		}
	}
	assert.True(t, found, "expected a bullish crossover after the pivot")

	// The recovered regime stands at the end.
	last := sigs[len(sigs)-1]
	assert.Equal(t, KindBullish, last.Kind)
	assert.Equal(t, 2, last.Strength)
}

func TestMACD_WarmupReturnsNoSignal(t *testing.T) {
	macd := NewMACD()
	candles := candlesFromCloses(risingCloses(30, 100, 0.5))

	for _, c := range candles {
		assert.Nil(t, macd.Update(c))
	}
}

func TestMACD_Metadata(t *testing.T) {
	macd := NewMACD()
	assert.Equal(t, "MACD", macd.Name())
	assert.Equal(t, CategoryMomentum, macd.Category())
	assert.Equal(t, 35, macd.WarmupPeriod())
}
