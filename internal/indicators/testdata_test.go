package indicators

import (
	"time"

	"github.com/ducminhle1904/perp-signal-bot/pkg/types"
)

var testBase = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// candlesFromCloses builds one-minute bars around a close series with a
// small symmetric high/low spread.
func candlesFromCloses(closes []float64) []types.Candle {
	candles := make([]types.Candle, len(closes))
	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1]
		}
		high := c
		if open > high {
			high = open
		}
		low := c
		if open < low {
			low = open
		}
		candles[i] = types.Candle{
			Open:      open,
			High:      high * 1.0005,
			Low:       low * 0.9995,
			Close:     c,
			Volume:    1000,
			Timestamp: testBase.Add(time.Duration(i) * time.Minute),
		}
	}
	return candles
}

func risingCloses(n int, start, step float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + float64(i)*step
	}
	return closes
}

func fallingCloses(n int, start, step float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start - float64(i)*step
	}
	return closes
}

func flatCloses(n int, level float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = level
	}
	return closes
}

// lastSignal folds the candles through the indicator and returns the last
// non-nil signal.
func lastSignal(ind Indicator, candles []types.Candle) *Signal {
	var last *Signal
	for _, c := range candles {
		if sig := ind.Update(c); sig != nil {
			last = sig
		}
	}
	return last
}

// allSignals folds the candles and returns every emitted signal.
func allSignals(ind Indicator, candles []types.Candle) []*Signal {
	var out []*Signal
	for _, c := range candles {
		if sig := ind.Update(c); sig != nil {
			out = append(out, sig)
		}
	}
	return out
}
