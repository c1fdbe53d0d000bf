package indicators

import (
	"github.com/ducminhle1904/perp-signal-bot/pkg/types"
)

// DefaultOBVWindow is the lookback for OBV/price divergence and
// confirmation checks.
const DefaultOBVWindow = 14

// OBV accumulates signed volume. A new price extreme that OBV fails to
// follow over the lookback window is a ±2 divergence; a joint new extreme
// is a ±1 confirmation.
type OBV struct {
	window int

	value     float64
	lastClose float64
	hasPrev   bool

	closes []float64
	values []float64
}

// NewOBV creates an OBV with the default divergence window.
func NewOBV() *OBV {
	return NewOBVWithWindow(DefaultOBVWindow)
}

// NewOBVWithWindow creates an OBV with a custom divergence window.
func NewOBVWithWindow(window int) *OBV {
	return &OBV{window: window}
}

// Update advances the OBV by one candle.
func (o *OBV) Update(candle types.Candle) *Signal {
	if !o.hasPrev {
		o.lastClose = candle.Close
		o.hasPrev = true
		o.push(candle.Close)
		return nil
	}

	if candle.Close > o.lastClose {
		o.value += candle.Volume
	} else if candle.Close < o.lastClose {
		o.value -= candle.Volume
	}
	o.lastClose = candle.Close

	sig := o.evaluate(candle.Close)
	o.push(candle.Close)
	return sig
}

func (o *OBV) evaluate(close float64) *Signal {
	if len(o.closes) < o.window {
		return nil
	}

	minClose, maxClose := o.closes[0], o.closes[0]
	minOBV, maxOBV := o.values[0], o.values[0]
	for i := 1; i < len(o.closes); i++ {
		if o.closes[i] < minClose {
			minClose = o.closes[i]
		}
		if o.closes[i] > maxClose {
			maxClose = o.closes[i]
		}
		if o.values[i] < minOBV {
			minOBV = o.values[i]
		}
		if o.values[i] > maxOBV {
			maxOBV = o.values[i]
		}
	}

	priceNewLow := close < minClose
	priceNewHigh := close > maxClose
	obvNewLow := o.value < minOBV
	obvNewHigh := o.value > maxOBV

	switch {
	case priceNewLow && o.value > minOBV:
		return bullish(o.Name(), o.Category(), 2, "Bullish divergence")
	case priceNewHigh && o.value < maxOBV:
		return bearish(o.Name(), o.Category(), 2, "Bearish divergence")
	case priceNewHigh && obvNewHigh:
		return bullish(o.Name(), o.Category(), 1, "Bullish volume confirmation")
	case priceNewLow && obvNewLow:
		return bearish(o.Name(), o.Category(), 1, "Bearish volume confirmation")
	default:
		return neutral(o.Name(), o.Category())
	}
}

func (o *OBV) push(close float64) {
	o.closes = append(o.closes, close)
	o.values = append(o.values, o.value)
	if len(o.closes) > o.window {
		o.closes = o.closes[1:]
		o.values = o.values[1:]
	}
}

// CurrentValue returns the cumulative OBV.
func (o *OBV) CurrentValue() float64 {
	return o.value
}

// WarmupPeriod returns the candles required before signals are emitted.
func (o *OBV) WarmupPeriod() int {
	return o.window + 1
}

// Name returns the indicator name.
func (o *OBV) Name() string {
	return "OBV"
}

// Category returns the aggregation category.
func (o *OBV) Category() Category {
	return CategoryVolume
}
