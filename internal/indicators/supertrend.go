package indicators

import (
	"github.com/ducminhle1904/perp-signal-bot/internal/indicators/base"
	"github.com/ducminhle1904/perp-signal-bot/pkg/types"
)

// Default SuperTrend parameters.
const (
	DefaultSuperTrendPeriod     = 10
	DefaultSuperTrendMultiplier = 3.0
)

// SuperTrend maintains upper/lower bands at HL2 +/- multiplier*ATR and a
// trend side. A side flip emits ±2 on the flip tick and re-asserts once the
// side has held past the trend confirmation period; the close crossing the
// far band in the direction of the side emits a ±1 continuation.
type SuperTrend struct {
	multiplier float64
	atr        *base.ATR

	upTrend        bool
	hasSide        bool
	sideAge        int
	prevClose      float64
	finalUpperBand float64
	finalLowerBand float64
	value          float64
	valueHistory   []float64
}

// NewSuperTrend creates a SuperTrend with the default 10 / 3.0 parameters.
func NewSuperTrend() *SuperTrend {
	return NewSuperTrendWithParams(DefaultSuperTrendPeriod, DefaultSuperTrendMultiplier)
}

// NewSuperTrendWithParams creates a SuperTrend with a custom ATR period and
// band multiplier.
func NewSuperTrendWithParams(period int, multiplier float64) *SuperTrend {
	return &SuperTrend{
		multiplier: multiplier,
		atr:        base.NewATR(period),
	}
}

// Update advances the SuperTrend by one candle.
func (st *SuperTrend) Update(candle types.Candle) *Signal {
	ready := st.atr.Update(candle)
	if !ready {
		st.prevClose = candle.Close
		return nil
	}

	median := candle.HL2()
	atrValue := st.atr.Value()
	basicUpper := median + st.multiplier*atrValue
	basicLower := median - st.multiplier*atrValue

	if !st.hasSide {
		st.finalUpperBand = basicUpper
		st.finalLowerBand = basicLower
		st.upTrend = candle.Close >= median
		st.hasSide = true
		st.sideAge = 0
		st.prevClose = candle.Close
		st.updateValue()
		st.pushValue()
		return neutral(st.Name(), st.Category())
	}

	prevUpper := st.finalUpperBand
	prevLower := st.finalLowerBand

	// Band carry: bands only ratchet toward price until broken.
	if basicUpper < st.finalUpperBand || st.prevClose > st.finalUpperBand {
		st.finalUpperBand = basicUpper
	}
	if basicLower > st.finalLowerBand || st.prevClose < st.finalLowerBand {
		st.finalLowerBand = basicLower
	}

	flipped := false
	if st.upTrend {
		if candle.Close < st.finalLowerBand {
			st.upTrend = false
			flipped = true
		}
	} else {
		if candle.Close > st.finalUpperBand {
			st.upTrend = true
			flipped = true
		}
	}

	continuation := false
	if !flipped {
		if st.upTrend && st.prevClose <= prevUpper && candle.Close > st.finalUpperBand {
			continuation = true
		}
		if !st.upTrend && st.prevClose >= prevLower && candle.Close < st.finalLowerBand {
			continuation = true
		}
	}

	if flipped {
		st.sideAge = 0
		st.valueHistory = st.valueHistory[:0]
	} else {
		st.sideAge++
	}
	st.prevClose = candle.Close
	st.updateValue()
	st.pushValue()

	switch {
	case flipped && st.upTrend:
		return bullish(st.Name(), st.Category(), 2, "Trend flip up")
	case flipped:
		return bearish(st.Name(), st.Category(), 2, "Trend flip down")
	case continuation && st.upTrend:
		return bullish(st.Name(), st.Category(), 1, "Uptrend continuation")
	case continuation:
		return bearish(st.Name(), st.Category(), 1, "Downtrend continuation")
	case st.sideAge >= trendConfirmBars && st.upTrend && st.bandAdvancing():
		return bullish(st.Name(), st.Category(), 2, "Sustained uptrend")
	case st.sideAge >= trendConfirmBars && !st.upTrend && st.bandAdvancing():
		return bearish(st.Name(), st.Category(), 2, "Sustained downtrend")
	default:
		return neutral(st.Name(), st.Category())
	}
}

func (st *SuperTrend) pushValue() {
	st.valueHistory = append(st.valueHistory, st.value)
	if len(st.valueHistory) > trendConfirmBars+1 {
		st.valueHistory = st.valueHistory[1:]
	}
}

// bandAdvancing reports whether the active band has ratcheted in the trend
// direction over the confirmation window: a rising support in an uptrend,
// a falling resistance in a downtrend. A parked band is a range, not a
// trend.
func (st *SuperTrend) bandAdvancing() bool {
	if len(st.valueHistory) <= trendConfirmBars {
		return false
	}
	oldest := st.valueHistory[0]
	if st.upTrend {
		return st.value > oldest
	}
	return st.value < oldest
}

func (st *SuperTrend) updateValue() {
	if st.upTrend {
		st.value = st.finalLowerBand
	} else {
		st.value = st.finalUpperBand
	}
}

// IsUpTrend reports the current trend side.
func (st *SuperTrend) IsUpTrend() bool {
	return st.upTrend
}

// Bands returns the current final upper and lower bands.
func (st *SuperTrend) Bands() (upper, lower float64) {
	return st.finalUpperBand, st.finalLowerBand
}

// CurrentValue returns the active band value.
func (st *SuperTrend) CurrentValue() float64 {
	return st.value
}

// WarmupPeriod returns the candles required before signals are emitted.
func (st *SuperTrend) WarmupPeriod() int {
	return st.atr.WarmupPeriod()
}

// Name returns the indicator name.
func (st *SuperTrend) Name() string {
	return "SuperTrend"
}

// Category returns the aggregation category.
func (st *SuperTrend) Category() Category {
	return CategoryTrend
}
