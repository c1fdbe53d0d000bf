package indicators

import (
	"math"

	"github.com/ducminhle1904/perp-signal-bot/internal/indicators/base"
	"github.com/ducminhle1904/perp-signal-bot/pkg/types"
)

// Open-interest thresholds.
const (
	DefaultOpenInterestWindow = 24

	oiChangeThreshold = 0.05 // 5% over the window
	oiFlatATRFactor   = 0.5  // price "unchanged" band in ATRs
)

// OpenInterest reads capital flow from the open-interest history: OI
// expanding with a price move confirms the move (±2), OI contracting while
// price sits still signals positions unwinding (±1). The series is
// exogenous; prime it with SetSeries before folding candles.
type OpenInterest struct {
	window int
	series []float64
	atr    *base.ATR
	closes []float64
}

// NewOpenInterest creates an open-interest indicator over the default
// 24-sample window.
func NewOpenInterest() *OpenInterest {
	return NewOpenInterestWithWindow(DefaultOpenInterestWindow)
}

// NewOpenInterestWithWindow creates an open-interest indicator with a
// custom window.
func NewOpenInterestWithWindow(window int) *OpenInterest {
	return &OpenInterest{
		window: window,
		atr:    base.NewATR(base.DefaultATRPeriod),
	}
}

// SetSeries supplies the open-interest history, oldest first.
func (oi *OpenInterest) SetSeries(values []float64) {
	oi.series = append(oi.series[:0], values...)
}

// Change returns the relative OI change across the supplied window, or
// false when fewer than two samples are available.
func (oi *OpenInterest) Change() (float64, bool) {
	n := len(oi.series)
	if n < 2 {
		return 0, false
	}
	start := 0
	if n > oi.window {
		start = n - oi.window
	}
	first := oi.series[start]
	if first == 0 {
		return 0, false
	}
	return oi.series[n-1]/first - 1, true
}

// Update advances the price tracking and emits the standing OI signal.
func (oi *OpenInterest) Update(candle types.Candle) *Signal {
	oi.atr.Update(candle)
	oi.closes = append(oi.closes, candle.Close)
	if len(oi.closes) > oi.window+1 {
		oi.closes = oi.closes[1:]
	}

	change, ok := oi.Change()
	if !ok || !oi.atr.Ready() || len(oi.closes) < 2 {
		return nil
	}

	priceDelta := candle.Close - oi.closes[0]
	flatBand := oiFlatATRFactor * oi.atr.Value()

	switch {
	case change >= oiChangeThreshold && math.Abs(priceDelta) > flatBand:
		if priceDelta > 0 {
			return bullish(oi.Name(), oi.Category(), 2, "Open interest expansion")
		}
		return bearish(oi.Name(), oi.Category(), 2, "Open interest expansion")
	case change <= -oiChangeThreshold && math.Abs(priceDelta) <= flatBand:
		if priceDelta >= 0 {
			return bullish(oi.Name(), oi.Category(), 1, "Open interest squeeze")
		}
		return bearish(oi.Name(), oi.Category(), 1, "Open interest squeeze")
	default:
		return neutral(oi.Name(), oi.Category())
	}
}

// CurrentValue returns the latest open-interest sample, or zero when the
// series is empty.
func (oi *OpenInterest) CurrentValue() float64 {
	if len(oi.series) == 0 {
		return 0
	}
	return oi.series[len(oi.series)-1]
}

// WarmupPeriod returns the candles required for the price-delta baseline.
func (oi *OpenInterest) WarmupPeriod() int {
	return oi.atr.WarmupPeriod()
}

// Name returns the indicator name.
func (oi *OpenInterest) Name() string {
	return "Open Interest"
}

// Category returns the aggregation category.
func (oi *OpenInterest) Category() Category {
	return CategoryPerp
}
