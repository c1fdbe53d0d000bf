package indicators

import (
	"github.com/ducminhle1904/perp-signal-bot/internal/indicators/common"
	"github.com/ducminhle1904/perp-signal-bot/pkg/types"
)

const (
	// DefaultRSIPeriod is the standard Wilder RSI period.
	DefaultRSIPeriod = 14

	rsiOversold   = 30.0
	rsiOverbought = 70.0
)

type rsiZone int

const (
	rsiZoneUnknown rsiZone = iota
	rsiZoneNeutral
	rsiZoneOversold
	rsiZoneOverbought
)

// RSI is the Wilder-smoothed Relative Strength Index. Zone signals are
// edge-triggered: they start on an observed crossing of the 30/70 boundary
// and stand while the zone holds. An RSI born inside a zone stays silent
// until it has crossed out and back in. Divergences against price over the
// divergence window emit ±2 on the detection tick.
type RSI struct {
	period    int
	divWindow int

	avgGain *common.WilderMA
	avgLoss *common.WilderMA

	lastClose float64
	hasPrev   bool
	value     float64
	ready     bool

	zone         rsiZone
	zoneSignaled bool

	lows     []float64
	highs    []float64
	values   []float64
	divAgo int // bars since last divergence, -1 when none seen
}

// NewRSI creates an RSI with the default period and divergence window.
func NewRSI() *RSI {
	return NewRSIWithParams(DefaultRSIPeriod, DefaultRSIPeriod)
}

// NewRSIWithParams creates an RSI with a custom period and divergence window.
func NewRSIWithParams(period, divergenceWindow int) *RSI {
	return &RSI{
		period:    period,
		divWindow: divergenceWindow,
		avgGain:   common.NewWilderMA(period),
		avgLoss:   common.NewWilderMA(period),
		divAgo:    -1,
	}
}

// Update advances the RSI by one candle.
func (r *RSI) Update(candle types.Candle) *Signal {
	if !r.hasPrev {
		r.lastClose = candle.Close
		r.hasPrev = true
		return nil
	}

	change := candle.Close - r.lastClose
	r.lastClose = candle.Close

	gain, loss := 0.0, 0.0
	if change > 0 {
		gain = change
	} else {
		loss = -change
	}
	avgGain, readyG := r.avgGain.Update(gain)
	avgLoss, readyL := r.avgLoss.Update(loss)
	if !readyG || !readyL {
		return nil
	}

	switch {
	case avgLoss == 0 && avgGain == 0:
		r.value = 50
	case avgLoss == 0:
		r.value = 100
	default:
		rs := avgGain / avgLoss
		r.value = 100 - (100 / (1 + rs))
	}
	r.ready = true
	if r.divAgo >= 0 {
		r.divAgo++
	}

	sig := r.evaluate(candle)
	r.pushWindow(candle)
	return sig
}

func (r *RSI) evaluate(candle types.Candle) *Signal {
	if sig := r.checkDivergence(candle); sig != nil {
		r.classifyZone()
		return sig
	}

	prevZone := r.zone
	r.classifyZone()

	if prevZone == rsiZoneUnknown {
		// Born inside a zone: initialize silently.
		return neutral(r.Name(), r.Category())
	}
	if r.zone != prevZone {
		r.zoneSignaled = r.zone == rsiZoneOversold || r.zone == rsiZoneOverbought
	}
	if r.zoneSignaled {
		if r.zone == rsiZoneOversold {
			return bullish(r.Name(), r.Category(), 1, "Oversold")
		}
		return bearish(r.Name(), r.Category(), 1, "Overbought")
	}
	return neutral(r.Name(), r.Category())
}

func (r *RSI) classifyZone() {
	switch {
	case r.value < rsiOversold:
		r.zone = rsiZoneOversold
	case r.value > rsiOverbought:
		r.zone = rsiZoneOverbought
	default:
		r.zone = rsiZoneNeutral
		r.zoneSignaled = false
	}
}

// checkDivergence compares the current bar against the prior window: a new
// price extreme that the RSI strictly fails to follow is a divergence.
func (r *RSI) checkDivergence(candle types.Candle) *Signal {
	if len(r.values) < r.divWindow {
		return nil
	}
	minLow, maxHigh := r.lows[0], r.highs[0]
	minVal, maxVal := r.values[0], r.values[0]
	for i := 1; i < len(r.values); i++ {
		if r.lows[i] < minLow {
			minLow = r.lows[i]
		}
		if r.highs[i] > maxHigh {
			maxHigh = r.highs[i]
		}
		if r.values[i] < minVal {
			minVal = r.values[i]
		}
		if r.values[i] > maxVal {
			maxVal = r.values[i]
		}
	}
	if candle.Low < minLow && r.value > minVal {
		r.divAgo = 0
		return bullish(r.Name(), r.Category(), 2, "Bullish divergence")
	}
	if candle.High > maxHigh && r.value < maxVal {
		r.divAgo = 0
		return bearish(r.Name(), r.Category(), 2, "Bearish divergence")
	}
	return nil
}

func (r *RSI) pushWindow(candle types.Candle) {
	r.lows = append(r.lows, candle.Low)
	r.highs = append(r.highs, candle.High)
	r.values = append(r.values, r.value)
	if len(r.values) > r.divWindow {
		r.lows = r.lows[1:]
		r.highs = r.highs[1:]
		r.values = r.values[1:]
	}
}

// DivergenceInWindow reports whether a divergence fired within the last
// divergence-window bars. The risk ladder consumes this.
func (r *RSI) DivergenceInWindow() bool {
	return r.divAgo >= 0 && r.divAgo < r.divWindow
}

// CurrentValue returns the latest RSI.
func (r *RSI) CurrentValue() float64 {
	return r.value
}

// WarmupPeriod returns the candles required before signals are emitted.
func (r *RSI) WarmupPeriod() int {
	return r.period + 1
}

// Name returns the indicator name.
func (r *RSI) Name() string {
	return "RSI"
}

// Category returns the aggregation category.
func (r *RSI) Category() Category {
	return CategoryMomentum
}
