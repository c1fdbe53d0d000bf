package base

import (
	"github.com/ducminhle1904/perp-signal-bot/internal/indicators/common"
	"github.com/ducminhle1904/perp-signal-bot/pkg/types"
)

// DefaultATRPeriod is the standard Wilder ATR period.
const DefaultATRPeriod = 14

// Regime classifies current volatility by the ATR/close ratio.
type Regime int

const (
	RegimeLow Regime = iota
	RegimeNormal
	RegimeElevated
	RegimeHigh
)

// Regime bands for ATR/close, lower bound inclusive.
const (
	regimeNormalFloor   = 0.005
	regimeElevatedFloor = 0.015
	regimeHighFloor     = 0.03
)

func (r Regime) String() string {
	switch r {
	case RegimeLow:
		return "low"
	case RegimeNormal:
		return "normal"
	case RegimeElevated:
		return "elevated"
	default:
		return "high"
	}
}

// ATR is the Wilder-smoothed Average True Range. It emits no directional
// signal; SuperTrend, the volume profile and the SL/TP computation read it
// through Value and the risk ladder reads CurrentRegime.
type ATR struct {
	period    int
	ma        *common.WilderMA
	lastClose float64
	hasPrev   bool
	ratio     float64
}

// NewATR creates an ATR with the given period.
func NewATR(period int) *ATR {
	return &ATR{
		period: period,
		ma:     common.NewWilderMA(period),
	}
}

// Update feeds one candle and returns whether the ATR is warmed up.
func (a *ATR) Update(candle types.Candle) bool {
	tr := common.TrueRange(candle.High, candle.Low, a.lastClose, a.hasPrev)
	value, ready := a.ma.Update(tr)
	a.lastClose = candle.Close
	a.hasPrev = true
	if ready && candle.Close > 0 {
		a.ratio = value / candle.Close
	}
	return ready
}

// Ready reports whether the smoothing window has filled.
func (a *ATR) Ready() bool {
	return a.ma.Ready()
}

// Value returns the current ATR.
func (a *ATR) Value() float64 {
	return a.ma.Value()
}

// Ratio returns ATR divided by the latest close.
func (a *ATR) Ratio() float64 {
	return a.ratio
}

// CurrentRegime classifies the current ATR/close ratio.
func (a *ATR) CurrentRegime() Regime {
	switch {
	case a.ratio < regimeNormalFloor:
		return RegimeLow
	case a.ratio < regimeElevatedFloor:
		return RegimeNormal
	case a.ratio < regimeHighFloor:
		return RegimeElevated
	default:
		return RegimeHigh
	}
}

// WarmupPeriod returns the candles required before Value is meaningful.
func (a *ATR) WarmupPeriod() int {
	return a.period + 1
}
