package indicators

import (
	"github.com/ducminhle1904/perp-signal-bot/internal/indicators/common"
	"github.com/ducminhle1904/perp-signal-bot/pkg/types"
)

// Default EMA crossover periods.
const (
	DefaultEMACrossFast = 20
	DefaultEMACrossSlow = 50
)

// EMACross watches the 20/50 EMA pair. A golden/death cross emits ±2 on
// the flip tick; once the ordering has held for the trend confirmation
// period with the close on the trend side, the sustained-trend ±1 signal
// stands.
type EMACross struct {
	fastEMA *common.EMA
	slowEMA *common.EMA

	fastAbove bool
	hasSide   bool
	sideAge   int
}

// NewEMACross creates an EMA crossover with the default 20/50 periods.
func NewEMACross() *EMACross {
	return NewEMACrossWithParams(DefaultEMACrossFast, DefaultEMACrossSlow)
}

// NewEMACrossWithParams creates an EMA crossover with custom periods.
func NewEMACrossWithParams(fast, slow int) *EMACross {
	return &EMACross{
		fastEMA: common.NewEMA(fast),
		slowEMA: common.NewEMA(slow),
	}
}

// Update advances both EMAs by one candle.
func (e *EMACross) Update(candle types.Candle) *Signal {
	fast, fastReady := e.fastEMA.Update(candle.Close)
	slow, slowReady := e.slowEMA.Update(candle.Close)
	if !fastReady || !slowReady {
		return nil
	}

	above := fast > slow
	crossed := e.hasSide && above != e.fastAbove
	if !e.hasSide || crossed {
		e.fastAbove = above
		e.sideAge = 0
		e.hasSide = true
	} else {
		e.sideAge++
	}

	switch {
	case crossed && above:
		return bullish(e.Name(), e.Category(), 2, "Golden cross")
	case crossed:
		return bearish(e.Name(), e.Category(), 2, "Death cross")
	case e.sideAge >= trendConfirmBars && above && candle.Close > slow:
		return bullish(e.Name(), e.Category(), 1, "Strong uptrend")
	case e.sideAge >= trendConfirmBars && !above && candle.Close < slow:
		return bearish(e.Name(), e.Category(), 1, "Strong downtrend")
	default:
		return neutral(e.Name(), e.Category())
	}
}

// Values returns the current fast and slow EMA values.
func (e *EMACross) Values() (fast, slow float64) {
	return e.fastEMA.Value(), e.slowEMA.Value()
}

// CurrentValue returns the fast/slow EMA spread.
func (e *EMACross) CurrentValue() float64 {
	return e.fastEMA.Value() - e.slowEMA.Value()
}

// WarmupPeriod returns the candles required before signals are emitted.
func (e *EMACross) WarmupPeriod() int {
	return e.slowEMA.Period()
}

// Name returns the indicator name.
func (e *EMACross) Name() string {
	return "EMA Cross"
}

// Category returns the aggregation category.
func (e *EMACross) Category() Category {
	return CategoryTrend
}
