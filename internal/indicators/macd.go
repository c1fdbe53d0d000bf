package indicators

import (
	"github.com/ducminhle1904/perp-signal-bot/internal/indicators/common"
	"github.com/ducminhle1904/perp-signal-bot/pkg/types"
)

// Default MACD parameters.
const (
	DefaultMACDFast   = 12
	DefaultMACDSlow   = 26
	DefaultMACDSignal = 9
)

// MACD tracks the line (EMA fast - EMA slow), the signal (EMA of the line)
// and the histogram. A line/signal crossover emits ±2 on the flip tick and
// re-asserts while the regime holds past the trend confirmation period;
// in between, an expanding histogram in the direction of the line's sign
// emits ±1.
type MACD struct {
	fastEMA   *common.EMA
	slowEMA   *common.EMA
	signalEMA *common.EMA

	line      float64
	signal    float64
	histogram float64
	prevHist  float64
	havePrev  bool

	regimeUp  bool
	regimeAge int
	hasRegime bool
}

// NewMACD creates a MACD with the default 12/26/9 parameters.
func NewMACD() *MACD {
	return NewMACDWithParams(DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal)
}

// NewMACDWithParams creates a MACD with custom periods.
func NewMACDWithParams(fast, slow, signalPeriod int) *MACD {
	return &MACD{
		fastEMA:   common.NewEMA(fast),
		slowEMA:   common.NewEMA(slow),
		signalEMA: common.NewEMA(signalPeriod),
	}
}

// Update advances the MACD by one candle.
func (m *MACD) Update(candle types.Candle) *Signal {
	fast, fastReady := m.fastEMA.Update(candle.Close)
	slow, slowReady := m.slowEMA.Update(candle.Close)
	if !fastReady || !slowReady {
		return nil
	}

	m.line = fast - slow
	sig, sigReady := m.signalEMA.Update(m.line)
	if !sigReady {
		return nil
	}
	m.signal = sig

	havePrev := m.havePrev
	m.prevHist = m.histogram
	m.histogram = m.line - m.signal
	m.havePrev = true

	up := m.histogram > 0
	down := m.histogram < 0
	flipped := m.hasRegime && ((up && !m.regimeUp) || (down && m.regimeUp))
	switch {
	case !m.hasRegime && (up || down):
		m.regimeUp = up
		m.regimeAge = 0
		m.hasRegime = true
	case flipped:
		m.regimeUp = up
		m.regimeAge = 0
	case m.hasRegime:
		m.regimeAge++
	}

	switch {
	case flipped && up:
		return bullish(m.Name(), m.Category(), 2, "Bullish crossover")
	case flipped:
		return bearish(m.Name(), m.Category(), 2, "Bearish crossover")
	case m.hasRegime && m.regimeAge >= trendConfirmBars && up:
		return bullish(m.Name(), m.Category(), 2, "Bullish crossover")
	case m.hasRegime && m.regimeAge >= trendConfirmBars && down:
		return bearish(m.Name(), m.Category(), 2, "Bearish crossover")
	case havePrev && m.line > 0 && m.histogram > 0 && m.histogram > m.prevHist:
		return bullish(m.Name(), m.Category(), 1, "Bullish momentum")
	case havePrev && m.line < 0 && m.histogram < 0 && m.histogram < m.prevHist:
		return bearish(m.Name(), m.Category(), 1, "Bearish momentum")
	default:
		return neutral(m.Name(), m.Category())
	}
}

// Values returns the current line, signal and histogram.
func (m *MACD) Values() (line, signal, histogram float64) {
	return m.line, m.signal, m.histogram
}

// CurrentValue returns the current histogram.
func (m *MACD) CurrentValue() float64 {
	return m.histogram
}

// WarmupPeriod returns the candles required before signals are emitted.
func (m *MACD) WarmupPeriod() int {
	return m.slowEMA.Period() + m.signalEMA.Period()
}

// Name returns the indicator name.
func (m *MACD) Name() string {
	return "MACD"
}

// Category returns the aggregation category.
func (m *MACD) Category() Category {
	return CategoryMomentum
}
