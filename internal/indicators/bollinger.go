package indicators

import (
	"github.com/ducminhle1904/perp-signal-bot/internal/indicators/common"
	"github.com/ducminhle1904/perp-signal-bot/pkg/types"
)

// Default Bollinger Bands parameters.
const (
	DefaultBollingerPeriod = 20
	DefaultBollingerStdDev = 2.0

	bollingerSqueezeFactor = 1.1
)

// BollingerBands computes the SMA basis with bands at +/- k standard
// deviations. Closes beyond the bands are contrarian breakout signals; a
// band width near its rolling minimum is an informational squeeze, and a
// basis cross against the prior extreme is an informational mean reversion.
type BollingerBands struct {
	period int
	stdDev float64

	closes      []float64
	widthRatios []float64

	basis float64
	upper float64
	lower float64

	prevClose   float64
	prevBasis   float64
	havePrev    bool
	lastExtreme int // +1 upper band, -1 lower band, 0 none
}

// NewBollingerBands creates Bollinger Bands with the default 20 / 2.0
// parameters.
func NewBollingerBands() *BollingerBands {
	return NewBollingerBandsWithParams(DefaultBollingerPeriod, DefaultBollingerStdDev)
}

// NewBollingerBandsWithParams creates Bollinger Bands with a custom period
// and deviation multiplier.
func NewBollingerBandsWithParams(period int, stdDev float64) *BollingerBands {
	return &BollingerBands{period: period, stdDev: stdDev}
}

// Update advances the bands by one candle.
func (b *BollingerBands) Update(candle types.Candle) *Signal {
	b.closes = append(b.closes, candle.Close)
	if len(b.closes) > b.period {
		b.closes = b.closes[1:]
	}

	basis, ok := common.SMA(b.closes, b.period)
	if !ok {
		return nil
	}
	sigma, _ := common.StdDev(b.closes, b.period)

	prevClose, prevBasis, havePrev := b.prevClose, b.prevBasis, b.havePrev
	b.basis = basis
	b.upper = basis + b.stdDev*sigma
	b.lower = basis - b.stdDev*sigma
	b.prevClose = candle.Close
	b.prevBasis = basis
	b.havePrev = true

	if basis > 0 {
		ratio := (b.upper - b.lower) / basis
		b.widthRatios = append(b.widthRatios, ratio)
		if len(b.widthRatios) > b.period {
			b.widthRatios = b.widthRatios[1:]
		}
	}

	if candle.Close < b.lower {
		b.lastExtreme = -1
		return bullish(b.Name(), b.Category(), 1, "Lower breakout")
	}
	if candle.Close > b.upper {
		b.lastExtreme = 1
		return bearish(b.Name(), b.Category(), 1, "Upper breakout")
	}

	if b.inSqueeze() {
		return informational(b.Name(), b.Category(), "Squeeze")
	}

	if havePrev && b.lastExtreme != 0 {
		crossedUp := prevClose <= prevBasis && candle.Close > basis
		crossedDown := prevClose >= prevBasis && candle.Close < basis
		if (b.lastExtreme == -1 && crossedUp) || (b.lastExtreme == 1 && crossedDown) {
			b.lastExtreme = 0
			return informational(b.Name(), b.Category(), "Mean reversion")
		}
	}

	return neutral(b.Name(), b.Category())
}

func (b *BollingerBands) inSqueeze() bool {
	if len(b.widthRatios) < b.period {
		return false
	}
	minRatio := b.widthRatios[0]
	for _, r := range b.widthRatios[1:] {
		if r < minRatio {
			minRatio = r
		}
	}
	current := b.widthRatios[len(b.widthRatios)-1]
	return current < minRatio*bollingerSqueezeFactor
}

// Bands returns the current basis, upper and lower band.
func (b *BollingerBands) Bands() (basis, upper, lower float64) {
	return b.basis, b.upper, b.lower
}

// CurrentValue returns the basis.
func (b *BollingerBands) CurrentValue() float64 {
	return b.basis
}

// WarmupPeriod returns the candles required before signals are emitted.
func (b *BollingerBands) WarmupPeriod() int {
	return b.period
}

// Name returns the indicator name.
func (b *BollingerBands) Name() string {
	return "Bollinger Bands"
}

// Category returns the aggregation category.
func (b *BollingerBands) Category() Category {
	return CategoryVolatility
}
