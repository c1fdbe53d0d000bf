package indicators

import (
	"github.com/ducminhle1904/perp-signal-bot/pkg/types"
)

// Funding-rate thresholds, expressed as fractions per funding interval.
const (
	DefaultFundingWindow = 24

	fundingCrowdingThreshold = 0.0001 // 0.01%
	fundingExtremeThreshold  = 0.0005 // 0.05%
)

// FundingRate fades crowding in the perpetual funding rate: a persistently
// positive rolling mean means longs pay shorts (crowded longs, bearish),
// and vice versa. The series is exogenous; prime it with SetSeries before
// folding candles.
type FundingRate struct {
	window int
	rates  []float64
}

// NewFundingRate creates a funding indicator over the default 24-sample
// rolling window.
func NewFundingRate() *FundingRate {
	return NewFundingRateWithWindow(DefaultFundingWindow)
}

// NewFundingRateWithWindow creates a funding indicator with a custom
// rolling window.
func NewFundingRateWithWindow(window int) *FundingRate {
	return &FundingRate{window: window}
}

// SetSeries supplies the funding-rate history, oldest first.
func (f *FundingRate) SetSeries(rates []float64) {
	f.rates = append(f.rates[:0], rates...)
}

// RollingMean returns the mean of the most recent window samples, or false
// when no series has been supplied.
func (f *FundingRate) RollingMean() (float64, bool) {
	if len(f.rates) == 0 {
		return 0, false
	}
	n := len(f.rates)
	if n > f.window {
		n = f.window
	}
	sum := 0.0
	for _, r := range f.rates[len(f.rates)-n:] {
		sum += r
	}
	return sum / float64(n), true
}

// Update emits the standing crowding signal; the candle itself carries no
// funding information.
func (f *FundingRate) Update(_ types.Candle) *Signal {
	mean, ok := f.RollingMean()
	if !ok {
		return nil
	}

	switch {
	case mean > fundingExtremeThreshold:
		return bearish(f.Name(), f.Category(), 2, "Extreme long crowding")
	case mean < -fundingExtremeThreshold:
		return bullish(f.Name(), f.Category(), 2, "Extreme short crowding")
	case mean > fundingCrowdingThreshold:
		return bearish(f.Name(), f.Category(), 1, "Long crowding")
	case mean < -fundingCrowdingThreshold:
		return bullish(f.Name(), f.Category(), 1, "Short crowding")
	default:
		return neutral(f.Name(), f.Category())
	}
}

// CurrentValue returns the rolling mean funding rate.
func (f *FundingRate) CurrentValue() float64 {
	mean, _ := f.RollingMean()
	return mean
}

// WarmupPeriod returns zero: the indicator is gated on its series, not on
// candles.
func (f *FundingRate) WarmupPeriod() int {
	return 0
}

// Name returns the indicator name.
func (f *FundingRate) Name() string {
	return "Funding Rate"
}

// Category returns the aggregation category.
func (f *FundingRate) Category() Category {
	return CategoryPerp
}
