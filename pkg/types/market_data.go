package types

import (
	"fmt"
	"math"
	"time"
)

// Candle represents one OHLCV bar. Candles are produced by the market data
// layer and are immutable once handed to the signal engine.
type Candle struct {
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
	Timestamp time.Time `json:"timestamp"`
}

// InvalidCandleError reports a candle that violates the OHLC invariants or
// carries a non-finite value.
type InvalidCandleError struct {
	Index  int
	Reason string
}

func (e *InvalidCandleError) Error() string {
	return fmt.Sprintf("invalid candle at index %d: %s", e.Index, e.Reason)
}

// Validate checks the OHLC ordering invariant, non-negative volume and that
// every field is finite.
func (c Candle) Validate() error {
	for _, v := range []float64{c.Open, c.High, c.Low, c.Close, c.Volume} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite value")
		}
	}
	if c.Volume < 0 {
		return fmt.Errorf("negative volume %v", c.Volume)
	}
	lo := math.Min(c.Open, c.Close)
	hi := math.Max(c.Open, c.Close)
	if c.Low > lo || hi > c.High {
		return fmt.Errorf("OHLC ordering violated: low=%v open=%v close=%v high=%v",
			c.Low, c.Open, c.Close, c.High)
	}
	return nil
}

// HL2 returns the bar's median price.
func (c Candle) HL2() float64 {
	return (c.High + c.Low) / 2.0
}

// PerpMetrics carries the exogenous perpetual-futures series that feed the
// Perp indicator category. Values are ordered oldest first and aligned to
// the provider's sampling interval.
type PerpMetrics struct {
	FundingRates []float64 `json:"funding_rates"`
	OpenInterest []float64 `json:"open_interest"`
}

// Ticker is a point-in-time price observation from a live stream.
type Ticker struct {
	Symbol    string
	Price     float64
	Volume    float64
	Timestamp time.Time
}
