package signals

import (
	"fmt"

	"github.com/ducminhle1904/perp-signal-bot/internal/indicators"
	"github.com/ducminhle1904/perp-signal-bot/internal/indicators/base"
	"github.com/ducminhle1904/perp-signal-bot/pkg/types"
)

// MinCandles is the evaluation floor. It covers every indicator warmup (the
// largest, the EMA crossover, is 50 bars) but not every confirmation window:
// the EMA crossover's sustained-trend signal needs 20 bars beyond its warmup.
// Fewer candles is not an error, just no signal yet.
const MinCandles = 60

// OrderingError reports a candle window whose timestamps are not strictly
// increasing. The evaluation is aborted; the window is never reordered.
type OrderingError struct {
	Index int
}

func (e *OrderingError) Error() string {
	return fmt.Sprintf("candle ordering violation at index %d: timestamp not after predecessor", e.Index)
}

// Engine evaluates candle windows into signals. It is stateless between
// evaluations: each call constructs a fresh indicator set, so evaluations
// for distinct symbols can run concurrently on separate goroutines.
type Engine struct {
	params Params
}

// NewEngine creates an engine with the given parameters.
func NewEngine(params Params) *Engine {
	return &Engine{params: params}
}

// Evaluate runs the pipeline over a candle window with no perp metrics.
// It returns (nil, nil) when the window is shorter than MinCandles.
func (e *Engine) Evaluate(candles []types.Candle, symbol string) (*Output, error) {
	return e.EvaluateWithPerp(candles, types.PerpMetrics{}, symbol)
}

// EvaluateWithPerp runs the pipeline with funding and open-interest series
// feeding the Perp category.
func (e *Engine) EvaluateWithPerp(candles []types.Candle, perp types.PerpMetrics, symbol string) (*Output, error) {
	if len(candles) < MinCandles {
		return nil, nil
	}
	if err := validateWindow(candles); err != nil {
		return nil, err
	}

	p := e.params
	rsi := indicators.NewRSIWithParams(indicators.DefaultRSIPeriod, p.DivergenceWindow)
	macd := indicators.NewMACD()
	emaCross := indicators.NewEMACross()
	superTrend := indicators.NewSuperTrend()
	bollinger := indicators.NewBollingerBands()
	obv := indicators.NewOBVWithWindow(p.DivergenceWindow)
	volumeProfile := indicators.NewVolumeProfileWithWindow(p.VolumeProfileWindow)
	funding := indicators.NewFundingRateWithWindow(p.FundingWindow)
	openInterest := indicators.NewOpenInterestWithWindow(p.OpenInterestWindow)

	funding.SetSeries(perp.FundingRates)
	openInterest.SetSeries(perp.OpenInterest)

	atr := base.NewATR(base.DefaultATRPeriod)

	// Registry order fixes both category-member order and reason order.
	registry := []indicators.Indicator{
		rsi, macd,
		emaCross, superTrend,
		bollinger,
		obv, volumeProfile,
		funding, openInterest,
	}

	latest := make([]*indicators.Signal, len(registry))
	for _, candle := range candles {
		atr.Update(candle)
		for i, ind := range registry {
			if sig := ind.Update(candle); sig != nil {
				latest[i] = sig
			}
		}
	}

	fundingMean, hasFunding := funding.RollingMean()
	agg := Aggregate(Input{
		Signals:       latest,
		ATRRegime:     atr.CurrentRegime(),
		FundingMean:   fundingMean,
		HasFunding:    hasFunding,
		RSIDivergence: rsi.DivergenceInWindow(),
	})

	last := candles[len(candles)-1]
	decision := p.Decide(agg.TotalScore, atr.Value(), last.Close, fundingMean, hasFunding)

	return &Output{
		Symbol:            symbol,
		Timestamp:         last.Timestamp,
		Direction:         decision.Direction,
		MarketBias:        agg.Bias,
		Confidence:        agg.Confidence,
		RiskLevel:         agg.Risk,
		TotalScore:        agg.TotalScore,
		NormalizedScore:   NormalizedScore(agg.TotalScore),
		PerCategoryScores: agg.CategoryScores,
		Reasons:           agg.Reasons,
		RecommendedSLPct:  decision.SLPct,
		RecommendedTPPct:  decision.TPPct,
		ATRValue:          atr.Value(),
	}, nil
}

func validateWindow(candles []types.Candle) error {
	for i, c := range candles {
		if err := c.Validate(); err != nil {
			return &types.InvalidCandleError{Index: i, Reason: err.Error()}
		}
		if i > 0 && !c.Timestamp.After(candles[i-1].Timestamp) {
			return &OrderingError{Index: i}
		}
	}
	return nil
}
