package signals

import (
	"math"

	"github.com/ducminhle1904/perp-signal-bot/internal/indicators"
	"github.com/ducminhle1904/perp-signal-bot/internal/indicators/base"
)

// Score-scale constants. Category clamps bound the total score and the
// normalization maps it onto [0, 1].
const (
	totalScoreScale     = 13
	normalizedScoreSpan = 2 * totalScoreScale

	confidenceAlignmentBonus = 0.20
	weakScoreBound           = 2
)

// Input carries everything the aggregator consumes: the most recent signal
// per indicator in registry order, plus the cross-cutting observations the
// risk ladder needs.
type Input struct {
	Signals       []*indicators.Signal
	ATRRegime     base.Regime
	FundingMean   float64
	HasFunding    bool
	RSIDivergence bool
}

// Aggregation is the reduced view of one evaluation before decisioning.
type Aggregation struct {
	CategoryScores []CategoryScore
	TotalScore     int
	Bias           MarketBias
	Confidence     float64
	Risk           RiskLevel
	Reasons        []string
}

// Aggregate reduces per-indicator signals into category scores, the total
// score, market bias, confidence and risk.
func Aggregate(in Input) Aggregation {
	scores := make([]CategoryScore, 0, len(indicators.Categories))
	perCategory := make(map[indicators.Category]int, len(indicators.Categories))

	for _, cat := range indicators.Categories {
		sum := 0
		reasons := []string{}
		for _, sig := range in.Signals {
			if sig == nil || sig.Category != cat {
				continue
			}
			sum += sig.Strength
			if sig.Reason != "" {
				reasons = append(reasons, sig.Reason)
			}
		}
		bound := cat.MaxScore()
		if sum > bound {
			sum = bound
		} else if sum < -bound {
			sum = -bound
		}
		perCategory[cat] = sum
		scores = append(scores, CategoryScore{
			Category:            cat.String(),
			Score:               sum,
			ContributingReasons: reasons,
		})
	}

	total := 0
	for _, s := range scores {
		total += s.Score
	}

	reasons := []string{}
	for _, s := range scores {
		reasons = append(reasons, s.ContributingReasons...)
	}

	return Aggregation{
		CategoryScores: scores,
		TotalScore:     total,
		Bias:           biasFor(total),
		Confidence:     confidenceFor(total, perCategory),
		Risk:           riskFor(total, in),
		Reasons:        reasons,
	}
}

func biasFor(total int) MarketBias {
	switch {
	case total >= 7:
		return BiasStrongBullish
	case total >= 3:
		return BiasBullish
	case total <= -7:
		return BiasStrongBearish
	case total <= -3:
		return BiasBearish
	default:
		return BiasNeutral
	}
}

// confidenceFor starts from |total|/scale and rewards trend/momentum
// agreement (or punishes disagreement) by a fixed bonus.
func confidenceFor(total int, perCategory map[indicators.Category]int) float64 {
	confidence := math.Abs(float64(total)) / totalScoreScale

	trend := perCategory[indicators.CategoryTrend]
	momentum := perCategory[indicators.CategoryMomentum]
	if trend != 0 && momentum != 0 {
		if (trend > 0) == (momentum > 0) {
			confidence += confidenceAlignmentBonus
		} else {
			confidence -= confidenceAlignmentBonus
		}
	}

	return clamp01(confidence)
}

// riskFor escalates from Low: volatility regime, funding extremes and a
// weak total score push risk up; a fresh RSI divergence pulls it one step
// back down.
func riskFor(total int, in Input) RiskLevel {
	level := int(RiskLow)

	switch in.ATRRegime {
	case base.RegimeElevated:
		level++
	case base.RegimeHigh:
		level += 2
	}
	if in.HasFunding && math.Abs(in.FundingMean) > fundingExtreme {
		level++
	}
	if abs(total) <= weakScoreBound {
		level++
	}
	if in.RSIDivergence {
		level--
	}

	if level < int(RiskLow) {
		level = int(RiskLow)
	}
	if level > int(RiskExtreme) {
		level = int(RiskExtreme)
	}
	return RiskLevel(level)
}

// NormalizedScore maps a total score onto [0, 1] for display; the integer
// thresholds stay authoritative for direction.
func NormalizedScore(total int) float64 {
	return clamp01((float64(total) + totalScoreScale) / normalizedScoreSpan)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
