package signals

import (
	"encoding/json"
	"fmt"
	"time"
)

// Direction is the discrete trading direction of a signal.
type Direction int

const (
	DirectionNeutral Direction = iota
	DirectionLong
	DirectionShort
)

func (d Direction) String() string {
	switch d {
	case DirectionLong:
		return "long"
	case DirectionShort:
		return "short"
	default:
		return "neutral"
	}
}

// MarshalJSON encodes the direction as its string form.
func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes the string form.
func (d *Direction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "long":
		*d = DirectionLong
	case "short":
		*d = DirectionShort
	case "neutral":
		*d = DirectionNeutral
	default:
		return fmt.Errorf("unknown direction %q", s)
	}
	return nil
}

// MarketBias is the five-level classification of the total score.
type MarketBias int

const (
	BiasStrongBearish MarketBias = iota - 2
	BiasBearish
	BiasNeutral
	BiasBullish
	BiasStrongBullish
)

func (b MarketBias) String() string {
	switch b {
	case BiasStrongBullish:
		return "strong_bullish"
	case BiasBullish:
		return "bullish"
	case BiasBearish:
		return "bearish"
	case BiasStrongBearish:
		return "strong_bearish"
	default:
		return "neutral"
	}
}

// MarshalJSON encodes the bias as its string form.
func (b MarketBias) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// UnmarshalJSON decodes the string form.
func (b *MarketBias) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "strong_bullish":
		*b = BiasStrongBullish
	case "bullish":
		*b = BiasBullish
	case "neutral":
		*b = BiasNeutral
	case "bearish":
		*b = BiasBearish
	case "strong_bearish":
		*b = BiasStrongBearish
	default:
		return fmt.Errorf("unknown market bias %q", s)
	}
	return nil
}

// RiskLevel grades the risk of acting on a signal. Levels are ordered so
// the ladder can escalate in steps.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
	RiskExtreme
)

func (r RiskLevel) String() string {
	switch r {
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	case RiskExtreme:
		return "extreme"
	default:
		return "low"
	}
}

// MarshalJSON encodes the risk level as its string form.
func (r RiskLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes the string form.
func (r *RiskLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "low":
		*r = RiskLow
	case "medium":
		*r = RiskMedium
	case "high":
		*r = RiskHigh
	case "extreme":
		*r = RiskExtreme
	default:
		return fmt.Errorf("unknown risk level %q", s)
	}
	return nil
}

// CategoryScore is the aggregated score of one indicator category together
// with the reasons that produced it, in member order.
type CategoryScore struct {
	Category            string   `json:"category"`
	Score               int      `json:"score"`
	ContributingReasons []string `json:"contributing_reasons"`
}

// Output is the result of one evaluation: the direction, its confidence
// and risk grading, the score breakdown, the ordered reasons, and the
// ATR-derived stop-loss / take-profit percentages (fractions of price).
type Output struct {
	Symbol            string          `json:"symbol"`
	Timestamp         time.Time       `json:"timestamp"`
	Direction         Direction       `json:"direction"`
	MarketBias        MarketBias      `json:"market_bias"`
	Confidence        float64         `json:"confidence"`
	RiskLevel         RiskLevel       `json:"risk_level"`
	TotalScore        int             `json:"total_score"`
	NormalizedScore   float64         `json:"normalized_score"`
	PerCategoryScores []CategoryScore `json:"per_category_scores"`
	Reasons           []string        `json:"reasons"`
	RecommendedSLPct  float64         `json:"recommended_sl_pct"`
	RecommendedTPPct  float64         `json:"recommended_tp_pct"`
	ATRValue          float64         `json:"atr_value"`
}
