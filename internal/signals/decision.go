package signals

import "math"

// Decision constants: integer direction thresholds (the authoritative form
// of the documented >60% / <40% normalized thresholds), ATR multipliers for
// stop-loss / take-profit, and the funding override.
const (
	DefaultLongThreshold  = 3
	DefaultShortThreshold = -3

	DefaultSLATRMultiplier = 1.2
	DefaultTPATRMultiplier = 2.0

	fundingExtreme         = 0.0005 // 0.05%
	crowdedSideSLTPFactor  = 1.25
)

// Params are the tunables of the evaluation pipeline.
type Params struct {
	LongThreshold       int
	ShortThreshold      int
	SLATRMultiplier     float64
	TPATRMultiplier     float64
	DivergenceWindow    int
	VolumeProfileWindow int
	FundingWindow       int
	OpenInterestWindow  int
}

// DefaultParams returns the documented default parameter set.
func DefaultParams() Params {
	return Params{
		LongThreshold:       DefaultLongThreshold,
		ShortThreshold:      DefaultShortThreshold,
		SLATRMultiplier:     DefaultSLATRMultiplier,
		TPATRMultiplier:     DefaultTPATRMultiplier,
		DivergenceWindow:    14,
		VolumeProfileWindow: 100,
		FundingWindow:       24,
		OpenInterestWindow:  24,
	}
}

// Decision is the directional outcome with its SL/TP percentages
// (fractions of current price).
type Decision struct {
	Direction Direction
	SLPct     float64
	TPPct     float64
}

// Decide applies the direction thresholds to the total score and derives
// SL/TP from the current ATR. A neutral direction carries zero SL/TP.
// When funding is extreme and the position sides with the crowd, both
// percentages widen to survive crowd-driven wicks.
func (p Params) Decide(total int, atrValue, lastClose, fundingMean float64, hasFunding bool) Decision {
	d := Decision{Direction: DirectionNeutral}
	switch {
	case total >= p.LongThreshold:
		d.Direction = DirectionLong
	case total <= p.ShortThreshold:
		d.Direction = DirectionShort
	}
	if d.Direction == DirectionNeutral || lastClose <= 0 {
		return d
	}

	atrPct := atrValue / lastClose
	d.SLPct = atrPct * p.SLATRMultiplier
	d.TPPct = atrPct * p.TPATRMultiplier

	if hasFunding && math.Abs(fundingMean) > fundingExtreme {
		crowded := (d.Direction == DirectionLong && fundingMean > 0) ||
			(d.Direction == DirectionShort && fundingMean < 0)
		if crowded {
			d.SLPct *= crowdedSideSLTPFactor
			d.TPPct *= crowdedSideSLTPFactor
		}
	}
	return d
}
