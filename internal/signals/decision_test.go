package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide_ThresholdBoundaries(t *testing.T) {
	p := DefaultParams()

	tests := []struct {
		total int
		want  Direction
	}{
		{2, DirectionNeutral},
		{3, DirectionLong},
		{7, DirectionLong},
		{-2, DirectionNeutral},
		{-3, DirectionShort},
		{-7, DirectionShort},
		{0, DirectionNeutral},
	}
	for _, tt := range tests {
		d := p.Decide(tt.total, 1.5, 100, 0, false)
		assert.Equal(t, tt.want, d.Direction, "total %d", tt.total)
	}
}

func TestDecide_NeutralHasZeroStops(t *testing.T) {
	d := DefaultParams().Decide(0, 1.5, 100, 0, false)
	assert.Equal(t, DirectionNeutral, d.Direction)
	assert.Zero(t, d.SLPct)
	assert.Zero(t, d.TPPct)
}

func TestDecide_StopsFromATR(t *testing.T) {
	d := DefaultParams().Decide(5, 1.5, 100, 0, false)

	// ATR/close = 0.015
	assert.InDelta(t, 0.015*1.2, d.SLPct, 1e-9)
	assert.InDelta(t, 0.015*2.0, d.TPPct, 1e-9)
	assert.InDelta(t, 2.0/1.2, d.TPPct/d.SLPct, 1e-9)
}

func TestDecide_FundingOverrideWidensCrowdedSide(t *testing.T) {
	p := DefaultParams()

	base := p.Decide(5, 1.5, 100, 0, false)

	// Long position siding with crowded longs: widen by 1.25.
	crowded := p.Decide(5, 1.5, 100, 0.0008, true)
	assert.InDelta(t, base.SLPct*1.25, crowded.SLPct, 1e-9)
	assert.InDelta(t, base.TPPct*1.25, crowded.TPPct, 1e-9)

	// Long position fading crowded shorts: unchanged.
	fading := p.Decide(5, 1.5, 100, -0.0008, true)
	assert.InDelta(t, base.SLPct, fading.SLPct, 1e-9)
	assert.InDelta(t, base.TPPct, fading.TPPct, 1e-9)

	// Short position siding with crowded shorts: widen.
	short := p.Decide(-5, 1.5, 100, -0.0008, true)
	assert.InDelta(t, base.SLPct*1.25, short.SLPct, 1e-9)

	// Moderate funding: no override.
	moderate := p.Decide(5, 1.5, 100, 0.0003, true)
	assert.InDelta(t, base.SLPct, moderate.SLPct, 1e-9)
}

func TestDecide_CustomThresholds(t *testing.T) {
	p := DefaultParams()
	p.LongThreshold = 5
	p.ShortThreshold = -5

	assert.Equal(t, DirectionNeutral, p.Decide(4, 1, 100, 0, false).Direction)
	assert.Equal(t, DirectionLong, p.Decide(5, 1, 100, 0, false).Direction)
	assert.Equal(t, DirectionShort, p.Decide(-5, 1, 100, 0, false).Direction)
}
