package indicators

import (
	"github.com/ducminhle1904/perp-signal-bot/internal/indicators/base"
	"github.com/ducminhle1904/perp-signal-bot/pkg/types"
)

// Volume Profile parameters.
const (
	DefaultVolumeProfileWindow = 100
	volumeProfileBins          = 20
	volumeProfileMinBars       = 20
	pocProximityATRFactor      = 0.25
	lowVolumeNodeFraction      = 0.10
)

// VolumeProfile bins the closes of the profiling window into price buckets
// weighted by volume. The point of control (POC) is the heaviest bucket;
// price near a POC on the opposite side of the range midline is
// support/resistance, and a close inside a bucket far lighter than the POC
// is an informational low-volume node.
type VolumeProfile struct {
	window int
	atr    *base.ATR

	closes  []float64
	volumes []float64
}

// NewVolumeProfile creates a profile over the default 100-bar window.
func NewVolumeProfile() *VolumeProfile {
	return NewVolumeProfileWithWindow(DefaultVolumeProfileWindow)
}

// NewVolumeProfileWithWindow creates a profile over a custom window. The
// profile saturates at the window size but starts emitting once the minimum
// bar count has accumulated.
func NewVolumeProfileWithWindow(window int) *VolumeProfile {
	return &VolumeProfile{
		window: window,
		atr:    base.NewATR(base.DefaultATRPeriod),
	}
}

// Update advances the profile by one candle.
func (vp *VolumeProfile) Update(candle types.Candle) *Signal {
	vp.atr.Update(candle)

	vp.closes = append(vp.closes, candle.Close)
	vp.volumes = append(vp.volumes, candle.Volume)
	if len(vp.closes) > vp.window {
		vp.closes = vp.closes[1:]
		vp.volumes = vp.volumes[1:]
	}
	if len(vp.closes) < volumeProfileMinBars || !vp.atr.Ready() {
		return nil
	}

	minClose, maxClose := vp.closes[0], vp.closes[0]
	for _, c := range vp.closes[1:] {
		if c < minClose {
			minClose = c
		}
		if c > maxClose {
			maxClose = c
		}
	}
	if maxClose == minClose {
		return neutral(vp.Name(), vp.Category())
	}

	width := (maxClose - minClose) / volumeProfileBins
	var buckets [volumeProfileBins]float64
	for i, c := range vp.closes {
		buckets[vp.bucketIndex(c, minClose, width)] += vp.volumes[i]
	}

	pocIdx := 0
	for i, w := range buckets {
		if w > buckets[pocIdx] {
			pocIdx = i
		}
	}
	pocPrice := minClose + (float64(pocIdx)+0.5)*width
	midline := (minClose + maxClose) / 2.0
	proximity := pocProximityATRFactor * vp.atr.Value()

	close := vp.closes[len(vp.closes)-1]
	switch {
	case pocPrice < midline && close >= pocPrice && close <= pocPrice+proximity:
		return bullish(vp.Name(), vp.Category(), 1, "POC support")
	case pocPrice > midline && close <= pocPrice && close >= pocPrice-proximity:
		return bearish(vp.Name(), vp.Category(), 1, "POC resistance")
	}

	closeWeight := buckets[vp.bucketIndex(close, minClose, width)]
	if closeWeight < lowVolumeNodeFraction*buckets[pocIdx] {
		return informational(vp.Name(), vp.Category(), "Near low-volume node")
	}
	return neutral(vp.Name(), vp.Category())
}

func (vp *VolumeProfile) bucketIndex(price, minClose, width float64) int {
	idx := int((price - minClose) / width)
	if idx >= volumeProfileBins {
		idx = volumeProfileBins - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// POC recomputes and returns the current point-of-control price, or false
// when the profile has not filled.
func (vp *VolumeProfile) POC() (float64, bool) {
	if len(vp.closes) < volumeProfileMinBars {
		return 0, false
	}
	minClose, maxClose := vp.closes[0], vp.closes[0]
	for _, c := range vp.closes[1:] {
		if c < minClose {
			minClose = c
		}
		if c > maxClose {
			maxClose = c
		}
	}
	if maxClose == minClose {
		return minClose, true
	}
	width := (maxClose - minClose) / volumeProfileBins
	var buckets [volumeProfileBins]float64
	for i, c := range vp.closes {
		buckets[vp.bucketIndex(c, minClose, width)] += vp.volumes[i]
	}
	pocIdx := 0
	for i, w := range buckets {
		if w > buckets[pocIdx] {
			pocIdx = i
		}
	}
	return minClose + (float64(pocIdx)+0.5)*width, true
}

// CurrentValue returns the POC price, or zero while the profile fills.
func (vp *VolumeProfile) CurrentValue() float64 {
	poc, _ := vp.POC()
	return poc
}

// WarmupPeriod returns the candles required before signals are emitted.
func (vp *VolumeProfile) WarmupPeriod() int {
	return volumeProfileMinBars
}

// Name returns the indicator name.
func (vp *VolumeProfile) Name() string {
	return "Volume Profile"
}

// Category returns the aggregation category.
func (vp *VolumeProfile) Category() Category {
	return CategoryVolume
}
