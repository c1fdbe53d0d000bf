package common

import "math"

// SMA returns the arithmetic mean of the last period values, or false when
// the sequence is shorter than the period.
func SMA(values []float64, period int) (float64, bool) {
	if period <= 0 || len(values) < period {
		return 0, false
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), true
}

// StdDev returns the population standard deviation of the last period
// values, or false when the sequence is shorter than the period.
func StdDev(values []float64, period int) (float64, bool) {
	mean, ok := SMA(values, period)
	if !ok {
		return 0, false
	}
	variance := 0.0
	for i := len(values) - period; i < len(values); i++ {
		diff := values[i] - mean
		variance += diff * diff
	}
	variance /= float64(period)
	return math.Sqrt(variance), true
}

// TrueRange computes max(high-low, |high-prevClose|, |low-prevClose|).
// For the first bar of a series pass hasPrev=false and it degrades to
// high-low.
func TrueRange(high, low, prevClose float64, hasPrev bool) float64 {
	hl := high - low
	if !hasPrev {
		return hl
	}
	hc := math.Abs(high - prevClose)
	lc := math.Abs(low - prevClose)
	return math.Max(hl, math.Max(hc, lc))
}
