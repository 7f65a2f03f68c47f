package core

import "math"

// Finite reports whether v is neither NaN nor an infinity.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Quantize snaps v to the nearest point of the grid origin + k*step.
func Quantize(v, origin, step float64) float64 {
	return origin + math.Round((v-origin)/step)*step
}

// LogScale returns the constants of the logarithmic slider mapping over
// [sliderMin, sliderMax]. Both bounds must be positive.
func LogScale(sliderMin, sliderMax float64) (logMin, logScale float64) {
	logMin = math.Log(sliderMin)
	logScale = (math.Log(sliderMax) - logMin) / (sliderMax - sliderMin)
	return logMin, logScale
}

// ToLogPosition maps a value to its position on a logarithmic slider. The
// result is not pinned to [sliderMin, sliderMax].
func ToLogPosition(value, sliderMin, sliderMax, logMin, logScale float64) float64 {
	return ((math.Log(value) - logMin) / logScale) + sliderMin
}

// FromLogPosition maps a logarithmic slider position back to a value.
func FromLogPosition(position, sliderMin, logMin, logScale float64) float64 {
	return math.Exp(logMin + logScale*(position-sliderMin))
}
