package misc

import "math"

func LerpFloat64(v1 float64, v2 float64, fraction float64) float64 {
	return v1 + (v2-v1)*fraction
}

// LerpUint8 blends two channel values and truncates the result.
func LerpUint8(v1 uint8, v2 uint8, fraction float64) uint8 {
	return uint8(LerpFloat64(float64(v1), float64(v2), fraction))
}

// LerpLog blends between two positive values along a logarithmic scale, so zoom levels grow by a
// constant factor per step.
func LerpLog(v1 float64, v2 float64, fraction float64) float64 {
	return math.Exp(LerpFloat64(math.Log(v1), math.Log(v2), fraction))
}

func EaseOutExpo(t float64) float64 {
	if t >= 1 {
		return 1
	}
	return 1 - math.Pow(2, -10*t)
}

func EaseInExpo(t float64) float64 {
	if t <= 0 {
		return 0
	}
	return math.Pow(2, 10*t-10)
}
