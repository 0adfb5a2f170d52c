package mandelbrot

import (
	"math"

	"mandelhue/plane"
)

// EscapeResult is the outcome of iterating one point. Count == maxIters means the point did not escape
// within the iteration budget; otherwise Final is the first iterate outside the bailout disk.
type EscapeResult struct {
	Count uint
	Final plane.Complex
}

// https://en.wikipedia.org/wiki/Plotting_algorithms_for_the_Mandelbrot_set#Escape_time_algorithm
func EscapeTime(c plane.Complex, z0 plane.Complex, bailoutRadius float64, maxIters uint) EscapeResult {
	if z0.AbsValueSquared() > bailoutRadius {
		return EscapeResult{Count: 0, Final: z0}
	}

	boundSquared := math.Pow(bailoutRadius, 2)
	z := z0
	for iteration := uint(1); iteration <= maxIters; iteration++ {
		z = z.MandelbrotStep(c)
		if z.AbsValueSquared() > boundSquared {
			return EscapeResult{Count: iteration, Final: z}
		}
	}
	return EscapeResult{Count: maxIters, Final: z}
}
