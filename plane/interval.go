package plane

import "fmt"

// Half widths of the 16:9 frame at zoom 1.
const (
	halfWidth  = 16.0
	halfHeight = 9.0
)

// Interval is a range along one axis. Lower > Upper is allowed and flips the direction of Lerp.
type Interval struct {
	Lower float64
	Upper float64
}

func (i Interval) Lerp(fraction float64) float64 {
	return i.Lower + (i.Upper-i.Lower)*fraction
}

func (i Interval) String() string {
	return fmt.Sprintf("[%g, %g]", i.Lower, i.Upper)
}

// ViewportFromCentre returns the x and y ranges of a 16:9 frame centred on centre.
// Zoom must be positive; callers validate it.
func ViewportFromCentre(centre Complex, zoom float64) (Interval, Interval) {
	xRange := Interval{Lower: centre.Re - halfWidth/zoom, Upper: centre.Re + halfWidth/zoom}
	yRange := Interval{Lower: centre.Im - halfHeight/zoom, Upper: centre.Im + halfHeight/zoom}
	return xRange, yRange
}

// PixelToPlane maps pixel (x, y) of a width x height grid to the complex plane.
// The pixel is sampled at its lower corner, there is no half pixel offset.
func PixelToPlane(xRange Interval, yRange Interval, x int, y int, width int, height int) Complex {
	return Complex{
		Re: xRange.Lerp(float64(x) / float64(width)),
		Im: yRange.Lerp(float64(y) / float64(height)),
	}
}
