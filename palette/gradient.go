package palette

import (
	"fmt"
	"image/color"

	"mandelhue/misc"
)

// Gradient describes NumberColors evenly spaced colours blending from StartColor towards EndColor.
type Gradient struct {
	StartColor   color.RGBA
	EndColor     color.RGBA
	NumberColors int
}

func (g Gradient) colors() []color.RGBA {
	colors := make([]color.RGBA, 0, g.NumberColors)
	for j := 0; j < g.NumberColors; j++ {
		fraction := float64(j) / float64(g.NumberColors)
		colors = append(colors, color.RGBA{
			R: misc.LerpUint8(g.StartColor.R, g.EndColor.R, fraction),
			G: misc.LerpUint8(g.StartColor.G, g.EndColor.G, fraction),
			B: misc.LerpUint8(g.StartColor.B, g.EndColor.B, fraction),
			A: 255,
		})
	}
	return colors
}

// FromGradients lays the colours of all gradients out evenly over [0, 1] and closes the palette with the
// end colour of the last gradient.
func FromGradients(gradients []Gradient) (Palette, error) {
	colors := make([]color.RGBA, 0)
	for _, g := range gradients {
		colors = append(colors, g.colors()...)
	}
	if len(colors) == 0 {
		return Palette{}, fmt.Errorf("%w: gradients produced no colours", ErrInvalidPalette)
	}
	colors = append(colors, gradients[len(gradients)-1].EndColor)

	stops := make([]ColorStop, len(colors))
	for i, c := range colors {
		stops[i] = NewColorStop(float64(i)/float64(len(colors)-1), c)
	}
	return New(stops)
}
