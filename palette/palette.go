package palette

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"

	"mandelhue/misc"
)

var ErrInvalidPalette = errors.New("invalid palette")

// ColorStop pins a colour to a value in [0, 1].
type ColorStop struct {
	Value float64 `yaml:"value" json:"value"`
	Red   uint8   `yaml:"red" json:"red"`
	Green uint8   `yaml:"green" json:"green"`
	Blue  uint8   `yaml:"blue" json:"blue"`
}

func NewColorStop(value float64, c color.RGBA) ColorStop {
	return ColorStop{Value: value, Red: c.R, Green: c.G, Blue: c.B}
}

func (cs ColorStop) RGBA() color.RGBA {
	return color.RGBA{R: cs.Red, G: cs.Green, B: cs.Blue, A: 255}
}

// lerp blends each channel towards other at value, truncating towards zero.
func (cs ColorStop) lerp(other ColorStop, value float64) color.RGBA {
	fraction := (value - cs.Value) / (other.Value - cs.Value)
	return color.RGBA{
		R: misc.LerpUint8(cs.Red, other.Red, fraction),
		G: misc.LerpUint8(cs.Green, other.Green, fraction),
		B: misc.LerpUint8(cs.Blue, other.Blue, fraction),
		A: 255,
	}
}

// Palette is an immutable list of stops sorted by value, starting at 0 and ending at 1.
type Palette struct {
	stops []ColorStop
}

// New sorts the stops and checks that they span [0, 1] with strictly ascending values.
func New(stops []ColorStop) (Palette, error) {
	if len(stops) < 2 {
		return Palette{}, fmt.Errorf("%w: need at least 2 stops, got %d", ErrInvalidPalette, len(stops))
	}
	for _, stop := range stops {
		if math.IsNaN(stop.Value) {
			return Palette{}, fmt.Errorf("%w: stop value is NaN", ErrInvalidPalette)
		}
	}

	sorted := make([]ColorStop, len(stops))
	copy(sorted, stops)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value < sorted[j].Value
	})

	first, last := sorted[0].Value, sorted[len(sorted)-1].Value
	if first != 0.0 || last != 1.0 {
		return Palette{}, fmt.Errorf("%w: stops must start at 0.0 and end at 1.0, got %g and %g", ErrInvalidPalette, first, last)
	}
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Value == sorted[i-1].Value {
			return Palette{}, fmt.Errorf("%w: two stops at %g", ErrInvalidPalette, sorted[i].Value)
		}
	}

	return Palette{stops: sorted}, nil
}

// Stops returns a copy of the sorted stops.
func (p Palette) Stops() []ColorStop {
	stops := make([]ColorStop, len(p.stops))
	copy(stops, p.stops)
	return stops
}

func (p Palette) Len() int {
	return len(p.stops)
}

// Lookup returns the colour at value. Values above 1 get the last colour and values below 0 the first.
func (p Palette) Lookup(value float64) color.RGBA {
	last := len(p.stops) - 1
	if value > 1.0 {
		return p.stops[last].RGBA()
	}

	i := sort.Search(len(p.stops), func(i int) bool {
		return p.stops[i].Value >= value
	})
	switch {
	case i == len(p.stops):
		// only NaN gets here
		return p.stops[0].RGBA()
	case p.stops[i].Value == value:
		return p.stops[i].RGBA()
	case i == 0:
		return p.stops[0].RGBA()
	}
	return p.stops[i-1].lerp(p.stops[i], value)
}

// Repeat squeezes the palette into n equal bands across [0, 1], each a copy of the receiver's stops without
// the final one, and then appends the final stop at 1. Palettes with 2 stops or fewer are returned as is.
func (p Palette) Repeat(n uint) Palette {
	if len(p.stops) <= 2 || n <= 1 {
		return p
	}

	band := p.stops[:len(p.stops)-1]
	stops := make([]ColorStop, 0, len(band)*int(n)+1)
	for i := uint(0); i < n; i++ {
		for _, stop := range band {
			stop.Value = (float64(i) + stop.Value) / float64(n)
			stops = append(stops, stop)
		}
	}
	stops = append(stops, p.stops[len(p.stops)-1])

	return Palette{stops: stops}
}

func (p Palette) String() string {
	output := "{Palette "
	for _, stop := range p.stops {
		output += fmt.Sprintf("%g:#%02x%02x%02x ", stop.Value, stop.Red, stop.Green, stop.Blue)
	}
	return output + "}"
}
