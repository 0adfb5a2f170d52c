package mandelbrot

import (
	"fmt"
	"math"
	"strings"
)

// Mode selects how an EscapeResult becomes the value stored in a grid cell.
type Mode int

const (
	Discrete Mode = iota
	Smooth
)

func (m Mode) String() string {
	return []string{
		"Discrete", "Smooth",
	}[m]
}

func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(name) {
	case "discrete":
		return Discrete, nil
	case "smooth":
		return Smooth, nil
	}
	return Discrete, fmt.Errorf("unknown mode %q", name)
}

func (m Mode) MarshalText() ([]byte, error) {
	if m < Discrete || m > Smooth {
		return nil, fmt.Errorf("unknown mode %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	mode, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Post converts the escape result of one point into its raw value.
func (m Mode) Post(result EscapeResult, maxIters uint) float64 {
	if m == Smooth {
		return smoothCount(result, maxIters)
	}
	return float64(result.Count)
}

// https://en.wikipedia.org/wiki/Plotting_algorithms_for_the_Mandelbrot_set#Continuous_(smooth)_coloring
// nu = log2(log2|z|) written with the squared magnitude: log2(log2(|z|²) / 2).
func smoothCount(result EscapeResult, maxIters uint) float64 {
	if result.Count >= maxIters {
		return float64(maxIters)
	}
	nu := math.Log2(math.Log2(result.Final.AbsValueSquared()) / 2)
	return float64(result.Count+1) - nu
}

// Coloring selects how raw values are normalised into [0, 1].
type Coloring int

const (
	Plain Coloring = iota
	Histogram
)

func (c Coloring) String() string {
	return []string{
		"Plain", "Histogram",
	}[c]
}

func ParseColoring(name string) (Coloring, error) {
	switch strings.ToLower(name) {
	case "plain":
		return Plain, nil
	case "histogram":
		return Histogram, nil
	}
	return Plain, fmt.Errorf("unknown coloring %q", name)
}

func (c Coloring) MarshalText() ([]byte, error) {
	if c < Plain || c > Histogram {
		return nil, fmt.Errorf("unknown coloring %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Coloring) UnmarshalText(text []byte) error {
	coloring, err := ParseColoring(string(text))
	if err != nil {
		return err
	}
	*c = coloring
	return nil
}

// Algorithm names the four mode and coloring combinations offered on the command line.
type Algorithm int

const (
	Vanilla Algorithm = iota
	SmoothPlain
	HistogramDiscrete
	SmoothHistogram
)

var algorithmNames = []string{
	"vanilla", "smooth", "histogram", "smooth-histogram",
}

func (a Algorithm) String() string {
	return algorithmNames[a]
}

func ParseAlgorithm(name string) (Algorithm, error) {
	for i, n := range algorithmNames {
		if strings.EqualFold(n, name) {
			return Algorithm(i), nil
		}
	}
	return Vanilla, fmt.Errorf("unknown algorithm %q, expected one of %s", name, strings.Join(algorithmNames, ", "))
}

func (a Algorithm) Mode() Mode {
	if a == SmoothPlain || a == SmoothHistogram {
		return Smooth
	}
	return Discrete
}

func (a Algorithm) Coloring() Coloring {
	if a == HistogramDiscrete || a == SmoothHistogram {
		return Histogram
	}
	return Plain
}
