package mandelbrot

import (
	"mandelhue/plane"
)

// Mandelbrot renders one frame described by verified settings.
type Mandelbrot struct {
	settings Settings
	xRange   plane.Interval
	yRange   plane.Interval
}

func NewMandelbrot(settings Settings) (Mandelbrot, error) {
	if err := settings.Verify(); err != nil {
		return Mandelbrot{}, err
	}

	xRange, yRange := plane.ViewportFromCentre(settings.Centre, settings.Zoom)
	return Mandelbrot{
		settings: settings,
		xRange:   xRange,
		yRange:   yRange,
	}, nil
}

func (m *Mandelbrot) Settings() Settings {
	return m.settings
}

// EvaluateColumn returns the raw values of column x, the same values EvaluateGrid stores for that column.
func (m *Mandelbrot) EvaluateColumn(x int) []float64 {
	column := make([]float64, m.settings.Height)
	evaluateColumn(column, m.xRange, m.yRange, x, int(m.settings.Width), int(m.settings.Height), m.settings.MaxIterations, m.settings.BailoutRadius, m.settings.Mode)
	return column
}

// Raw evaluates every pixel of the frame without normalising.
func (m *Mandelbrot) Raw() Grid {
	return EvaluateGrid(m.xRange, m.yRange, int(m.settings.Width), int(m.settings.Height), m.settings.MaxIterations, m.settings.BailoutRadius, m.settings.Mode)
}

// Normalize applies the configured coloring to a raw grid of this frame.
func (m *Mandelbrot) Normalize(raw Grid) Grid {
	if m.settings.Coloring == Histogram {
		return HistogramEqualize(raw, m.settings.MaxIterations, m.settings.Width*m.settings.Height)
	}
	return Normalize(raw, m.settings.MaxIterations)
}

func (m *Mandelbrot) Render() Grid {
	return m.Normalize(m.Raw())
}

// Render runs the whole numeric pipeline: viewport, grid evaluation, then histogram or plain normalisation.
// Every value of the returned grid is in [0, 1].
func Render(settings Settings) (Grid, error) {
	m, err := NewMandelbrot(settings)
	if err != nil {
		return Grid{}, err
	}
	return m.Render(), nil
}
