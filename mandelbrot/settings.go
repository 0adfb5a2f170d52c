package mandelbrot

import (
	"errors"
	"fmt"

	"github.com/BrugadaSyndrome/bslogger"

	"mandelhue/plane"
)

var (
	ErrInvalidZoom     = errors.New("zoom must be greater than zero")
	ErrInvalidSettings = errors.New("invalid render settings")
)

// Settings holds everything one render needs. It is passed by value and never read from global state.
type Settings struct {
	logger bslogger.Logger

	BailoutRadius float64
	Centre        plane.Complex
	Coloring      Coloring
	Height        uint
	MaxIterations uint
	Mode          Mode
	Width         uint
	Zoom          float64
}

// Verify fills unset fields with defaults. A zoom that is not positive cannot be defaulted and is rejected.
func (s *Settings) Verify() error {
	s.logger = bslogger.NewLogger("MandelbrotSettings", bslogger.Normal, nil)

	if s.Zoom <= 0 {
		return fmt.Errorf("%w: got %g", ErrInvalidZoom, s.Zoom)
	}
	if s.BailoutRadius <= 0 {
		s.BailoutRadius = 4
		s.logger.Debugf("Defaulting BailoutRadius to %g", s.BailoutRadius)
	}
	if s.Height == 0 {
		s.Height = 1080
	}
	if s.MaxIterations == 0 {
		s.MaxIterations = 2000
	}
	if s.Width == 0 {
		s.Width = 1920
	}
	if s.Mode < Discrete || s.Mode > Smooth {
		return fmt.Errorf("%w: unknown mode %d", ErrInvalidSettings, s.Mode)
	}
	if s.Coloring < Plain || s.Coloring > Histogram {
		return fmt.Errorf("%w: unknown coloring %d", ErrInvalidSettings, s.Coloring)
	}

	// Smooth values use log2(log2|z|) which is undefined once |z| <= 1
	if s.Mode == Smooth && s.BailoutRadius <= 1 {
		s.logger.Warningf("BailoutRadius %g is too small for smooth coloring, disabling it", s.BailoutRadius)
		s.Mode = Discrete
	}

	return nil
}

func (s *Settings) String() string {
	output := "\nMandelbrot settings\n"
	output += fmt.Sprintf("Bailout Radius: %g\n", s.BailoutRadius)
	output += fmt.Sprintf("Centre: %s\n", s.Centre)
	output += fmt.Sprintf("Coloring: %s\n", s.Coloring)
	output += fmt.Sprintf("Height: %d\n", s.Height)
	output += fmt.Sprintf("Max Iterations: %d\n", s.MaxIterations)
	output += fmt.Sprintf("Mode: %s\n", s.Mode)
	output += fmt.Sprintf("Width: %d\n", s.Width)
	output += fmt.Sprintf("Zoom: %g\n", s.Zoom)
	return output
}
