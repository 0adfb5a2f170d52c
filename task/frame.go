package task

import (
	"fmt"

	"mandelhue/plane"
)

// Frame is one image of a run: where it is centred and how far it is zoomed.
type Frame struct {
	Centre plane.Complex
	Number uint
	Zoom   float64
}

func (f *Frame) String() string {
	output := "{Frame "
	output += fmt.Sprintf("Centre: %s ", f.Centre)
	output += fmt.Sprintf("Number: %d ", f.Number)
	output += fmt.Sprintf("Zoom: %g}", f.Zoom)
	return output
}
