package coordinator

import (
	"math"

	"mandelhue/misc"
	"mandelhue/plane"
	"mandelhue/task"
)

// transitionSettings moves the view from StartCentre at ZoomStart to EndCentre at ZoomEnd,
// multiplying or dividing the zoom by ZoomStep between frames.
type transitionSettings struct {
	EndCentre   plane.Complex
	FrameCount  uint
	StartCentre plane.Complex
	ZoomEnd     float64
	ZoomStart   float64
	ZoomStep    float64
}

func (ts *transitionSettings) Verify() error {
	if ts.ZoomStart <= 0 {
		ts.ZoomStart = 8
	}
	if ts.ZoomEnd <= 0 {
		ts.ZoomEnd = ts.ZoomStart
	}
	if ts.ZoomStep <= 1 {
		ts.ZoomStep = 2
	}

	/*
	 * The number of frames n solves start * step^n = end, i.e. n = log(end / start) / log(step).
	 * Zooming out uses the same count with start and end swapped. One extra frame shows the start itself.
	 */
	ratio := math.Abs(math.Log(ts.ZoomEnd / ts.ZoomStart))
	// Rounding error must not add a frame when end is an exact power of step away
	ts.FrameCount = uint(math.Ceil(ratio/math.Log(ts.ZoomStep)-1e-9)) + 1
	return nil
}

// Frames lists the frames of the transition numbered from firstNumber.
func (ts *transitionSettings) Frames(firstNumber uint) []task.Frame {
	frames := make([]task.Frame, 0, ts.FrameCount)
	zoomingIn := ts.ZoomStart < ts.ZoomEnd

	for i := uint(0); i < ts.FrameCount; i++ {
		t := 0.0
		if ts.FrameCount > 1 {
			t = float64(i) / float64(ts.FrameCount-1)
		}

		// The centre moves quickly while the view is wide and slowly once it is magnified
		eased := misc.EaseInExpo(t)
		if zoomingIn {
			eased = misc.EaseOutExpo(t)
		}

		frames = append(frames, task.Frame{
			Centre: plane.New(
				misc.LerpFloat64(ts.StartCentre.Re, ts.EndCentre.Re, eased),
				misc.LerpFloat64(ts.StartCentre.Im, ts.EndCentre.Im, eased),
			),
			Number: firstNumber + i,
			Zoom:   misc.LerpLog(ts.ZoomStart, ts.ZoomEnd, t),
		})
	}
	return frames
}
