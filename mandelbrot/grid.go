package mandelbrot

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"mandelhue/plane"
)

// Grid is a dense width x height array of values stored column by column.
type Grid struct {
	Width  int
	Height int
	Values []float64
}

func NewGrid(width int, height int) Grid {
	return Grid{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}
}

func (g Grid) At(x int, y int) float64 {
	return g.Values[x*g.Height+y]
}

func (g Grid) Set(x int, y int, value float64) {
	g.Values[x*g.Height+y] = value
}

// Column returns the values of column x. The slice shares memory with the grid.
func (g Grid) Column(x int) []float64 {
	return g.Values[x*g.Height : (x+1)*g.Height]
}

// EvaluateGrid runs the escape time evaluator over every pixel. Columns are independent so they are split
// into contiguous batches and evaluated in parallel; the result does not depend on the schedule.
func EvaluateGrid(xRange plane.Interval, yRange plane.Interval, width int, height int, maxIters uint, bailoutRadius float64, mode Mode) Grid {
	grid := NewGrid(width, height)
	parallelFor(width, func(start int, end int) {
		for x := start; x < end; x++ {
			evaluateColumn(grid.Column(x), xRange, yRange, x, width, height, maxIters, bailoutRadius, mode)
		}
	})
	return grid
}

func evaluateColumn(column []float64, xRange plane.Interval, yRange plane.Interval, x int, width int, height int, maxIters uint, bailoutRadius float64, mode Mode) {
	for y := 0; y < height; y++ {
		c := plane.PixelToPlane(xRange, yRange, x, y, width, height)
		result := EscapeTime(c, plane.Id(), bailoutRadius, maxIters)
		column[y] = mode.Post(result, maxIters)
	}
}

// parallelFor calls fn over contiguous batches of [0, n) and waits for all of them.
func parallelFor(n int, fn func(start int, end int)) {
	if n <= 0 {
		return
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		fn(0, n)
		return
	}

	// Several batches per worker so slow columns near the set do not leave workers idle
	batchSize := (n + workers*4 - 1) / (workers * 4)

	var group errgroup.Group
	group.SetLimit(workers)
	for start := 0; start < n; start += batchSize {
		start := start
		end := min(start+batchSize, n)
		group.Go(func() error {
			fn(start, end)
			return nil
		})
	}
	_ = group.Wait()
}
