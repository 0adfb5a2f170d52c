package mandelbrot

import (
	"math"
	"sync"
)

// HistogramEqualize maps raw values to [0, 1] by their cumulative frequency. Buckets are the integer parts
// of the raw values and the fractional part blends linearly between neighbouring buckets.
// The histogram is built completely before any cell is mapped.
func HistogramEqualize(raw Grid, maxIters uint, totalPoints uint) Grid {
	if totalPoints == 0 {
		totalPoints = uint(len(raw.Values))
	}
	buckets := int(maxIters) + 1

	// Phase 1: count each batch into its own histogram, then merge
	var mutex sync.Mutex
	pixelsPerIter := make([]uint64, buckets)
	parallelFor(len(raw.Values), func(start int, end int) {
		local := make([]uint64, buckets)
		for _, v := range raw.Values[start:end] {
			k, _ := bucket(v, maxIters)
			local[k]++
		}
		mutex.Lock()
		for k, count := range local {
			pixelsPerIter[k] += count
		}
		mutex.Unlock()
	})

	cumHist := make([]float64, buckets)
	var running uint64
	for k, count := range pixelsPerIter {
		running += count
		cumHist[k] = float64(running)
	}

	// Phase 2: read only cumHist
	total := float64(totalPoints)
	equalized := NewGrid(raw.Width, raw.Height)
	parallelFor(len(raw.Values), func(start int, end int) {
		for i := start; i < end; i++ {
			k, fraction := bucket(raw.Values[i], maxIters)
			if k < int(maxIters) {
				equalized.Values[i] = (cumHist[k] + (cumHist[k+1]-cumHist[k])*fraction) / total
			} else {
				equalized.Values[i] = cumHist[k] / total
			}
		}
	})
	return equalized
}

// bucket splits a raw value into its histogram bucket and the fraction towards the next one.
// Smooth values can fall slightly below zero and are held at the first bucket.
func bucket(v float64, maxIters uint) (int, float64) {
	if math.IsNaN(v) || v <= 0 {
		return 0, 0
	}
	if v >= float64(maxIters) {
		return int(maxIters), 0
	}
	k, fraction := math.Modf(v)
	return int(k), fraction
}

// Normalize divides every raw value by maxIters, clamped to [0, 1].
func Normalize(raw Grid, maxIters uint) Grid {
	normalized := NewGrid(raw.Width, raw.Height)
	parallelFor(len(raw.Values), func(start int, end int) {
		for i := start; i < end; i++ {
			v := raw.Values[i] / float64(maxIters)
			switch {
			case math.IsNaN(v) || v < 0:
				v = 0
			case v > 1:
				v = 1
			}
			normalized.Values[i] = v
		}
	})
	return normalized
}
