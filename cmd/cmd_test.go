package cmd

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mandelhue/mandelbrot"
	"mandelhue/picture"
	"mandelhue/plane"
)

func TestParseResolution(t *testing.T) {
	width, height, err := parseResolution("Med")
	require.NoError(t, err)
	assert.Equal(t, uint(960), width)
	assert.Equal(t, uint(540), height)

	_, _, err = parseResolution("ultra")
	assert.Error(t, err)
}

func TestRenderSettings(t *testing.T) {
	o := options{algorithm: "smooth-histogram", bailout: 4, maxIters: 300, resolution: "low"}
	settings, err := o.renderSettings(plane.New(-0.5, 0), 8)
	require.NoError(t, err)
	assert.Equal(t, mandelbrot.Smooth, settings.Mode)
	assert.Equal(t, mandelbrot.Histogram, settings.Coloring)
	assert.Equal(t, uint(320), settings.Width)
	assert.Equal(t, uint(300), settings.MaxIterations)

	_, err = o.renderSettings(plane.New(-0.5, 0), 0)
	assert.ErrorIs(t, err, mandelbrot.ErrInvalidZoom)

	o.algorithm = "fancy"
	_, err = o.renderSettings(plane.New(-0.5, 0), 8)
	assert.Error(t, err)
}

func TestCentreCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "home.png")
	rootCmd.SetArgs([]string{"centre", "--zoom", "8", "-r", "low", "-m", "50", "-o", out, "-c", filepath.Join(t.TempDir(), "none.yaml"), "--", "-0.5", "0"})
	require.NoError(t, rootCmd.Execute())
	assert.FileExists(t, out)
}

func TestListCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	t.Cleanup(func() { rootCmd.SetOut(nil) })
	rootCmd.SetArgs([]string{"list", "-c", filepath.Join(t.TempDir(), "none.yaml")})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "electric")
	assert.Contains(t, buf.String(), "seahorse")
}

func TestZoomCommand(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "frames")
	rootCmd.SetArgs([]string{"zoom", "home", "--keyframes", "2", "--steps", "2", "--frame-resolution", "low",
		"--out-dir", outDir, "-r", "low", "-m", "30", "-c", filepath.Join(t.TempDir(), "none.yaml")})
	require.NoError(t, rootCmd.Execute())
	for _, name := range []string{"0.png", "1.png", "2.png", "3.png"} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}
	assert.NoFileExists(t, filepath.Join(outDir, "4.png"))
}

func stripes(width int, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		shade := uint8(0)
		if (x/3)%2 == 0 {
			shade = 255
		}
		for y := 0; y < height; y++ {
			img.SetRGBA(x, y, color.RGBA{R: shade, G: shade, B: shade, A: 255})
		}
	}
	return img
}

func redDeviation(img *image.RGBA) float64 {
	bounds := img.Bounds()
	n := float64(bounds.Dx() * bounds.Dy())
	var sum, sumSquares float64
	for x := bounds.Min.X; x < bounds.Max.X; x++ {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			r := float64(img.RGBAAt(x, y).R)
			sum += r
			sumSquares += r * r
		}
	}
	mean := sum / n
	return math.Sqrt(sumSquares/n - mean*mean)
}

func TestStepFrameCropsKeyframe(t *testing.T) {
	keyframe := stripes(1920, 1080)

	late := stepFrame(keyframe, 0.9, 7, 960, 540)
	single := picture.CropScale(keyframe, math.Pow(0.9, 8), 960, 540)
	assert.Equal(t, single.Pix, late.Pix)

	var chained image.Image = keyframe
	var last *image.RGBA
	for step := 0; step < 8; step++ {
		last = picture.CropScale(chained, 0.9, 960, 540)
		chained = last
	}
	assert.Greater(t, redDeviation(late), redDeviation(last))
}
