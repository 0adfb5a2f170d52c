// Package picture turns normalised grids into images and writes them to disk.
package picture

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"mandelhue/mandelbrot"
	"mandelhue/misc"
	"mandelhue/palette"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

var formats = []string{".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff"}

// Supported reports whether Encode can write the format named by ext.
func Supported(ext string) bool {
	return lo.Contains(formats, strings.ToLower(ext))
}

// Colorize looks every value of grid up in p. Pixel (x, y) takes the grid value at (x, y).
func Colorize(grid mandelbrot.Grid, p palette.Palette) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, grid.Width, grid.Height))
	for x := 0; x < grid.Width; x++ {
		column := grid.Column(x)
		for y, value := range column {
			img.SetRGBA(x, y, p.Lookup(value))
		}
	}
	return img
}

// Encode writes img in the format named by ext (".png", ".jpg", ".jpeg", ".bmp", ".tif" or ".tiff").
func Encode(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case ".png":
		return png.Encode(w, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// Save encodes img into path, picking the format from the extension.
func Save(path string, img image.Image) error {
	if err := misc.EnsureDirectory(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create image %s: %w", path, err)
	}
	if err = Encode(f, img, filepath.Ext(path)); err != nil {
		f.Close()
		return fmt.Errorf("unable to save image %s: %w", path, err)
	}
	return f.Close()
}

// CropScale keeps the centred fraction of img and resamples it to width x height with Catmull-Rom.
func CropScale(img image.Image, fraction float64, width int, height int) *image.RGBA {
	bounds := img.Bounds()
	cropW := int(float64(bounds.Dx()) * fraction)
	cropH := int(float64(bounds.Dy()) * fraction)
	x0 := bounds.Min.X + (bounds.Dx()-cropW)/2
	y0 := bounds.Min.Y + (bounds.Dy()-cropH)/2
	source := image.Rect(x0, y0, x0+cropW, y0+cropH)

	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, source, draw.Src, nil)
	return scaled
}
