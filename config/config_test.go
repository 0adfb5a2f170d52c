package config_test

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mandelhue/config"
	"mandelhue/palette"
	"mandelhue/plane"
)

func TestDefault(t *testing.T) {
	c := config.Default()
	assert.Equal(t, []string{"electric", "gray", "warm"}, c.PaletteNames())
	assert.Contains(t, c.PointNames(), "seahorse")

	for _, name := range c.PaletteNames() {
		_, err := c.Palette(name)
		assert.NoError(t, err, name)
	}
}

func TestPaletteFromHex(t *testing.T) {
	p, err := config.Default().Palette("electric")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0x00, G: 0x07, B: 0x64, A: 255}, p.Lookup(0))
	assert.Equal(t, color.RGBA{R: 0xed, G: 0xff, B: 0xff, A: 255}, p.Lookup(0.42))
}

func TestPaletteFromChannels(t *testing.T) {
	p, err := config.Default().Palette("warm")
	require.NoError(t, err)
	assert.Equal(t, 7, p.Len())
	assert.Equal(t, color.RGBA{R: 252, G: 163, B: 17, A: 255}, p.Lookup(0.8))
}

func TestPaletteFromGradients(t *testing.T) {
	p, err := config.Default().Palette("gray")
	require.NoError(t, err)
	assert.Equal(t, 17, p.Len())
	assert.Equal(t, color.RGBA{A: 255}, p.Lookup(0))
	assert.Equal(t, color.RGBA{A: 255}, p.Lookup(1))
}

func TestNamedPoint(t *testing.T) {
	c := config.Default()
	point, err := c.NamedPoint("seahorse")
	require.NoError(t, err)
	assert.Equal(t, plane.New(-0.745, 0.113), point.Point)
	assert.Equal(t, uint(400000), point.Zoom)

	_, err = c.NamedPoint("nowhere")
	assert.ErrorIs(t, err, config.ErrNameNotFound)
	_, err = c.Palette("nothing")
	assert.ErrorIs(t, err, config.ErrNameNotFound)
}

func TestLoad(t *testing.T) {
	c, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), c)

	file := filepath.Join(t.TempDir(), "config.yaml")
	data := `
color_palettes:
  - name: mono
    color_vals:
      - {value: 1.0, hex: "#ffffff"}
      - {value: 0.0, red: 0, green: 0, blue: 0}
named_points:
  - {name: origin, point: {re: 0, im: 0}, zoom: 2}
`
	require.NoError(t, os.WriteFile(file, []byte(data), 0o644))

	c, err = config.Load(file)
	require.NoError(t, err)
	assert.Equal(t, []string{"mono"}, c.PaletteNames())
	assert.Equal(t, []string{"origin"}, c.PointNames())

	p, err := c.Palette("mono")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, p.Lookup(1))
}

func TestInvalidPalettes(t *testing.T) {
	_, err := config.PaletteConfig{
		Name:      "short",
		ColorVals: []config.StopConfig{{Value: 0}, {Value: 0.5}},
	}.Build()
	assert.ErrorIs(t, err, palette.ErrInvalidPalette)

	_, err = config.PaletteConfig{
		Name:      "bad hex",
		ColorVals: []config.StopConfig{{Value: 0, Hex: "#zz0000"}, {Value: 1}},
	}.Build()
	assert.Error(t, err)

	c, err := config.Parse([]byte(`
color_palettes:
  - name: broken
    color_vals:
      - {value: 0.0, hex: "#000000"}
      - {value: .nan, hex: "#ff0000"}
      - {value: 1.0, hex: "#ffffff"}
`))
	require.NoError(t, err)
	_, err = c.Palette("broken")
	assert.ErrorIs(t, err, palette.ErrInvalidPalette)

	_, err = config.Parse([]byte("color_palettes: {not: [a list"))
	assert.Error(t, err)
}
