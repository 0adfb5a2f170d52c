// Package config loads named palettes and named points from a YAML file.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"mandelhue/misc"
	"mandelhue/palette"
	"mandelhue/plane"
)

var ErrNameNotFound = errors.New("name not found in configuration")

//go:embed default.yaml
var defaultConfiguration []byte

type Configuration struct {
	ColorPalettes []PaletteConfig `yaml:"color_palettes"`
	NamedPoints   []NamedPoint    `yaml:"named_points"`
}

// PaletteConfig lists either explicit stops or gradients, stops win when both are given.
type PaletteConfig struct {
	Name      string           `yaml:"name"`
	ColorVals []StopConfig     `yaml:"color_vals"`
	Gradients []GradientConfig `yaml:"gradients"`
}

// StopConfig is a palette stop given either as red/green/blue channels or as a hex string.
type StopConfig struct {
	Value float64 `yaml:"value"`
	Red   uint8   `yaml:"red"`
	Green uint8   `yaml:"green"`
	Blue  uint8   `yaml:"blue"`
	Hex   string  `yaml:"hex,omitempty"`
}

type GradientConfig struct {
	Start  string `yaml:"start"`
	End    string `yaml:"end"`
	Colors int    `yaml:"colors"`
}

// NamedPoint is a saved centre and zoom.
type NamedPoint struct {
	Name  string        `yaml:"name"`
	Point plane.Complex `yaml:"point"`
	Zoom  uint          `yaml:"zoom"`
}

func Default() Configuration {
	c, err := Parse(defaultConfiguration)
	if err != nil {
		panic(fmt.Sprintf("default configuration: %s", err))
	}
	return c
}

func Parse(data []byte) (Configuration, error) {
	var c Configuration
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Configuration{}, fmt.Errorf("problem reading yaml: %w", err)
	}
	return c, nil
}

// Load reads fileName, falling back to the built in configuration when the file does not exist.
func Load(fileName string) (Configuration, error) {
	if _, err := os.Stat(fileName); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	data, err := misc.ReadFile(fileName)
	if err != nil {
		return Configuration{}, err
	}
	return Parse(data)
}

func (c Configuration) Palette(name string) (palette.Palette, error) {
	pc, found := lo.Find(c.ColorPalettes, func(p PaletteConfig) bool {
		return p.Name == name
	})
	if !found {
		return palette.Palette{}, fmt.Errorf("palette %q: %w", name, ErrNameNotFound)
	}
	return pc.Build()
}

func (c Configuration) NamedPoint(name string) (NamedPoint, error) {
	point, found := lo.Find(c.NamedPoints, func(p NamedPoint) bool {
		return p.Name == name
	})
	if !found {
		return NamedPoint{}, fmt.Errorf("named point %q: %w", name, ErrNameNotFound)
	}
	return point, nil
}

func (c Configuration) PaletteNames() []string {
	return lo.Map(c.ColorPalettes, func(p PaletteConfig, _ int) string {
		return p.Name
	})
}

func (c Configuration) PointNames() []string {
	return lo.Map(c.NamedPoints, func(p NamedPoint, _ int) string {
		return p.Name
	})
}

func (pc PaletteConfig) Build() (palette.Palette, error) {
	if len(pc.ColorVals) == 0 && len(pc.Gradients) > 0 {
		gradients := make([]palette.Gradient, len(pc.Gradients))
		for i, g := range pc.Gradients {
			start, err := parseHex(g.Start)
			if err != nil {
				return palette.Palette{}, fmt.Errorf("palette %q: %w", pc.Name, err)
			}
			end, err := parseHex(g.End)
			if err != nil {
				return palette.Palette{}, fmt.Errorf("palette %q: %w", pc.Name, err)
			}
			gradients[i] = palette.Gradient{StartColor: start, EndColor: end, NumberColors: g.Colors}
		}
		return palette.FromGradients(gradients)
	}

	stops := make([]palette.ColorStop, len(pc.ColorVals))
	for i, sc := range pc.ColorVals {
		stop, err := sc.stop()
		if err != nil {
			return palette.Palette{}, fmt.Errorf("palette %q: %w", pc.Name, err)
		}
		stops[i] = stop
	}
	p, err := palette.New(stops)
	if err != nil {
		return palette.Palette{}, fmt.Errorf("palette %q: %w", pc.Name, err)
	}
	return p, nil
}

func (sc StopConfig) stop() (palette.ColorStop, error) {
	if sc.Hex == "" {
		return palette.ColorStop{Value: sc.Value, Red: sc.Red, Green: sc.Green, Blue: sc.Blue}, nil
	}
	c, err := parseHex(sc.Hex)
	if err != nil {
		return palette.ColorStop{}, err
	}
	return palette.NewColorStop(sc.Value, c), nil
}

func parseHex(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("colour %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}
