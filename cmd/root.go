// Package cmd holds the command line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/BrugadaSyndrome/bslogger"
	"github.com/spf13/cobra"

	"mandelhue/config"
	"mandelhue/mandelbrot"
	"mandelhue/palette"
	"mandelhue/plane"
)

// options collects the persistent flags shared by the render commands.
type options struct {
	algorithm      string
	bailout        float64
	configFile     string
	maxIters       uint
	outFile        string
	paletteName    string
	paletteRepeats uint
	resolution     string
	verbose        bool
}

var opts options

var rootCmd = &cobra.Command{
	Use:          "mandelhue",
	Short:        "Render the Mandelbrot set with smooth and histogram coloring",
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.outFile, "out-file", "o", "mandelbrot.png", "file to save the output image to (.png, .jpg, .bmp, .tiff)")
	flags.UintVarP(&opts.maxIters, "max-iters", "m", 2000, "number of iterations to perform before deciding a point is in the set")
	flags.Float64VarP(&opts.bailout, "bailout", "b", 1e6, "bailout radius for iterations")
	flags.StringVarP(&opts.resolution, "resolution", "r", "high", "resolution of the output image: low, med or high")
	flags.StringVarP(&opts.algorithm, "algorithm", "a", mandelbrot.HistogramDiscrete.String(), "plotting algorithm: vanilla, smooth, histogram or smooth-histogram")
	flags.StringVarP(&opts.paletteName, "palette", "p", "electric", "name of the colour palette in the configuration")
	flags.UintVar(&opts.paletteRepeats, "palette-repeats", 1, "number of times the palette is repeated across [0, 1]")
	flags.StringVarP(&opts.configFile, "config", "c", "config.yaml", "configuration file with named palettes and points")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output")

	rootCmd.AddCommand(centreCmd, namedCmd, zoomCmd, listCmd, coordinatorCmd, workerCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(name string) bslogger.Logger {
	verbosity := bslogger.Normal
	if opts.verbose {
		verbosity = bslogger.All
	}
	return bslogger.NewLogger(name, verbosity, nil)
}

func loadConfiguration() (config.Configuration, error) {
	return config.Load(opts.configFile)
}

func loadPalette(configuration config.Configuration) (palette.Palette, error) {
	p, err := configuration.Palette(opts.paletteName)
	if err != nil {
		return palette.Palette{}, err
	}
	return p.Repeat(opts.paletteRepeats), nil
}

// renderSettings turns the persistent flags into the settings of one frame.
func (o options) renderSettings(centre plane.Complex, zoom float64) (mandelbrot.Settings, error) {
	width, height, err := parseResolution(o.resolution)
	if err != nil {
		return mandelbrot.Settings{}, err
	}
	algorithm, err := mandelbrot.ParseAlgorithm(o.algorithm)
	if err != nil {
		return mandelbrot.Settings{}, err
	}
	if zoom <= 0 {
		return mandelbrot.Settings{}, fmt.Errorf("%w: got %g", mandelbrot.ErrInvalidZoom, zoom)
	}

	return mandelbrot.Settings{
		BailoutRadius: o.bailout,
		Centre:        centre,
		Coloring:      algorithm.Coloring(),
		Height:        height,
		MaxIterations: o.maxIters,
		Mode:          algorithm.Mode(),
		Width:         width,
		Zoom:          zoom,
	}, nil
}
