package cmd

import (
	"fmt"
	"image"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mandelhue/mandelbrot"
	"mandelhue/palette"
	"mandelhue/picture"
	"mandelhue/plane"
)

var centreZoom float64

var centreCmd = &cobra.Command{
	Use:   "centre X Y",
	Short: "Render the view centred on X + Yi",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("x: %w", err)
		}
		y, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("y: %w", err)
		}
		return renderToFile(plane.New(x, y), centreZoom, opts.outFile)
	},
}

var namedCmd = &cobra.Command{
	Use:     "named NAME",
	Aliases: []string{"centre-string"},
	Short:   "Render a named point from the configuration",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configuration, err := loadConfiguration()
		if err != nil {
			return err
		}
		point, err := configuration.NamedPoint(args[0])
		if err != nil {
			return err
		}
		return renderToFile(point.Point, float64(point.Zoom), opts.outFile)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the palettes and named points of the configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		configuration, err := loadConfiguration()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Palettes:")
		for _, name := range configuration.PaletteNames() {
			fmt.Fprintf(out, "  %s\n", name)
		}
		fmt.Fprintln(out, "Named points:")
		for _, p := range configuration.NamedPoints {
			fmt.Fprintf(out, "  %s: %s zoom %d\n", p.Name, p.Point, p.Zoom)
		}
		return nil
	},
}

func init() {
	centreCmd.Flags().Float64VarP(&centreZoom, "zoom", "z", 8, "zoom factor, the view spans 32/zoom by 18/zoom")
}

// renderFrame runs the numeric pipeline for one view and colours it.
func renderFrame(centre plane.Complex, zoom float64, p palette.Palette) (*image.RGBA, error) {
	logger := newLogger("Render")
	settings, err := opts.renderSettings(centre, zoom)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	grid, err := mandelbrot.Render(settings)
	if err != nil {
		return nil, err
	}
	logger.Debugf("Rendered %dx%d at %s zoom %g in %s", grid.Width, grid.Height, centre, zoom, time.Since(startTime))
	return picture.Colorize(grid, p), nil
}

func renderToFile(centre plane.Complex, zoom float64, outFile string) error {
	logger := newLogger("Render")
	configuration, err := loadConfiguration()
	if err != nil {
		return err
	}
	p, err := loadPalette(configuration)
	if err != nil {
		return err
	}

	img, err := renderFrame(centre, zoom, p)
	if err != nil {
		return err
	}
	if err = picture.Save(outFile, img); err != nil {
		return err
	}
	logger.Infof("Saved image to %s", filepath.Clean(outFile))
	return nil
}
