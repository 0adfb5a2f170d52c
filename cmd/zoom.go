package cmd

import (
	"fmt"
	"image"
	"math"
	"path/filepath"

	"github.com/spf13/cobra"

	"mandelhue/picture"
)

type zoomOptions struct {
	crop            float64
	frameResolution string
	keyframes       uint
	outDir          string
	startZoom       float64
	steps           uint
}

var zoomOpts zoomOptions

var zoomCmd = &cobra.Command{
	Use:   "zoom NAME",
	Short: "Write a numbered zoom sequence into a named point",
	Long: "Each keyframe is rendered once and then cropped to its centre repeatedly, resampling every crop to the " +
		"frame resolution. The next keyframe is zoomed in by exactly the total crop so the frames run on smoothly.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger("Zoom")
		if zoomOpts.crop <= 0 || zoomOpts.crop >= 1 {
			return fmt.Errorf("crop must be between 0 and 1, got %g", zoomOpts.crop)
		}
		frameWidth, frameHeight, err := parseResolution(zoomOpts.frameResolution)
		if err != nil {
			return err
		}

		configuration, err := loadConfiguration()
		if err != nil {
			return err
		}
		point, err := configuration.NamedPoint(args[0])
		if err != nil {
			return err
		}
		p, err := loadPalette(configuration)
		if err != nil {
			return err
		}

		zoom := zoomOpts.startZoom
		factor := math.Pow(1/zoomOpts.crop, float64(zoomOpts.steps))
		frameNumber := 0
		for keyframe := uint(0); keyframe < zoomOpts.keyframes; keyframe++ {
			keyframeImage, err := renderFrame(point.Point, zoom, p)
			if err != nil {
				return err
			}

			for step := uint(0); step < zoomOpts.steps; step++ {
				frame := stepFrame(keyframeImage, zoomOpts.crop, step, int(frameWidth), int(frameHeight))
				path := filepath.Join(zoomOpts.outDir, fmt.Sprintf("%d.png", frameNumber))
				if err = picture.Save(path, frame); err != nil {
					return err
				}
				frameNumber++
			}
			logger.Infof("Keyframe %d/%d done at zoom %g", keyframe+1, zoomOpts.keyframes, zoom)
			zoom *= factor
		}
		logger.Infof("Saved %d frames to %s", frameNumber, zoomOpts.outDir)
		return nil
	},
}

// stepFrame crops keyframe to crop^(step+1) of its size and resamples it to width x height. Every step starts
// from the full resolution keyframe so no detail is lost between steps.
func stepFrame(keyframe image.Image, crop float64, step uint, width int, height int) *image.RGBA {
	return picture.CropScale(keyframe, math.Pow(crop, float64(step+1)), width, height)
}

func init() {
	flags := zoomCmd.Flags()
	flags.Float64Var(&zoomOpts.crop, "crop", 0.9, "fraction of the previous frame kept by each step")
	flags.StringVar(&zoomOpts.frameResolution, "frame-resolution", "med", "resolution of the written frames: low, med or high")
	flags.UintVar(&zoomOpts.keyframes, "keyframes", 30, "number of rendered keyframes")
	flags.StringVar(&zoomOpts.outDir, "out-dir", "out", "directory the frames are written to")
	flags.Float64Var(&zoomOpts.startZoom, "start-zoom", 8, "zoom of the first keyframe")
	flags.UintVar(&zoomOpts.steps, "steps", 27, "number of cropped frames per keyframe")
}
