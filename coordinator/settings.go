package coordinator

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BrugadaSyndrome/bslogger"

	"mandelhue/mandelbrot"
	"mandelhue/misc"
	"mandelhue/picture"
	"mandelhue/task"
)

type settings struct {
	logger bslogger.Logger

	ConfigFile         string
	ImageFormat        string
	MandelbrotSettings mandelbrot.Settings
	PaletteName        string
	PaletteRepeats     uint
	RunName            string
	SavePath           string
	ServerAddress      string
	TaskGeneration     task.Generation
	TransitionSettings []transitionSettings
}

func NewSettings(settingsFile string) (settings, error) {
	s := settings{
		logger: bslogger.NewLogger("CoordinatorSettings", bslogger.Normal, nil),
	}
	fileBytes, err := misc.ReadFile(settingsFile)
	if err != nil {
		return s, err
	}
	if err = json.Unmarshal(fileBytes, &s); err != nil {
		return s, fmt.Errorf("unable to parse %s: %w", settingsFile, err)
	}
	if err = s.Verify(); err != nil {
		return s, err
	}
	s.logger.Debug(s.String())
	return s, nil
}

func (s *settings) String() string {
	output := "\nCoordinator settings\n"
	output += fmt.Sprintf("My Address: %s\n", s.ServerAddress)
	output += fmt.Sprintf("Palette: %s x%d\n", s.PaletteName, s.PaletteRepeats)
	output += fmt.Sprintf("Run: %s\n", s.RunName)
	output += fmt.Sprintf("Task Generation: %s\n", s.TaskGeneration)
	output += fmt.Sprintf("Transitions: %d\n", len(s.TransitionSettings))
	output += s.MandelbrotSettings.String()
	return output
}

func (s *settings) Verify() error {
	if s.ImageFormat == "" {
		s.ImageFormat = ".png"
	}
	if !strings.HasPrefix(s.ImageFormat, ".") {
		s.ImageFormat = "." + s.ImageFormat
	}
	s.ImageFormat = strings.ToLower(s.ImageFormat)
	if !picture.Supported(s.ImageFormat) {
		return fmt.Errorf("image format: %w: %q", picture.ErrUnsupportedFormat, s.ImageFormat)
	}
	if s.PaletteName == "" {
		s.PaletteName = "electric"
	}
	if s.PaletteRepeats == 0 {
		s.PaletteRepeats = 1
	}
	if s.RunName == "" {
		s.RunName = "run_" + time.Now().Format("2006_01_02-03_04_05")
	}
	if s.SavePath == "" {
		s.SavePath, _ = os.Getwd()
	}
	if s.ServerAddress == "" {
		s.ServerAddress = fmt.Sprintf("%s:%s", misc.LocalAddressOr("127.0.0.1"), "51000")
	}
	if s.TaskGeneration < task.Column || s.TaskGeneration > task.Image {
		s.TaskGeneration = task.Column
	}
	if len(s.TransitionSettings) == 0 {
		s.TransitionSettings = []transitionSettings{
			{
				StartCentre: s.MandelbrotSettings.Centre,
				EndCentre:   s.MandelbrotSettings.Centre,
				ZoomStart:   s.MandelbrotSettings.Zoom,
				ZoomEnd:     s.MandelbrotSettings.Zoom,
			},
		}
	}

	// Verify each of the transition settings objects
	for i := 0; i < len(s.TransitionSettings); i++ {
		misc.CheckError(s.TransitionSettings[i].Verify(), s.logger, misc.Warning)
	}

	// Each frame brings its own centre and zoom, the base settings only need a valid one
	if s.MandelbrotSettings.Zoom <= 0 {
		s.MandelbrotSettings.Zoom = s.TransitionSettings[0].ZoomStart
	}
	if err := s.MandelbrotSettings.Verify(); err != nil {
		return fmt.Errorf("mandelbrot settings: %w", err)
	}

	return nil
}

// frames lists every frame of every transition, numbered from 1.
func (s *settings) frames() []task.Frame {
	frames := make([]task.Frame, 0)
	for i := 0; i < len(s.TransitionSettings); i++ {
		frames = append(frames, s.TransitionSettings[i].Frames(uint(len(frames))+1)...)
	}
	return frames
}
