package coordinator

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mandelhue/mandelbrot"
	"mandelhue/picture"
	"mandelhue/plane"
	"mandelhue/task"
	"mandelhue/worker"
)

func testSettings(t *testing.T, generation task.Generation) settings {
	return settings{
		ConfigFile: filepath.Join(t.TempDir(), "missing.yaml"),
		MandelbrotSettings: mandelbrot.Settings{
			BailoutRadius: 4,
			Coloring:      mandelbrot.Histogram,
			Height:        6,
			MaxIterations: 50,
			Mode:          mandelbrot.Smooth,
			Width:         8,
		},
		PaletteName:    "warm",
		PaletteRepeats: 2,
		RunName:        "test-run",
		SavePath:       t.TempDir(),
		ServerAddress:  "127.0.0.1:0",
		TaskGeneration: generation,
		TransitionSettings: []transitionSettings{
			{
				StartCentre: plane.New(-0.5, 0),
				EndCentre:   plane.New(-0.75, 0.1),
				ZoomStart:   8,
				ZoomEnd:     16,
				ZoomStep:    2,
			},
		},
	}
}

// work plays the part of a worker without any networking.
func work(t *testing.T, c *Coordinator, address string) int {
	var renderSettings mandelbrot.Settings
	require.NoError(t, c.GetRenderSettings(address, &renderSettings))

	processed := 0
	for {
		var todo task.Task
		err := c.GetTask(address, &todo)
		if task.IsAllTasksHandedOut(err) {
			return processed
		}
		require.NoError(t, err)

		m, err := worker.NewFrameRenderer(renderSettings, todo.Frame)
		require.NoError(t, err)
		worker.Process(m, &todo)

		var reply bool
		require.NoError(t, c.ReturnTask(todo, &reply))
		processed++
	}
}

func readPNG(t *testing.T, path string) image.Image {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	return img
}

func TestCoordinatorRun(t *testing.T) {
	for _, generation := range []task.Generation{task.Column, task.Image} {
		t.Run(generation.String(), func(t *testing.T) {
			s := testSettings(t, generation)
			c, err := NewCoordinator(s)
			require.NoError(t, err)
			require.Len(t, c.frames, 2)

			go c.generateTasks()
			go c.ingestTasks()
			processed := work(t, c, "in-process")
			c.Wait()

			assert.Equal(t, int(c.taskCount), processed)
			assert.Equal(t, uint(2), c.frameCompletedCount)

			runPath := filepath.Join(s.SavePath, s.RunName)
			assert.FileExists(t, filepath.Join(runPath, "settings.json"))
			assert.FileExists(t, filepath.Join(runPath, "coordinator.log"))

			for _, frame := range c.frames {
				m, err := worker.NewFrameRenderer(c.settings.MandelbrotSettings, frame)
				require.NoError(t, err)
				want := picture.Colorize(m.Render(), c.palette)

				got := readPNG(t, filepath.Join(runPath, fmt.Sprintf("%d.png", frame.Number)))
				require.Equal(t, want.Bounds(), got.Bounds())
				for x := 0; x < want.Bounds().Dx(); x++ {
					for y := 0; y < want.Bounds().Dy(); y++ {
						assert.Equal(t, want.RGBAAt(x, y), color.RGBAModel.Convert(got.At(x, y)))
					}
				}
			}
		})
	}
}

func TestCoordinatorRunWithoutDotInFormat(t *testing.T) {
	s := testSettings(t, task.Image)
	s.ImageFormat = "png"
	c, err := NewCoordinator(s)
	require.NoError(t, err)

	go c.generateTasks()
	go c.ingestTasks()
	work(t, c, "in-process")
	c.Wait()

	runPath := filepath.Join(s.SavePath, s.RunName)
	assert.FileExists(t, filepath.Join(runPath, "1.png"))
	assert.FileExists(t, filepath.Join(runPath, "2.png"))
}

func TestCoordinatorServesWorkers(t *testing.T) {
	s := testSettings(t, task.Column)
	c, err := NewCoordinator(s)
	require.NoError(t, err)
	require.NoError(t, c.Start())

	w, err := worker.NewWorker(worker.Settings{CoordinatorAddress: c.Server.Address(), ServerAddress: "127.0.0.1:0"})
	require.NoError(t, err)

	// Read the counter while the worker is busy
	stopPolling := make(chan struct{})
	polled := make(chan struct{})
	go func() {
		defer close(polled)
		for {
			select {
			case <-stopPolling:
				return
			default:
				_ = w.TasksCompleted()
			}
		}
	}()

	require.NoError(t, w.Run())
	close(stopPolling)
	<-polled
	c.Wait()

	assert.Equal(t, int64(c.taskCount), w.TasksCompleted())
	runPath := filepath.Join(s.SavePath, s.RunName)
	assert.FileExists(t, filepath.Join(runPath, "1.png"))
	assert.FileExists(t, filepath.Join(runPath, "2.png"))
}

func TestDeRegisterRequeuesTasks(t *testing.T) {
	c, err := NewCoordinator(testSettings(t, task.Column))
	require.NoError(t, err)
	t.Cleanup(func() { c.logFile.Close() })
	go c.generateTasks()

	var reply bool
	require.NoError(t, c.RegisterWorker("127.0.0.1:1", &reply))
	assert.True(t, reply)

	var first task.Task
	require.NoError(t, c.GetTask("127.0.0.1:1", &first))
	assert.Equal(t, "127.0.0.1:1", first.WorkerAddress)

	require.NoError(t, c.DeRegisterWorker("127.0.0.1:1", &reply))
	assert.Error(t, c.DeRegisterWorker("127.0.0.1:1", &reply))

	seen := false
	for i := uint(0); i < c.taskCount; i++ {
		var todo task.Task
		require.NoError(t, c.GetTask("in-process", &todo))
		if todo.ID == first.ID {
			seen = true
			assert.Equal(t, "in-process", todo.WorkerAddress)
		}
	}
	assert.True(t, seen)
}

func TestRollCall(t *testing.T) {
	c := &Coordinator{}
	var present bool
	require.NoError(t, c.RollCall(true, &present))
	assert.True(t, present)
}

func TestTransitionFrames(t *testing.T) {
	in := transitionSettings{StartCentre: plane.New(0, 0), EndCentre: plane.New(1, -1), ZoomStart: 8, ZoomEnd: 64, ZoomStep: 2}
	require.NoError(t, in.Verify())
	assert.Equal(t, uint(4), in.FrameCount)

	frames := in.Frames(5)
	require.Len(t, frames, 4)
	assert.Equal(t, uint(5), frames[0].Number)
	assert.Equal(t, uint(8), frames[3].Number)
	assert.Equal(t, plane.New(0, 0), frames[0].Centre)
	assert.InDelta(t, 8, frames[0].Zoom, 1e-9)
	assert.InDelta(t, 16, frames[1].Zoom, 1e-9)
	assert.InDelta(t, 64, frames[3].Zoom, 1e-9)
	assert.Equal(t, plane.New(1, -1), frames[3].Centre)

	out := transitionSettings{ZoomStart: 64, ZoomEnd: 8, ZoomStep: 2}
	require.NoError(t, out.Verify())
	assert.Equal(t, uint(4), out.FrameCount)
	zooms := out.Frames(1)
	assert.InDelta(t, 32, zooms[1].Zoom, 1e-9)

	still := transitionSettings{}
	require.NoError(t, still.Verify())
	assert.Equal(t, uint(1), still.FrameCount)
	assert.InDelta(t, 8, still.Frames(1)[0].Zoom, 1e-9)
}

func TestSettingsVerify(t *testing.T) {
	s := settings{
		ConfigFile:         "config.yaml",
		MandelbrotSettings: mandelbrot.Settings{Centre: plane.New(-0.5, 0), Zoom: 8},
		ServerAddress:      "127.0.0.1:0",
	}
	require.NoError(t, s.Verify())
	assert.Equal(t, ".png", s.ImageFormat)
	assert.Equal(t, "electric", s.PaletteName)
	assert.Equal(t, uint(1), s.PaletteRepeats)
	assert.NotEmpty(t, s.RunName)
	assert.Equal(t, task.Column, s.TaskGeneration)
	require.Len(t, s.TransitionSettings, 1)
	assert.Len(t, s.frames(), 1)

	upper := settings{ImageFormat: "PNG", MandelbrotSettings: mandelbrot.Settings{Zoom: 8}, ServerAddress: "127.0.0.1:0"}
	require.NoError(t, upper.Verify())
	assert.Equal(t, ".png", upper.ImageFormat)

	gif := settings{ImageFormat: ".gif", MandelbrotSettings: mandelbrot.Settings{Zoom: 8}, ServerAddress: "127.0.0.1:0"}
	assert.ErrorIs(t, gif.Verify(), picture.ErrUnsupportedFormat)

	bad := settings{MandelbrotSettings: mandelbrot.Settings{Mode: mandelbrot.Mode(7)}, ServerAddress: "127.0.0.1:0"}
	assert.ErrorIs(t, bad.Verify(), mandelbrot.ErrInvalidSettings)
}
