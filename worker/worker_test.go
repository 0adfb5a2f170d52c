package worker_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mandelhue/mandelbrot"
	"mandelhue/plane"
	"mandelhue/task"
	"mandelhue/worker"
)

func renderSettings() mandelbrot.Settings {
	return mandelbrot.Settings{
		BailoutRadius: 1e6,
		Coloring:      mandelbrot.Plain,
		Height:        9,
		MaxIterations: 100,
		Mode:          mandelbrot.Smooth,
		Width:         16,
	}
}

func TestProcessMatchesGrid(t *testing.T) {
	frame := task.Frame{Centre: plane.New(-0.75, 0.1), Number: 3, Zoom: 32}
	m, err := worker.NewFrameRenderer(renderSettings(), frame)
	require.NoError(t, err)
	assert.Equal(t, frame.Centre, m.Settings().Centre)

	tk := task.NewTask(0, frame)
	tk.AddColumns(5, 9)
	worker.Process(m, &tk)
	require.True(t, tk.Done())

	xRange, yRange := plane.ViewportFromCentre(frame.Centre, frame.Zoom)
	grid := mandelbrot.EvaluateGrid(xRange, yRange, 16, 9, 100, 1e6, mandelbrot.Smooth)
	for _, result := range tk.Results {
		assert.Equal(t, grid.Column(int(result.Column)), result.Values)
	}
}

func TestNewFrameRendererRejectsZoom(t *testing.T) {
	_, err := worker.NewFrameRenderer(renderSettings(), task.Frame{Number: 4})
	assert.ErrorIs(t, err, mandelbrot.ErrInvalidZoom)
}

func TestSettings(t *testing.T) {
	s := worker.Settings{CoordinatorAddress: "10.0.0.2:51000"}
	require.NoError(t, s.Verify())
	assert.Equal(t, "10.0.0.2:51000", s.CoordinatorAddress)
	assert.NotEmpty(t, s.ServerAddress)

	file := filepath.Join(t.TempDir(), "worker.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"CoordinatorAddress": "127.0.0.1:51000", "ServerAddress": "127.0.0.1:0"}`), 0o644))
	s, err := worker.NewSettings(file)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:0", s.ServerAddress)
	assert.True(t, strings.HasPrefix(s.String(), "\nWorker settings"))

	_, err = worker.NewSettings(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
