package worker

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/BrugadaSyndrome/bslogger"

	"mandelhue/mandelbrot"
	"mandelhue/misc"
	"mandelhue/rpc"
	"mandelhue/task"
)

type Worker struct {
	client         *rpc.TcpClient
	logger         bslogger.Logger
	myAddress      string
	renderSettings mandelbrot.Settings
	stopTickers    chan struct{}
	tasksCompleted atomic.Int64

	Server rpc.TcpServer
}

func NewWorker(settings Settings) (*Worker, error) {
	if err := settings.Verify(); err != nil {
		return nil, err
	}

	worker := &Worker{
		client:      rpc.NewTcpClient(settings.CoordinatorAddress, "Coordinator"),
		logger:      bslogger.NewLogger(fmt.Sprintf("Worker %s", settings.ServerAddress), bslogger.Normal, nil),
		myAddress:   settings.ServerAddress,
		stopTickers: make(chan struct{}),
	}
	worker.Server = rpc.NewTcpServer(worker, settings.ServerAddress, worker.myAddress)
	return worker, nil
}

// Run registers with the coordinator and processes tasks until the coordinator has none left.
func (w *Worker) Run() error {
	if err := w.Server.Run(); err != nil {
		return err
	}
	w.myAddress = w.Server.Address()

	if err := w.client.Connect(); err != nil {
		misc.CheckError(w.Server.Stop(), w.logger, misc.Warning)
		return err
	}

	var reply bool
	if err := w.client.Call("Coordinator.RegisterWorker", w.myAddress, &reply); err != nil {
		w.shutdown()
		return err
	}
	if err := w.client.Call("Coordinator.GetRenderSettings", w.myAddress, &w.renderSettings); err != nil {
		w.shutdown()
		return err
	}

	go w.tickers()
	err := w.processTasks()
	close(w.stopTickers)

	w.logger.Info("Shutting down")
	misc.CheckError(w.client.Call("Coordinator.DeRegisterWorker", w.myAddress, &reply), w.logger, misc.Warning)
	w.shutdown()
	return err
}

func (w *Worker) shutdown() {
	misc.CheckError(w.client.Disconnect(), w.logger, misc.Warning)
	misc.CheckError(w.Server.Stop(), w.logger, misc.Warning)
}

func (w *Worker) tickers() {
	rollCall := time.NewTicker(time.Minute)
	heartBeat := time.NewTicker(30 * time.Second)
	defer rollCall.Stop()
	defer heartBeat.Stop()

	for {
		select {
		case <-w.stopTickers:
			return

		case <-rollCall.C:
			w.logger.Debug("Roll call ticker")
			var present bool
			if err := w.client.Call("Coordinator.RollCall", true, &present); err != nil {
				w.logger.Warningf("Coordinator missed roll call: %s", err)
			}

		case <-heartBeat.C:
			w.logger.Debug("Heart beat ticker")
			w.logger.Infof("Tasks [Completed: %d]", w.tasksCompleted.Load())
		}
	}
}

func (w *Worker) processTasks() error {
	w.logger.Info("Processing tasks")
	startTime := time.Now()
	renderers := make(map[uint]*mandelbrot.Mandelbrot)

	for {
		var taskTodo task.Task
		err := w.client.Call("Coordinator.GetTask", w.myAddress, &taskTodo, task.ErrAllTasksHandedOut)
		if task.IsAllTasksHandedOut(err) {
			// This is an expected error. No more work to do
			break
		}
		if err != nil {
			return fmt.Errorf("unable to get a task: %w", err)
		}

		// Frames are split over many tasks, keep one renderer per frame
		m, ok := renderers[taskTodo.Frame.Number]
		if !ok {
			m, err = NewFrameRenderer(w.renderSettings, taskTodo.Frame)
			if err != nil {
				return err
			}
			renderers[taskTodo.Frame.Number] = m
		}
		Process(m, &taskTodo)

		var reply bool
		if err = w.client.Call("Coordinator.ReturnTask", taskTodo, &reply); err != nil {
			return fmt.Errorf("unable to return a task: %w", err)
		}
		w.tasksCompleted.Add(1)
	}

	w.logger.Info("Done processing tasks")
	w.logger.Debugf("Processed %d tasks in %s", w.tasksCompleted.Load(), time.Since(startTime))
	return nil
}

// NewFrameRenderer builds the renderer for one frame from the run's shared settings.
func NewFrameRenderer(settings mandelbrot.Settings, frame task.Frame) (*mandelbrot.Mandelbrot, error) {
	settings.Centre = frame.Centre
	settings.Zoom = frame.Zoom
	m, err := mandelbrot.NewMandelbrot(settings)
	if err != nil {
		return nil, fmt.Errorf("frame %d: %w", frame.Number, err)
	}
	return &m, nil
}

// Process evaluates every column of t that has no result yet.
func Process(m *mandelbrot.Mandelbrot, t *task.Task) {
	for {
		column, err := t.GetNextColumn()
		if err != nil {
			break
		}
		t.AddResult(m.EvaluateColumn(int(column)))
	}
}

// TasksCompleted is safe to call while Run is processing tasks.
func (w *Worker) TasksCompleted() int64 {
	return w.tasksCompleted.Load()
}

func (w *Worker) RollCall(request bool, present *bool) error {
	*present = true
	return nil
}
