package coordinator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BrugadaSyndrome/bslogger"

	"mandelhue/config"
	"mandelhue/mandelbrot"
	"mandelhue/misc"
	"mandelhue/palette"
	"mandelhue/picture"
	"mandelhue/rpc"
	"mandelhue/task"
)

// frameTask collects the raw columns of one frame until all of them have arrived.
type frameTask struct {
	columnsLeft uint
	frame       task.Frame
	raw         mandelbrot.Grid
}

type Coordinator struct {
	clients             map[string]*rpc.TcpClient
	done                chan struct{}
	finished            chan struct{}
	frameCompletedCount uint
	frames              []task.Frame
	inProgress          map[uint]*frameTask
	ingested            map[uint]bool
	logFile             *os.File
	logger              bslogger.Logger
	mutex               sync.Mutex
	palette             palette.Palette
	settings            settings
	stopTickers         chan struct{}
	taskCount           uint
	taskGeneratedCount  uint
	taskIngestedCount   uint
	tasksHandedOut      map[string]map[uint]task.Task // keep track of all tasks workers have
	tasksDone           chan task.Task
	tasksTodo           chan task.Task
	workerWait          *sync.WaitGroup

	Server rpc.TcpServer
}

func NewCoordinatorFromFile(settingsFile string) (*Coordinator, error) {
	s, err := NewSettings(settingsFile)
	if err != nil {
		return nil, err
	}
	return NewCoordinator(s)
}

// NewCoordinator prepares a run: it resolves the palette, lists the frames and creates the run folder.
// Nothing is served until Start is called.
func NewCoordinator(s settings) (*Coordinator, error) {
	if err := s.Verify(); err != nil {
		return nil, err
	}

	configuration, err := config.Load(s.ConfigFile)
	if err != nil {
		return nil, err
	}
	p, err := configuration.Palette(s.PaletteName)
	if err != nil {
		return nil, err
	}

	coordinator := &Coordinator{
		clients:        make(map[string]*rpc.TcpClient),
		done:           make(chan struct{}),
		finished:       make(chan struct{}),
		frames:         s.frames(),
		inProgress:     make(map[uint]*frameTask),
		ingested:       make(map[uint]bool),
		logger:         bslogger.NewLogger("Coordinator", bslogger.Normal, nil),
		palette:        p.Repeat(s.PaletteRepeats),
		settings:       s,
		stopTickers:    make(chan struct{}),
		tasksHandedOut: make(map[string]map[uint]task.Task),
		tasksDone:      make(chan task.Task, 1000),
		tasksTodo:      make(chan task.Task, 1000),
		workerWait:     &sync.WaitGroup{},
	}

	// Determine the number of tasks that will be generated so the coordinator knows when to shut down
	switch s.TaskGeneration {
	case task.Column:
		coordinator.taskCount = s.MandelbrotSettings.Width * uint(len(coordinator.frames))
	case task.Image:
		coordinator.taskCount = uint(len(coordinator.frames))
	default:
		return nil, fmt.Errorf("unknown generation type: %d", s.TaskGeneration)
	}

	// Create directory to store files for this run
	runPath := filepath.Join(s.SavePath, s.RunName)
	if err = misc.EnsureDirectory(runPath); err != nil {
		return nil, err
	}

	// Copy the settings to the directory so the run can be duplicated in the future
	settingsBytes, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	if _, err = misc.WriteFile(filepath.Join(runPath, "settings.json"), settingsBytes); err != nil {
		coordinator.logger.Warningf("Unable to make a backup copy of the settings: %s", err)
	}

	// Create a log file to record the run
	coordinator.logFile, err = os.Create(filepath.Join(runPath, "coordinator.log"))
	if !misc.CheckError(err, coordinator.logger, misc.Warning) {
		coordinator.logger = bslogger.NewLogger("Coordinator", bslogger.Normal, coordinator.logFile)
	}

	coordinator.Server = rpc.NewTcpServer(coordinator, s.ServerAddress, "CoordinatorServer")
	return coordinator, nil
}

// Start serves workers and begins generating and ingesting tasks.
func (c *Coordinator) Start() error {
	if err := c.Server.Run(); err != nil {
		return err
	}

	go c.tickers()
	go c.generateTasks()
	go c.ingestTasks()
	return nil
}

// Wait blocks until every frame is saved and every worker has left.
func (c *Coordinator) Wait() {
	<-c.done
}

func (c *Coordinator) tickers() {
	rollCall := time.NewTicker(time.Minute)
	heartBeat := time.NewTicker(30 * time.Second)
	defer rollCall.Stop()
	defer heartBeat.Stop()

	for {
		select {
		case <-c.stopTickers:
			return

		case <-rollCall.C:
			c.logger.Debug("Roll call ticker")
			c.mutex.Lock()
			clients := make([]*rpc.TcpClient, 0, len(c.clients))
			for _, v := range c.clients {
				clients = append(clients, v)
			}
			c.mutex.Unlock()

			for _, v := range clients {
				var present bool
				if err := v.Call("Worker.RollCall", true, &present); err != nil {
					// Cannot communicate with the worker so remove it from the pool
					c.logger.Warningf("Worker %s missed roll call: %s", v.Name, err)
					var reply bool
					misc.CheckError(c.DeRegisterWorker(v.Name, &reply), c.logger, misc.Warning)
				}
			}

		case <-heartBeat.C:
			c.logger.Debug("Heart beat ticker")
			c.mutex.Lock()
			c.logger.Infof("Tasks [Generated: %d] [Ingested: %d] | Frames [Completed: %d] [WIP: %d] [Todo: %d]", c.taskGeneratedCount, c.taskIngestedCount, c.frameCompletedCount, len(c.inProgress), uint(len(c.frames))-c.frameCompletedCount)
			c.mutex.Unlock()
		}
	}
}

func (c *Coordinator) generateTasks() {
	c.logger.Info("Generating tasks")
	startTime := time.Now()
	width := c.settings.MandelbrotSettings.Width

	for _, frame := range c.frames {
		switch c.settings.TaskGeneration {
		case task.Column:
			for column := uint(0); column < width; column++ {
				taskTodo := task.NewTask(c.nextTaskID(), frame)
				taskTodo.AddColumn(column)
				c.tasksTodo <- taskTodo
			}
		case task.Image:
			taskTodo := task.NewTask(c.nextTaskID(), frame)
			taskTodo.AddColumns(0, width)
			c.tasksTodo <- taskTodo
		}
	}

	c.logger.Debugf("Done generating %d tasks in %s", c.taskGeneratedCount, time.Since(startTime))
}

func (c *Coordinator) nextTaskID() uint {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	id := c.taskGeneratedCount
	c.taskGeneratedCount++
	return id
}

func (c *Coordinator) ingestTasks() {
	c.logger.Info("Ingesting tasks")
	startTime := time.Now()

	for c.taskIngestedCount < c.taskCount {
		taskReceived := <-c.tasksDone
		if err := c.ingestTask(taskReceived); err != nil {
			c.logger.Errorf("Unable to ingest task %d: %s", taskReceived.ID, err)
		}
	}

	c.logger.Debugf("Done ingesting %d tasks in %s", c.taskIngestedCount, time.Since(startTime))
	close(c.finished)
	close(c.stopTickers)

	c.mutex.Lock()
	c.logger.Infof("Waiting for %d workers to disconnect", len(c.clients))
	c.mutex.Unlock()
	c.workerWait.Wait()

	misc.CheckError(c.Server.Stop(), c.logger, misc.Warning)
	c.logger.Infof("Saved %d frames", c.frameCompletedCount)
	if c.logFile != nil {
		c.logFile.Close()
	}
	close(c.done)
}

// ingestTask records the columns of a returned task and saves every frame it completes.
// A task that was handed out twice is only counted once.
func (c *Coordinator) ingestTask(taskReceived task.Task) error {
	c.mutex.Lock()
	delete(c.tasksHandedOut[taskReceived.WorkerAddress], taskReceived.ID)
	if c.ingested[taskReceived.ID] {
		c.mutex.Unlock()
		c.logger.Debugf("Ignoring duplicate task %d", taskReceived.ID)
		return nil
	}
	c.ingested[taskReceived.ID] = true
	c.taskIngestedCount++

	width := int(c.settings.MandelbrotSettings.Width)
	height := int(c.settings.MandelbrotSettings.Height)
	frameNumber := taskReceived.Frame.Number
	ft, ok := c.inProgress[frameNumber]
	if !ok {
		// Need a grid to hold the incoming columns
		ft = &frameTask{
			columnsLeft: uint(width),
			frame:       taskReceived.Frame,
			raw:         mandelbrot.NewGrid(width, height),
		}
		c.inProgress[frameNumber] = ft
	}

	for _, result := range taskReceived.Results {
		if int(result.Column) >= width {
			c.logger.Warningf("Task %d returned column %d outside of the frame", taskReceived.ID, result.Column)
			continue
		}
		copy(ft.raw.Column(int(result.Column)), result.Values)
		ft.columnsLeft--
	}

	complete := ft.columnsLeft == 0
	if complete {
		// Remove the frame to conserve memory
		delete(c.inProgress, frameNumber)
	}
	c.mutex.Unlock()

	if !complete {
		return nil
	}
	if err := c.saveFrame(ft); err != nil {
		return err
	}

	c.mutex.Lock()
	c.frameCompletedCount++
	c.mutex.Unlock()
	return nil
}

func (c *Coordinator) saveFrame(ft *frameTask) error {
	frameSettings := c.settings.MandelbrotSettings
	frameSettings.Centre = ft.frame.Centre
	frameSettings.Zoom = ft.frame.Zoom
	m, err := mandelbrot.NewMandelbrot(frameSettings)
	if err != nil {
		return err
	}

	img := picture.Colorize(m.Normalize(ft.raw), c.palette)
	path := filepath.Join(c.settings.SavePath, c.settings.RunName, fmt.Sprintf("%d%s", ft.frame.Number, c.settings.ImageFormat))
	if err = picture.Save(path, img); err != nil {
		return err
	}
	c.logger.Infof("Saved frame %d to %s", ft.frame.Number, path)
	return nil
}

func (c *Coordinator) RegisterWorker(workerServerAddress string, reply *bool) error {
	// Create a client to communicate with this worker
	client := rpc.NewTcpClient(workerServerAddress, workerServerAddress)
	misc.CheckError(client.Connect(), c.logger, misc.Warning)

	c.mutex.Lock()
	c.clients[workerServerAddress] = client
	// Track all tasks this worker checks out
	c.tasksHandedOut[workerServerAddress] = make(map[uint]task.Task)
	c.mutex.Unlock()

	c.logger.Infof("Worker joined: %s", workerServerAddress)
	c.workerWait.Add(1)
	*reply = true
	return nil
}

func (c *Coordinator) DeRegisterWorker(workerServerAddress string, reply *bool) error {
	c.mutex.Lock()
	client, ok := c.clients[workerServerAddress]
	if !ok {
		c.mutex.Unlock()
		return fmt.Errorf("unknown worker %s", workerServerAddress)
	}
	unfinished := c.tasksHandedOut[workerServerAddress]
	delete(c.tasksHandedOut, workerServerAddress)
	delete(c.clients, workerServerAddress)
	c.mutex.Unlock()

	// Put tasks this worker has not returned yet back into the todo pool
	go func(tasks map[uint]task.Task) {
		for _, v := range tasks {
			select {
			case c.tasksTodo <- v:
			case <-c.finished:
				return
			}
		}
	}(unfinished)

	misc.CheckError(client.Disconnect(), c.logger, misc.Warning)

	c.logger.Infof("Worker left: %s", workerServerAddress)
	c.workerWait.Done()
	*reply = true
	return nil
}

func (c *Coordinator) RollCall(request bool, present *bool) error {
	*present = true
	return nil
}

// GetTask blocks until a task is available. Once every task is ingested it returns task.ErrAllTasksHandedOut.
func (c *Coordinator) GetTask(workerAddress string, t *task.Task) error {
	for {
		var todo task.Task
		select {
		case todo = <-c.tasksTodo:
		case <-c.finished:
			c.logger.Info("Telling worker that all tasks are handed out")
			return task.ErrAllTasksHandedOut
		}

		c.mutex.Lock()
		if c.ingested[todo.ID] {
			// A requeued task that came back from its first worker after all
			c.mutex.Unlock()
			continue
		}
		todo.WorkerAddress = workerAddress
		if handedOut, ok := c.tasksHandedOut[workerAddress]; ok {
			handedOut[todo.ID] = todo
		}
		c.mutex.Unlock()

		*t = todo
		return nil
	}
}

func (c *Coordinator) ReturnTask(done task.Task, reply *bool) error {
	select {
	case c.tasksDone <- done:
	case <-c.finished:
		// late copy of a requeued task
	}
	*reply = true
	return nil
}

func (c *Coordinator) GetRenderSettings(workerAddress string, reply *mandelbrot.Settings) error {
	*reply = c.settings.MandelbrotSettings
	return nil
}
