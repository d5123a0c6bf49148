package universe

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"
)

var (
	ErrUnknownTemplate = errors.New("unknown template")
	ErrUnknownSeed     = errors.New("unknown seeding mode")
	ErrRunning         = errors.New("universe is running")
	ErrClosed          = errors.New("universe is closed")
)

//Options represents the Universe's configurable options
type Options struct {
	Width           int
	Height          int
	Interval        time.Duration
	MaxSteps        int
	MaxSkippedTicks int
	Seed            string                 //seeding mode, one of the Seeders names
	RandSeed        int64                  //random source seed, 0 means time based
	Debug           bool                   //log every cell transition
	Advanced        map[string]interface{} //advanced options (engine specific)
}

//Status represents the status of the Universe at concrete moment
type Status struct {
	IterationNum  int
	RunningMode   RunningState
	LiveCells     int
	IterationTime time.Duration
	Details       map[string]interface{} //step phases timings
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
type Viewer interface {
	Refresh()
	Register(u Universe)
	Start()
}

//The universe running status at the concrete moment
type RunningState int

//default options
const (
	DefSimulationInterval = time.Millisecond * 100
	DefMaxSteps           = 1000
	DefMaxSkippedTicks    = 5
	DefSeed               = "pattern"
)

const (
	RunningStateManual   RunningState = 0x0
	RunningStateStep     RunningState = 0x1
	RunningStateRun      RunningState = 0x2
	RunningStateFinished RunningState = 0x3
)

var DefaultUniverseOptions = Options{
	Width:           DefWidth,
	Height:          DefHeight,
	Interval:        DefSimulationInterval,
	MaxSteps:        DefMaxSteps,
	MaxSkippedTicks: DefMaxSkippedTicks,
	Seed:            DefSeed,
}

//BaseUniverse is the universe's engine, implements Universe interface.
//The grid is owned by the main loop goroutine: every mutation is sent there as a command,
//readers outside the loop take the grid lock.
type BaseUniverse struct {
	options Options
	state   struct {
		Status
		sync.Mutex
	}
	grid struct {
		*Grid
		sync.Mutex
	}
	rnd       RandomSource
	stateCh   chan Status
	views     []Viewer
	templates map[string]Template
	controlCh chan func()
	closeCh   chan bool
	done      chan struct{}
}

//NewBaseUniverse creates the BaseUniverse instance and starts its main loop.
//logger receives the cell transitions when o.Debug is set, it may be nil.
func NewBaseUniverse(o *Options, stateCh chan Status, logger *slog.Logger) (*BaseUniverse, error) {
	if o == nil {
		d := DefaultUniverseOptions
		o = &d
	}
	if o.Seed == "" {
		o.Seed = DefSeed
	}
	seeder, ok := Seeders[o.Seed]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSeed, o.Seed)
	}
	randSeed := o.RandSeed
	if randSeed == 0 {
		randSeed = time.Now().UnixNano()
	}
	rnd := rand.New(rand.NewSource(randSeed))

	g, err := seeder(o.Width, o.Height, rnd)
	if err != nil {
		return nil, err
	}

	o.Advanced = make(map[string]interface{})
	o.Advanced["storage"] = "bitset"
	o.Advanced["seed"] = o.Seed

	u := BaseUniverse{
		options:   *o,
		rnd:       rnd,
		controlCh: make(chan func()),
		closeCh:   make(chan bool, 1),
		done:      make(chan struct{}),
		stateCh:   stateCh,
		templates: map[string]Template{},
	}
	for _, t := range BuiltinTemplates {
		u.AddTemplate(t)
	}
	g.SetDebug(o.Debug)
	g.SetLogger(logger)
	g.SetRecorder(&u)
	u.grid.Grid = g
	u.state.Details = make(map[string]interface{})
	u.state.LiveCells = g.LiveCells()

	go u.mainLoop()
	return &u, nil
}

//AddTemplate adds the seeding template to the internal storage
//the universe can be populated with this template by call SettleTemplate
func (u *BaseUniverse) AddTemplate(tmpl Template) {
	u.templates[tmpl.Name] = tmpl
}

//Settle sets alive the cells, the universe isn't changed if any of the cells is outside the grid
func (u *BaseUniverse) Settle(cells []Coord) error {
	return u.mutate(func(g *Grid) error {
		return g.SetCells(cells)
	})
}

//SettleTemplate stamps the seeding template anchored at row, col
func (u *BaseUniverse) SettleTemplate(name string, row int, col int) error {
	tmpl, ok := u.templates[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	return u.mutate(func(g *Grid) error {
		g.Stamp(tmpl.Coordinates, row, col)
		return nil
	})
}

//SettleWithRandomData replaces the universe data with random data
//it's allowed in the manual and finished modes only
func (u *BaseUniverse) SettleWithRandomData() error {
	return u.mutate(func(g *Grid) error {
		if m := u.mode(); m == RunningStateRun || m == RunningStateStep {
			return ErrRunning
		}
		g.Reseed(u.rnd)
		return nil
	})
}

//InverseCell inverses the cell state at row, col
func (u *BaseUniverse) InverseCell(row int, col int) error {
	return u.mutate(func(g *Grid) error {
		return g.Toggle(row, col)
	})
}

//Resize changes the grid dimensions, all cells are dead after resizing
func (u *BaseUniverse) Resize(width int, height int) error {
	if err := checkDimensions(width, height); err != nil {
		return err
	}
	err := u.mutate(func(g *Grid) error {
		if err := g.ResizeWidth(width); err != nil {
			return err
		}
		return g.ResizeHeight(height)
	})
	if err == nil {
		u.state.Lock()
		u.options.Width, u.options.Height = width, height
		u.state.IterationNum = 0
		u.state.Unlock()
	}
	return err
}

//RegisterViewer registers the viewer - the universe will call the viewer when the state is changed
func (u *BaseUniverse) RegisterViewer(v Viewer) {
	u.views = append(u.views, v)
	v.Register(u)
}

//StateCh returns the channel with the universe's status updates
func (u *BaseUniverse) StateCh() chan Status {
	return u.stateCh
}

//Status returns current universe status represented by Status struct
func (u *BaseUniverse) Status() Status {
	u.state.Lock()
	defer u.state.Unlock()
	return u.status()
}

//Options returns current universe configuration represented by Options struct
func (u *BaseUniverse) Options() Options {
	u.state.Lock()
	defer u.state.Unlock()
	return u.options
}

//Snapshot returns the copy of the current grid
func (u *BaseUniverse) Snapshot() *Grid {
	u.grid.Lock()
	defer u.grid.Unlock()
	return u.grid.Clone()
}

//Render returns the text representation of the current grid
func (u *BaseUniverse) Render() string {
	u.grid.Lock()
	defer u.grid.Unlock()
	return u.grid.Render()
}

//Record implements Recorder, receives the step timings from the grid
func (u *BaseUniverse) Record(phase string, d time.Duration) {
	u.state.Lock()
	if phase == PhaseStep {
		u.state.IterationTime = d
	}
	u.state.Details[phase] = d
	u.state.Unlock()
}

//Run starts the universe simulation, returns immediately
func (u *BaseUniverse) Run() {
	u.send(u.run)
}

//Stop stops the universe simulation, returns immediately
//the Status struct will be written the stateCh on finish
func (u *BaseUniverse) Stop() {
	u.send(u.stop)
}

//Step do one simulation step, returns immediately
//the Status struct will be written to the stateCh on start and on finish
func (u *BaseUniverse) Step() {
	u.send(u.step)
}

//Clear clears the universe (kill all cells and reset all counters), returns immediately
//the Status struct will be written to the stateCh on finish
func (u *BaseUniverse) Clear() {
	u.send(u.clear)
}

//Close stops the main loop, returns immediately
func (u *BaseUniverse) Close() {
	select {
	case u.closeCh <- true:
	case <-u.done:
	}
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command and executes
func (u *BaseUniverse) mainLoop() {
	defer close(u.done)
	for {
		select {
		case cmd := <-u.controlCh:
			cmd()
		case <-u.closeCh:
			return
		}
	}
}

//send passes the command to the main loop, the command is dropped if the loop is finished.
//controlCh is unbuffered so an accepted command is always executed.
func (u *BaseUniverse) send(cmd func()) bool {
	select {
	case u.controlCh <- cmd:
		return true
	case <-u.done:
		return false
	}
}

//mutate runs fn on the main loop with the grid locked and waits for the result
func (u *BaseUniverse) mutate(fn func(g *Grid) error) error {
	errCh := make(chan error, 1)
	ok := u.send(func() {
		u.grid.Lock()
		err := fn(u.grid.Grid)
		live := u.grid.LiveCells()
		u.grid.Unlock()
		u.state.Lock()
		u.state.LiveCells = live
		u.state.Unlock()
		errCh <- err
		u.refreshView()
	})
	if !ok {
		return ErrClosed
	}
	return <-errCh
}

func (u *BaseUniverse) mode() RunningState {
	u.state.Lock()
	defer u.state.Unlock()
	return u.state.RunningMode
}

//status returns the copy of the current status, the caller holds the state lock
func (u *BaseUniverse) status() Status {
	st := u.state.Status
	st.Details = make(map[string]interface{}, len(u.state.Details))
	for k, v := range u.state.Details {
		st.Details[k] = v
	}
	return st
}

//switchRunningState switch the state of the universe to RunningState
//also writes the new state to the stateCh to signal upper control software
func (u *BaseUniverse) switchRunningState(to RunningState) {
	u.state.Lock()
	u.state.RunningMode = to
	st := u.status()
	u.state.Unlock()
	if u.stateCh != nil {
		u.stateCh <- st
	}
}

//run starts the universe simulation
//simulation will stop on Stop() calling or when the boundary conditions are reached
func (u *BaseUniverse) run() {
	go func() {
		u.switchRunningState(RunningStateRun)
		skipped := 0
		done := make(chan bool)
		defer close(done)
		for {
			mode := u.mode()
			if mode != RunningStateRun && mode != RunningStateStep {
				break
			}
			if skipped > u.options.MaxSkippedTicks {
				u.switchRunningState(RunningStateFinished)
				break
			}
			//skip the tick if the universe is still in the calculation mode
			if mode != RunningStateStep {
				skipped = 0
				ok := u.send(func() {
					u.step()
					done <- true
				})
				if !ok {
					break
				}
				<-done
			} else {
				skipped++
			}
			if u.options.Interval > 0 {
				time.Sleep(u.options.Interval)
			}
		}
	}()
}

//stop stops the universe running cycle
func (u *BaseUniverse) stop() {
	if u.mode() == RunningStateRun {
		u.switchRunningState(RunningStateManual)
	}
}

//step does the new one state calculation for entire universe
//the universe is finished after MaxSteps generations are computed
func (u *BaseUniverse) step() {
	finished := false
	rm := u.mode()
	maxIter := u.options.MaxSteps

	defer func() {
		if finished {
			u.switchRunningState(RunningStateFinished)
		} else {
			u.switchRunningState(rm)
		}
		u.refreshView()
	}()

	u.state.Lock()
	if maxIter != 0 && u.state.IterationNum >= maxIter {
		u.state.Unlock()
		finished = true
		return
	}
	u.state.IterationNum++
	iter := u.state.IterationNum
	u.state.Unlock()

	u.switchRunningState(RunningStateStep)
	isAlive, changed := u.nextIteration()
	if !isAlive || !changed || (maxIter != 0 && iter >= maxIter) {
		finished = true
	}
}

//nextIteration advances the grid by one generation and updates the counters
func (u *BaseUniverse) nextIteration() (hasLiveEntities bool, changed bool) {
	u.grid.Lock()
	changed = u.grid.Step()
	liveCells := u.grid.LiveCells()
	u.grid.Unlock()

	u.state.Lock()
	u.state.LiveCells = liveCells
	u.state.Unlock()
	hasLiveEntities = liveCells > 0
	return
}

//clear clears the universe data, reset all counters
func (u *BaseUniverse) clear() {
	u.grid.Lock()
	u.grid.Clear()
	u.grid.Unlock()

	u.state.Lock()
	u.state.IterationNum = 0
	u.state.LiveCells = 0
	u.state.Unlock()
	u.switchRunningState(RunningStateManual)
	u.refreshView()
}

//refreshView calls Refresh event for all registered views
func (u *BaseUniverse) refreshView() {
	for _, v := range u.views {
		v.Refresh()
	}
}
