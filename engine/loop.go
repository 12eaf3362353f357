// Package engine runs a physics.Physics on a background goroutine and
// serializes changes to it through a command queue.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pthm-cable/particlelife/parallel"
	"github.com/pthm-cable/particlelife/physics"
	"github.com/pthm-cable/particlelife/telemetry"
)

// DefaultStopTimeout is how long Stop waits for the loop on each attempt.
const DefaultStopTimeout = time.Second

var (
	// ErrAlreadyRunning is returned by Start while a loop goroutine exists.
	ErrAlreadyRunning = errors.New("engine: loop already running")
	// ErrNotRunning is returned by Stop when no loop goroutine exists.
	ErrNotRunning = errors.New("engine: loop not running")
)

// State is the lifecycle state of a Loop.
type State int32

const (
	Stopped State = iota
	Running
	StopRequested
	AbortRequested
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case StopRequested:
		return "stop requested"
	case AbortRequested:
		return "abort requested"
	default:
		return "unknown"
	}
}

// Command changes the simulation. Commands run on the goroutine that updates
// the physics, between ticks.
type Command func(p *physics.Physics)

// TickInfo is passed to the tick hook after every step.
type TickInfo struct {
	Tick    uint64
	Dt      float64
	SimTime float64
	Physics *physics.Physics
	Perf    *telemetry.PerfCollector
	FPS     float64
}

// TickHook observes the simulation after each step. It runs on the loop goroutine.
type TickHook func(info TickInfo)

// LoopOptions configures a Loop. Zero values select defaults.
type LoopOptions struct {
	StopTimeout     time.Duration
	FramerateWindow int
	PerfWindow      int
	Hook            TickHook
}

// Loop drives a Physics. External changes must go through Enqueue or DoOnce.
type Loop struct {
	physics     *physics.Physics
	pool        *parallel.Pool
	hook        TickHook
	stopTimeout time.Duration

	mu    sync.Mutex // guards queue
	queue []Command
	once  atomic.Pointer[Command]

	lifecycle sync.Mutex    // serializes Start and Stop
	done      chan struct{} // closed when the loop goroutine exits; nil when none exists
	shouldRun atomic.Bool
	state     atomic.Int32

	// Owned by whoever calls Step.
	clock   *Clock
	perf    *telemetry.PerfCollector
	simTime float64

	ticks    atomic.Uint64
	fps      atomic.Uint64 // float64 bits
	actualDt atomic.Uint64 // float64 bits
}

// NewLoop creates a stopped loop around p.
func NewLoop(p *physics.Physics, opts LoopOptions) *Loop {
	if opts.StopTimeout <= 0 {
		opts.StopTimeout = DefaultStopTimeout
	}
	return &Loop{
		physics:     p,
		hook:        opts.Hook,
		stopTimeout: opts.StopTimeout,
		clock:       NewClock(opts.FramerateWindow),
		perf:        telemetry.NewPerfCollector(opts.PerfWindow),
	}
}

// Physics returns the simulation. Only touch it from commands, the tick hook,
// or while the loop is stopped.
func (l *Loop) Physics() *physics.Physics {
	return l.physics
}

// Enqueue schedules cmd to run before the next tick. Commands run in the
// order they were enqueued. Safe to call from any goroutine.
func (l *Loop) Enqueue(cmd Command) {
	l.mu.Lock()
	l.queue = append(l.queue, cmd)
	l.mu.Unlock()
}

// DoOnce schedules cmd to run once before the next tick, after the queued
// commands. A later call replaces a command that has not run yet.
// Safe to call from any goroutine.
func (l *Loop) DoOnce(cmd Command) {
	l.once.Store(&cmd)
}

// Start launches the loop goroutine.
func (l *Loop) Start() error {
	l.lifecycle.Lock()
	defer l.lifecycle.Unlock()

	if l.done != nil {
		return ErrAlreadyRunning
	}

	// physics belongs to the loop goroutine once it runs
	threads, particles := l.physics.Threads, l.physics.Settings.N

	done := make(chan struct{})
	l.done = done
	l.shouldRun.Store(true)
	l.state.Store(int32(Running))

	go l.run(done)

	slog.Info("loop started", "threads", threads, "particles", particles)
	return nil
}

// Stop asks the loop to exit and waits up to the stop timeout. If the loop does
// not react, the physics abort flag is raised and Stop waits once more.
// It reports whether the loop goroutine has exited. After a failed stop the
// loop stays in AbortRequested; Stop may be called again.
func (l *Loop) Stop() (bool, error) {
	l.lifecycle.Lock()
	defer l.lifecycle.Unlock()

	if l.done == nil {
		return false, ErrNotRunning
	}

	l.shouldRun.Store(false)
	l.state.Store(int32(StopRequested))

	if l.join(l.stopTimeout) {
		l.stopped()
		slog.Info("loop stopped", "ticks", l.Ticks())
		return true, nil
	}

	slog.Warn("update loop did not react, aborting", "timeout", l.stopTimeout)
	l.state.Store(int32(AbortRequested))
	l.physics.SetAbort(true)
	ok := l.join(l.stopTimeout)
	l.physics.SetAbort(false)

	if !ok {
		slog.Error("update loop could not be aborted", "timeout", l.stopTimeout)
		return false, nil
	}

	l.stopped()
	slog.Info("loop aborted", "ticks", l.Ticks())
	return true, nil
}

func (l *Loop) join(timeout time.Duration) bool {
	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-l.done:
		return true
	case <-t.C:
		return false
	}
}

func (l *Loop) stopped() {
	l.done = nil
	l.state.Store(int32(Stopped))
}

// Close stops the loop if it is running and releases the worker pool.
// The pool is left alone when the loop cannot be stopped.
func (l *Loop) Close() error {
	ok, err := l.Stop()
	if errors.Is(err, ErrNotRunning) {
		ok = true
	}
	if !ok {
		return fmt.Errorf("engine: loop did not stop within %v", 2*l.stopTimeout)
	}
	if l.pool != nil {
		l.pool.Close()
	}
	return nil
}

func (l *Loop) run(done chan struct{}) {
	defer close(done)

	l.clock.Reset()
	for l.shouldRun.Load() {
		l.clock.Tick()
		l.fps.Store(math.Float64bits(l.clock.AvgFramerate()))

		s := &l.physics.Settings
		dt := s.Dt
		if s.AutoDt {
			dt = l.clock.Dt().Seconds()
			if s.MaxDt >= 0 {
				dt = math.Min(s.MaxDt, dt)
			}
		}
		l.actualDt.Store(math.Float64bits(dt))

		l.Step(dt)
	}
}

// Step runs the queued commands, the pending do-once command and, unless the
// physics is paused, one update of dt seconds. It is what the loop goroutine
// calls every iteration and may be called directly while the loop is stopped.
func (l *Loop) Step(dt float64) {
	p := l.physics

	l.perf.StartTick()
	l.perf.StartPhase(telemetry.PhaseCommands)
	l.drain()
	p.EnsureParticles()
	if cmd := l.once.Swap(nil); cmd != nil {
		(*cmd)(p)
	}

	if !p.Paused {
		l.perf.StartPhase(telemetry.PhaseGrid)
		p.EnsureParticles()
		p.RebuildGrid()

		l.perf.StartPhase(telemetry.PhaseVelocity)
		p.UpdateVelocities(dt)

		l.perf.StartPhase(telemetry.PhasePosition)
		p.UpdatePositions(dt)

		l.simTime += dt
	}

	tick := l.ticks.Add(1)
	if l.hook != nil {
		l.perf.StartPhase(telemetry.PhaseHook)
		l.hook(TickInfo{
			Tick:    tick,
			Dt:      dt,
			SimTime: l.simTime,
			Physics: p,
			Perf:    l.perf,
			FPS:     l.AvgFramerate(),
		})
	}
	l.perf.EndTick()
}

// drain runs queued commands until the queue is empty, including commands
// enqueued by the commands themselves.
func (l *Loop) drain() {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.queue = nil
			l.mu.Unlock()
			return
		}
		cmd := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		cmd(l.physics)
		// the command may have changed the particle count
		l.physics.EnsureParticles()
	}
}

// State returns the lifecycle state.
func (l *Loop) State() State {
	return State(l.state.Load())
}

// Ticks returns the number of completed steps.
func (l *Loop) Ticks() uint64 {
	return l.ticks.Load()
}

// AvgFramerate returns the loop iterations per second averaged over the clock window.
func (l *Loop) AvgFramerate() float64 {
	return math.Float64frombits(l.fps.Load())
}

// ActualDt returns the time step used by the last loop iteration in seconds.
func (l *Loop) ActualDt() float64 {
	return math.Float64frombits(l.actualDt.Load())
}
