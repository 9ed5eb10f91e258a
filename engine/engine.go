package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-character/engine/assets"
	"github.com/Carmen-Shannon/oxy-character/engine/camera"
	"github.com/Carmen-Shannon/oxy-character/engine/character"
	"github.com/Carmen-Shannon/oxy-character/engine/input"
	"github.com/Carmen-Shannon/oxy-character/engine/profiler"
	"github.com/Carmen-Shannon/oxy-character/engine/renderer"
	"github.com/Carmen-Shannon/oxy-character/engine/tuning"
	"github.com/Carmen-Shannon/oxy-character/engine/window"
	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

// ErrNoController is returned by NewEngine when no character controller is supplied.
var ErrNoController = errors.New("engine: a character controller is required")

// ErrNoWindow is returned by Run when the engine was built without a window.
var ErrNoWindow = errors.New("engine: run requires a window")

// engine implements the Engine interface.
// The window message loop owns the calling goroutine; every frame runs on one frame goroutine.
type engine struct {
	window     window.Window
	renderer   renderer.Renderer
	camera     camera.Camera
	registry   assets.Registry
	tuner      tuning.Tuner
	controller character.Controller
	latch      input.Latch
	profiler   *profiler.Profiler

	logger logrus.FieldLogger
	hub    *sentry.Hub
	now    func() time.Time

	frameLimit time.Duration // minimum frame duration; 0 = uncapped

	// only touched from the frame goroutine
	elapsed float64
	frames  uint64

	wg          sync.WaitGroup
	quitChannel chan struct{}
	quitOnce    sync.Once
}

// Engine is the render loop driver. Each frame drains finished asset loads,
// advances the character's mixer, runs the controller and draws, in that order.
type Engine interface {
	// Step runs one frame. Run calls it from the frame goroutine; tests call it directly.
	//
	// Parameters:
	//   - dt: seconds since the previous frame
	Step(dt float32)

	// Run wires window input to the latch and camera, then drives Step until the window closes.
	// Blocks the calling goroutine, which must be the one the window was created on.
	//
	// Returns:
	//   - error: ErrNoWindow if the engine has no window
	Run() error

	// Quit stops the frame goroutine and asks the window to close.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()

	// Controller returns the character controller.
	Controller() character.Controller

	// Latch returns the input latch key events are written to.
	Latch() input.Latch

	// Elapsed returns the seconds accumulated by Step.
	Elapsed() float64

	// Frames returns how many frames Step has run.
	Frames() uint64
}

// NewEngine creates a new Engine instance with the provided options.
// Only a controller is required; every other collaborator is skipped when absent.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
//   - error: ErrNoController if no controller was supplied
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		latch:       input.NewLatch(),
		logger:      logrus.StandardLogger(),
		now:         time.Now,
		quitChannel: make(chan struct{}),
	}
	for _, opt := range options {
		opt(e)
	}
	if e.controller == nil {
		return nil, ErrNoController
	}
	if e.hub == nil {
		e.hub = sentry.CurrentHub()
	}
	return e, nil
}

func (e *engine) Step(dt float32) {
	e.elapsed += float64(dt)
	e.frames++

	if e.registry != nil {
		e.registry.Drain(e.controller)
	}
	if e.tuner != nil {
		e.tuner.Poll()
	}

	if obj := e.controller.Character(); obj != nil {
		obj.Mixer().Advance(dt)
	}

	e.controller.Update(character.FrameContext{
		Input: e.latch.Snapshot(),
		Time:  e.elapsed,
		Delta: dt,
	})

	if e.renderer != nil && e.camera != nil {
		e.camera.Update()
		if err := e.renderer.Draw(e.camera, e.controller.Character()); err != nil {
			e.logger.WithError(err).Debug("frame skipped")
		}
	}

	if e.profiler != nil {
		e.profiler.Tick()
	}
}

// safeStep runs Step and reports a panic instead of ending the loop.
func (e *engine) safeStep(dt float32) {
	defer func() {
		if r := recover(); r != nil {
			e.hub.Recover(r)
			e.logger.WithField("frame", e.frames).Errorf("frame recovered from panic: %v", r)
		}
	}()
	e.Step(dt)
}

func (e *engine) Run() error {
	if e.window == nil {
		return ErrNoWindow
	}
	e.bindWindow()

	e.wg.Add(1)
	go e.handleFrames()

	e.window.ProcessMessages()
	e.Quit()
	e.wg.Wait()
	e.logger.WithField("frames", e.frames).Info("engine stopped")
	return nil
}

// bindWindow routes window events to the latch, camera and renderer.
func (e *engine) bindWindow() {
	e.window.SetKeyDownCallback(e.latch.KeyDown)
	e.window.SetKeyUpCallback(e.latch.KeyUp)
	e.window.SetResizeCallback(e.resize)

	if e.camera == nil {
		return
	}
	e.window.SetScrollCallback(func(delta float32) {
		if c := e.camera.Controller(); c != nil {
			c.Zoom(delta)
		}
	})
	e.window.SetMouseDragCallback(func(button window.MouseButton, dx, dy float32) {
		c := e.camera.Controller()
		if c == nil {
			return
		}
		switch button {
		case window.MouseLeft:
			c.Rotate(dx, dy)
		case window.MouseRight, window.MouseMiddle:
			c.Pan(dx, dy)
		}
	})
}

// resize keeps the surface and projection in step with the framebuffer.
func (e *engine) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if e.renderer != nil {
		e.renderer.Resize(width, height)
	}
	if e.camera != nil {
		e.camera.SetAspect(float32(width) / float32(height))
	}
	e.logger.WithFields(logrus.Fields{"width": width, "height": height}).Debug("resized")
}

// handleFrames runs the frame loop in its own goroutine until Quit.
func (e *engine) handleFrames() {
	defer e.wg.Done()

	last := e.now()
	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}

		start := e.now()
		dt := float32(start.Sub(last).Seconds())
		last = start
		e.safeStep(dt)

		if e.frameLimit > 0 {
			if remaining := e.frameLimit - e.now().Sub(start); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
		if e.window != nil {
			e.window.RequestClose()
		}
	})
}

func (e *engine) Controller() character.Controller {
	return e.controller
}

func (e *engine) Latch() input.Latch {
	return e.latch
}

func (e *engine) Elapsed() float64 {
	return e.elapsed
}

func (e *engine) Frames() uint64 {
	return e.frames
}

