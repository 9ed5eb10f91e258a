package engine

import (
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

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithWindow sets the window whose message loop Run blocks on.
//
// Parameters:
//   - w: a created Window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets the renderer each frame is drawn with. A camera is also required for drawing.
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithCamera sets the camera frames are drawn from and window resizes are applied to.
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = c
	}
}

// WithRegistry sets the asset registry whose completions are drained at the start of every frame.
//
// Parameters:
//   - r: the asset registry
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRegistry(r assets.Registry) EngineBuilderOption {
	return func(e *engine) {
		e.registry = r
	}
}

// WithTuner sets the live tuning collaborator polled every frame.
func WithTuner(t tuning.Tuner) EngineBuilderOption {
	return func(e *engine) {
		e.tuner = t
	}
}

// WithController sets the character controller. Required.
func WithController(c character.Controller) EngineBuilderOption {
	return func(e *engine) {
		e.controller = c
	}
}

// WithLatch replaces the input latch created by default.
func WithLatch(l input.Latch) EngineBuilderOption {
	return func(e *engine) {
		e.latch = l
	}
}

// WithProfiler sets the profiler ticked at the end of every frame.
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger logrus.FieldLogger) EngineBuilderOption {
	return func(e *engine) {
		e.logger = logger
	}
}

// WithHub sets the sentry hub panics are reported to. Defaults to sentry.CurrentHub().
func WithHub(hub *sentry.Hub) EngineBuilderOption {
	return func(e *engine) {
		e.hub = hub
	}
}

// WithClock replaces the wall clock used to measure frame deltas.
func WithClock(now func() time.Time) EngineBuilderOption {
	return func(e *engine) {
		e.now = now
	}
}

// WithFrameLimit sets an optional frame rate cap in frames per second.
// Pass 0 to uncap the frame loop (default).
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.frameLimit = 0
			return
		}
		e.frameLimit = time.Duration(float64(time.Second) / fps)
	}
}
