package window

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-character/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// MouseButton identifies a mouse button in button callbacks.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

// Window provides platform windowing and input event handling.
// Wraps platform-specific window implementations with a common interface.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving scroll delta (positive = up/zoom in, negative = down/zoom out)
	SetScrollCallback(callback func(delta float32))

	// SetKeyDownCallback sets the callback for key press events.
	// Auto-repeat events are delivered as further key downs.
	//
	// Parameters:
	//   - callback: function receiving the key code (see common.Key*)
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the key code (see common.Key*)
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetMouseButtonCallback sets the callback for mouse button presses and releases.
	//
	// Parameters:
	//   - callback: function receiving the button and whether it is now pressed
	SetMouseButtonCallback(callback func(button MouseButton, pressed bool))

	// SetMouseDragCallback sets the callback for cursor movement while any button is held.
	//
	// Parameters:
	//   - callback: function receiving the held button and the cursor delta in pixels
	SetMouseDragCallback(callback func(button MouseButton, dx, dy float32))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	IsRunning() bool

	// RequestClose asks the message loop to exit after the current iteration.
	// Safe to call from any goroutine.
	RequestClose()

	// Close destroys the window and releases platform resources.
	//
	// Returns:
	//   - error: error if the window was never created
	Close() error

	// ProcessMessages runs the window message loop on the calling goroutine.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	Width() int

	// Height returns the current framebuffer height in pixels.
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// width is the current framebuffer width in pixels.
	width int

	// height is the current framebuffer height in pixels.
	height int

	// closeKey closes the window when pressed; 0 disables it.
	closeKey uint32

	// closeRequested is set by RequestClose and polled by the message loop.
	closeRequested atomic.Bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// held is the most recently pressed mouse button still down, or -1.
	held MouseButton

	lastX, lastY float64
	cursorKnown  bool

	onUpdate      func()
	onResize      func(width, height int)
	onScroll      func(delta float32)
	onKeyDown     func(keyCode uint32)
	onKeyUp       func(keyCode uint32)
	onMouseButton func(button MouseButton, pressed bool)
	onMouseDrag   func(button MouseButton, dx, dy float32)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a new Window with the specified options.
// Applies default values first, then each option in order.
// Must be called from the main goroutine; the OS thread is locked for GLFW.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the created window
//   - error: an error if GLFW or the window could not be initialized
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:    "oxy-character",
		width:    1280,
		height:   720,
		closeKey: common.KeyEsc,
		held:     -1,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SetMouseButtonCallback(callback func(button MouseButton, pressed bool)) {
	w.onMouseButton = callback
}

func (w *engineWindow) SetMouseDragCallback(callback func(button MouseButton, dx, dy float32)) {
	w.onMouseDrag = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	if w.closeRequested.Load() {
		return false
	}
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	w.closeRequested.Store(true)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// handleKey routes a key event. The close key is consumed and never reaches the callbacks.
func (w *engineWindow) handleKey(code uint32, pressed bool) {
	if pressed && w.closeKey != 0 && code == w.closeKey {
		w.RequestClose()
		return
	}
	switch {
	case pressed && w.onKeyDown != nil:
		w.onKeyDown(code)
	case !pressed && w.onKeyUp != nil:
		w.onKeyUp(code)
	}
}

func (w *engineWindow) handleMouseButton(button MouseButton, pressed bool) {
	switch {
	case pressed:
		w.held = button
	case button == w.held:
		w.held = -1
	}
	if w.onMouseButton != nil {
		w.onMouseButton(button, pressed)
	}
}

// handleCursor turns absolute cursor positions into drag deltas.
func (w *engineWindow) handleCursor(x, y float64) {
	dx, dy := x-w.lastX, y-w.lastY
	known := w.cursorKnown
	w.lastX, w.lastY, w.cursorKnown = x, y, true
	if !known || w.held < 0 || w.onMouseDrag == nil {
		return
	}
	w.onMouseDrag(w.held, float32(dx), float32(dy))
}

func (w *engineWindow) handleResize(width, height int) {
	w.width = width
	w.height = height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

func (w *engineWindow) handleScroll(delta float32) {
	if w.onScroll != nil {
		w.onScroll(delta)
	}
}
