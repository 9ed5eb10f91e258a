package window

import "github.com/Carmen-Shannon/oxy-character/engine/config"

// WindowBuilderOption is a functional option for configuring an engineWindow.
// Use the With* functions to create options.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize sets the initial window size. Non-positive values keep the default.
//
// Parameters:
//   - width: initial width in pixels
//   - height: initial height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		if width > 0 {
			w.width = width
		}
		if height > 0 {
			w.height = height
		}
	}
}

// WithCloseKey sets the key that closes the window. Zero disables it.
func WithCloseKey(code uint32) WindowBuilderOption {
	return func(w *engineWindow) {
		w.closeKey = code
	}
}

// WithConfig applies the title and size from the window config section.
func WithConfig(cfg config.WindowConfig) WindowBuilderOption {
	return func(w *engineWindow) {
		if cfg.Title != "" {
			w.title = cfg.Title
		}
		WithSize(cfg.Width, cfg.Height)(w)
	}
}
