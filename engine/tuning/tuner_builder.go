package tuning

import "github.com/sirupsen/logrus"

// TunerBuilderOption is a functional option for configuring a Tuner via NewTuner.
type TunerBuilderOption func(*tuner)

// WithLoader sets where asset selections are sent.
func WithLoader(l Loader) TunerBuilderOption {
	return func(t *tuner) {
		t.loader = l
	}
}

// WithTarget sets the source of the character being tuned.
func WithTarget(target Target) TunerBuilderOption {
	return func(t *tuner) {
		t.target = target
	}
}

// WithWatcher sets the watcher Poll reads updates from.
func WithWatcher(w *Watcher) TunerBuilderOption {
	return func(t *tuner) {
		t.watcher = w
	}
}

// WithAsset records the asset already loaded at startup so the first update does not reload it.
//
// Parameters:
//   - name: the asset name
//
// Returns:
//   - TunerBuilderOption: a function that applies the asset to a tuner
func WithAsset(name string) TunerBuilderOption {
	return func(t *tuner) {
		t.asset = name
	}
}

// WithLogger sets the logger used for tuning diagnostics.
func WithLogger(logger logrus.FieldLogger) TunerBuilderOption {
	return func(t *tuner) {
		t.logger = logger
	}
}
