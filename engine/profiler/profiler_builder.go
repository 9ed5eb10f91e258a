package profiler

import (
	"time"

	"github.com/sirupsen/logrus"
)

// ProfilerBuilderOption is a functional option for configuring a Profiler via NewProfiler.
type ProfilerBuilderOption func(*Profiler)

// WithLogger sets the logger statistics are written to.
func WithLogger(logger logrus.FieldLogger) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.logger = logger
	}
}

// WithInterval sets how often statistics are reported.
//
// Parameters:
//   - d: the reporting interval
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the interval to a profiler
func WithInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithClock replaces the wall clock used to measure intervals.
func WithClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.now = now
	}
}

// WithDashboard starts the statsview dashboard on addr when enabled is true.
//
// Parameters:
//   - enabled: whether to serve the dashboard
//   - addr: the listen address
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the dashboard to a profiler
func WithDashboard(enabled bool, addr string) ProfilerBuilderOption {
	return func(p *Profiler) {
		if enabled {
			p.dashboard = StartDashboard(addr, p.logger)
		}
	}
}
