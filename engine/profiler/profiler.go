package profiler

import (
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
)

// Stats is one reporting interval's worth of frame and memory statistics.
type Stats struct {
	FPS         float64
	HeapMB      float64
	AllocRateMB float64
	SysMB       float64
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	logger         logrus.FieldLogger
	now            func() time.Time
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
	dashboard      *Dashboard
}

// NewProfiler creates a new Profiler with the given options applied.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: a variadic list of ProfilerBuilderOption functions
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		logger:         logrus.StandardLogger(),
		now:            time.Now,
		updateInterval: time.Second,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, heap usage, allocation rate, GC count/pause times, total memory.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	s := Stats{
		FPS:     float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:  float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:   float64(p.memStats.Sys) / 1024 / 1024,
		GCCount: p.memStats.NumGC,
	}
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	s.AllocRateMB = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	if s.GCCount > 0 {
		// PauseNs is a circular buffer of the last 256 pauses
		s.LastPauseUs = p.memStats.PauseNs[(s.GCCount-1)%256] / 1000
		start := p.lastGCCount
		if s.GCCount-start > 256 {
			start = s.GCCount - 256
		}
		for i := start; i < s.GCCount; i++ {
			s.MaxPauseUs = max(s.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	p.logger.WithFields(logrus.Fields{
		"fps":        s.FPS,
		"heap_mb":    s.HeapMB,
		"alloc_mb_s": s.AllocRateMB,
		"gc":         s.GCCount,
		"gc_last_us": s.LastPauseUs,
		"gc_max_us":  s.MaxPauseUs,
		"sys_mb":     s.SysMB,
	}).Infof("%.1f fps", s.FPS)

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.last = s
	return true
}

// Last returns the statistics of the most recent completed interval.
func (p *Profiler) Last() Stats {
	return p.last
}

// Close stops the dashboard if one was started.
func (p *Profiler) Close() {
	if p.dashboard != nil {
		p.dashboard.Stop()
		p.dashboard = nil
	}
}
