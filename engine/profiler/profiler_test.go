package profiler

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func TestTickReportsOncePerInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	logger, hook := test.NewNullLogger()
	p := NewProfiler(WithLogger(logger), WithClock(clock.now), WithInterval(time.Second))

	for i := 0; i < 59; i++ {
		clock.t = clock.t.Add(time.Second / 60)
		assert.False(t, p.Tick())
	}
	// sixty steps of time.Second/60 fall 40ns short of the interval
	clock.t = time.Unix(1, 0)
	require.True(t, p.Tick())

	assert.InDelta(t, 60, p.Last().FPS, 0.5)
	assert.Positive(t, p.Last().HeapMB)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Contains(t, entry.Data, "fps")
	assert.Contains(t, entry.Data, "heap_mb")

	// the frame counter restarts
	clock.t = clock.t.Add(time.Second / 2)
	assert.False(t, p.Tick())
	assert.Len(t, hook.AllEntries(), 1)
}

func TestWithIntervalIgnoresNonPositive(t *testing.T) {
	p := NewProfiler(WithInterval(0))
	assert.Equal(t, time.Second, p.updateInterval)
	p.Close()
}
