package input

import (
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-character/common"
	"github.com/stretchr/testify/assert"
)

func TestLatchDownUp(t *testing.T) {
	l := NewLatch()
	assert.False(t, l.Pressed(common.KeyW))

	l.KeyDown(common.KeyW)
	assert.True(t, l.Pressed(common.KeyW))

	// repeats from the OS keep it held
	l.KeyDown(common.KeyW)
	assert.True(t, l.Pressed(common.KeyW))

	l.KeyUp(common.KeyW)
	assert.False(t, l.Pressed(common.KeyW))
}

func TestSnapshotIsIsolated(t *testing.T) {
	l := NewLatch()
	l.KeyDown(common.KeySpace)
	snap := l.Snapshot()

	l.KeyUp(common.KeySpace)
	l.KeyDown(common.KeyA)

	assert.True(t, snap.Pressed(common.KeySpace))
	assert.False(t, snap.Pressed(common.KeyA))
	assert.False(t, l.Snapshot().Pressed(common.KeySpace))
}

func TestSnapshotDropsReleasedKeys(t *testing.T) {
	l := NewLatch()
	l.KeyDown(common.KeyD)
	l.KeyUp(common.KeyD)
	assert.True(t, l.Snapshot().Empty())
}

func TestLatchConcurrentWriters(t *testing.T) {
	l := NewLatch()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(code uint32) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				l.KeyDown(code)
				_ = l.Snapshot()
			}
		}(uint32(common.KeyA + i))
	}
	wg.Wait()
	assert.True(t, l.Pressed(common.KeyA))
}

func TestBindingsHeld(t *testing.T) {
	b := DefaultBindings()
	tests := []struct {
		name   string
		state  State
		action Action
		want   bool
	}{
		{"arrow up is forward", NewState(common.KeyUp), ActionForward, true},
		{"w is forward", NewState(common.KeyW), ActionForward, true},
		{"a is left", NewState(common.KeyA), ActionLeft, true},
		{"s is back", NewState(common.KeyDown), ActionBack, true},
		{"d is right", NewState(common.KeyRight), ActionRight, true},
		{"space is jump", NewState(common.KeySpace), ActionJump, true},
		{"z is descend", NewState(common.KeyZ), ActionDescend, true},
		{"w is not back", NewState(common.KeyW), ActionBack, false},
		{"nothing held", State{}, ActionJump, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Held(tt.state, tt.action))
		})
	}
}

func TestBindingsAnyHeld(t *testing.T) {
	b := DefaultBindings()
	assert.False(t, b.AnyHeld(NewState(common.KeyQ)))
	assert.True(t, b.AnyHeld(NewState(common.KeyQ, common.KeyZ)))
	assert.Equal(t, "descend", ActionDescend.String())
}
