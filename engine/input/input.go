package input

import (
	"sync"
)

// Latch records which keys are currently held.
// Window callbacks write to it from the OS thread while the frame loop reads it,
// so all access goes through the mutex.
type Latch interface {
	// KeyDown marks the key as held.
	//
	// Parameters:
	//   - code: the key code reported by the window
	KeyDown(code uint32)

	// KeyUp marks the key as released.
	//
	// Parameters:
	//   - code: the key code reported by the window
	KeyUp(code uint32)

	// Pressed reports whether the key is currently held.
	//
	// Parameters:
	//   - code: the key code to query
	//
	// Returns:
	//   - bool: true while the key is held
	Pressed(code uint32) bool

	// Snapshot copies the latch so one frame sees a consistent key state
	// even if events arrive while the frame is running.
	//
	// Returns:
	//   - State: an immutable copy of the held keys
	Snapshot() State
}

// latch implements the Latch interface.
type latch struct {
	mu   *sync.Mutex
	keys map[uint32]bool
}

var _ Latch = &latch{}

// NewLatch creates an empty input latch. Keys are never cleared except by KeyUp.
//
// Returns:
//   - Latch: the new latch
func NewLatch() Latch {
	return &latch{
		mu:   &sync.Mutex{},
		keys: make(map[uint32]bool),
	}
}

func (l *latch) KeyDown(code uint32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.keys[code] = true
}

func (l *latch) KeyUp(code uint32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.keys[code] = false
}

func (l *latch) Pressed(code uint32) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.keys[code]
}

func (l *latch) Snapshot() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	held := make(map[uint32]bool, len(l.keys))
	for k, v := range l.keys {
		if v {
			held[k] = true
		}
	}
	return State{held: held}
}

// State is a read-only view of held keys for a single frame.
// The zero value has nothing held.
type State struct {
	held map[uint32]bool
}

// NewState builds a State with the given keys held. Intended for tests and replays.
func NewState(codes ...uint32) State {
	held := make(map[uint32]bool, len(codes))
	for _, c := range codes {
		held[c] = true
	}
	return State{held: held}
}

// Pressed reports whether the key was held when the snapshot was taken.
func (s State) Pressed(code uint32) bool {
	return s.held[code]
}

// Any reports whether at least one of the keys is held.
func (s State) Any(codes ...uint32) bool {
	for _, c := range codes {
		if s.held[c] {
			return true
		}
	}
	return false
}

// Empty reports whether no key at all is held.
func (s State) Empty() bool {
	return len(s.held) == 0
}
