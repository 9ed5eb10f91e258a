package character

import "github.com/Carmen-Shannon/oxy-character/engine/input"

// State is the coarse controller state, derived from the target animation.
type State int

const (
	StateIdle State = iota
	StateMoving
	StateJumping
	StateReacting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMoving:
		return "moving"
	case StateJumping:
		return "jumping"
	case StateReacting:
		return "reacting"
	}
	return "unknown"
}

// FrameContext carries everything one controller update reads from the outside world.
type FrameContext struct {
	// Input is the key state latched for this frame.
	Input input.State

	// Time is the frame clock in seconds. The jump arc is evaluated against it.
	Time float64

	// Delta is the time since the previous frame in seconds.
	Delta float32
}

// JumpState is the arc captured when the jump animation starts.
type JumpState struct {
	Start       float64
	StartHeight float32
	Velocity    float32
}

// Height evaluates the ballistic arc at the given clock time.
//
// Parameters:
//   - now: the clock time in seconds
//   - gravity: downward acceleration
//
// Returns:
//   - float32: startHeight + v*t - g*t*t/2, unclamped
func (j JumpState) Height(now float64, gravity float32) float32 {
	t := float32(now - j.Start)
	return j.StartHeight + j.Velocity*t - 0.5*gravity*t*t
}
