package input

import (
	"github.com/Carmen-Shannon/oxy-character/common"
)

// Action is a logical control the character responds to.
type Action int

const (
	ActionForward Action = iota
	ActionLeft
	ActionBack
	ActionRight
	ActionJump
	ActionDescend
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionForward:
		return "forward"
	case ActionLeft:
		return "left"
	case ActionBack:
		return "back"
	case ActionRight:
		return "right"
	case ActionJump:
		return "jump"
	case ActionDescend:
		return "descend"
	}
	return "unknown"
}

// Bindings maps each action to the physical keys that trigger it.
type Bindings map[Action][]uint32

// DefaultBindings returns arrow keys plus WASD for movement, Space to jump and Z to descend.
func DefaultBindings() Bindings {
	return Bindings{
		ActionForward: {common.KeyUp, common.KeyW},
		ActionLeft:    {common.KeyLeft, common.KeyA},
		ActionBack:    {common.KeyDown, common.KeyS},
		ActionRight:   {common.KeyRight, common.KeyD},
		ActionJump:    {common.KeySpace},
		ActionDescend: {common.KeyZ},
	}
}

// Held reports whether any key bound to the action is held in s.
//
// Parameters:
//   - s: the frame's key snapshot
//   - a: the action to test
//
// Returns:
//   - bool: true if the action is active this frame
func (b Bindings) Held(s State, a Action) bool {
	return s.Any(b[a]...)
}

// AnyHeld reports whether any bound action is held in s.
func (b Bindings) AnyHeld(s State) bool {
	for a := range b {
		if b.Held(s, a) {
			return true
		}
	}
	return false
}
