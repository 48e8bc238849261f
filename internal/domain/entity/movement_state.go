package entity

import "math"

// classifyEpsilon is the horizontal speed below which a grounded body is idle
const classifyEpsilon = 1e-3

// MovementState is the display state used to pick an animation
type MovementState int

const (
	StateIdle MovementState = iota
	StateRun
	StateJump
	StateFall
)

// String returns the string representation of the movement state
func (s MovementState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRun:
		return "Run"
	case StateJump:
		return "Jump"
	case StateFall:
		return "Fall"
	default:
		return "Unknown"
	}
}

// Classify derives the movement state from velocity and the ground flag.
// It has no hidden state: equal inputs always give the same result.
func Classify(vx, vy float64, onGround bool) MovementState {
	if onGround {
		if math.Abs(vx) > classifyEpsilon {
			return StateRun
		}
		return StateIdle
	}
	if vy < 0 {
		return StateJump
	}
	return StateFall
}

// ClassifyBody is Classify applied to a body
func ClassifyBody(b *Body) MovementState {
	return Classify(b.VX, b.VY, b.OnGround)
}
