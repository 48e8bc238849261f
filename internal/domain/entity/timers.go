package entity

// TimerSet holds the input-feel countdowns of one entity.
// All timers count down at 1 unit per second and never go below zero.
//
// Update order per frame:
//   - pre-physics ticks JumpBuffer, SuppressJump and DropIntent and records new intent
//   - post-physics refreshes or ticks Coyote and resolves jump/drop
type TimerSet struct {
	Coyote       float64 // time left to jump after leaving ground
	JumpBuffer   float64 // time left to consume a buffered jump press
	DropIntent   float64 // time left to start a drop-through once grounded
	SuppressJump float64 // buffered/coyote jumps are withheld while positive

	PrevJumpHeld bool // jump button state last frame, for edge detection
}

// Reset clears every timer and the edge-detection flag
func (t *TimerSet) Reset() {
	*t = TimerSet{}
}

// TickPrePhysics counts down the timers owned by the pre-physics step
func (t *TimerSet) TickPrePhysics(dt float64) {
	t.JumpBuffer = TickDown(t.JumpBuffer, dt)
	t.SuppressJump = TickDown(t.SuppressJump, dt)
	t.DropIntent = TickDown(t.DropIntent, dt)
}

// TickDown decrements v by dt, clamped at zero
func TickDown(v, dt float64) float64 {
	if v <= 0 {
		return 0
	}
	v -= dt
	if v < 0 {
		return 0
	}
	return v
}
