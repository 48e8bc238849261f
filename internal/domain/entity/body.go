package entity

// DefaultFriction is the surface friction used when nothing is sampled
const DefaultFriction = 1.0

// Body represents the physical body of an entity.
// Rect holds the position (top-left) and the size, which never changes after NewBody.
// Velocity is in pixels per second.
type Body struct {
	Rect   Rect
	VX, VY float64

	OnGround bool

	// IgnoreOneWayTimer skips one-way platforms while positive (drop-through)
	IgnoreOneWayTimer float64
}

// NewBody creates a body at pixel position (x, y) with the given size
func NewBody(x, y, w, h float64) Body {
	return Body{Rect: Rect{X: x, Y: y, W: w, H: h}}
}

// Position returns the top-left corner
func (b *Body) Position() (x, y float64) {
	return b.Rect.X, b.Rect.Y
}

// Size returns the body dimensions
func (b *Body) Size() (w, h float64) {
	return b.Rect.W, b.Rect.H
}

// Reset moves the body to (x, y) and clears its motion state.
// Used for spawn and respawn; the size is kept.
func (b *Body) Reset(x, y float64) {
	b.Rect.X = x
	b.Rect.Y = y
	b.VX = 0
	b.VY = 0
	b.OnGround = false
	b.IgnoreOneWayTimer = 0
}

// KinematicBody implements Kinematic
func (b *Body) KinematicBody() *Body {
	return b
}

// Kinematic is anything that owns a Body moved by the physics step
type Kinematic interface {
	KinematicBody() *Body
}

// Player represents the player entity
type Player struct {
	Body
	Timers TimerSet

	Facing int // 1 right, -1 left

	// SurfaceFriction is sampled after each frame and scales ground friction on the next
	SurfaceFriction float64

	// State is the display state derived after physics settles
	State MovementState
}

// NewPlayer creates a new player at pixel position (x, y)
func NewPlayer(x, y, w, h float64) *Player {
	return &Player{
		Body:            NewBody(x, y, w, h),
		Facing:          1,
		SurfaceFriction: DefaultFriction,
		State:           StateIdle,
	}
}

// Respawn puts the player back at (x, y) with cleared velocity and timers
func (p *Player) Respawn(x, y float64) {
	p.Body.Reset(x, y)
	p.Timers.Reset()
	p.SurfaceFriction = DefaultFriction
	p.State = StateIdle
}
