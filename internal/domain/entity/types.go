package entity

// EntityID is a unique identifier for an entity
type EntityID uint32

// Rect is an axis-aligned rectangle in world pixels.
// X, Y is the top-left corner.
type Rect struct {
	X, Y float64
	W, H float64
}

// NewRect creates a rect from its top-left corner and size
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Left returns the left edge
func (r Rect) Left() float64 { return r.X }

// Right returns the right edge
func (r Rect) Right() float64 { return r.X + r.W }

// Top returns the top edge
func (r Rect) Top() float64 { return r.Y }

// Bottom returns the bottom edge
func (r Rect) Bottom() float64 { return r.Y + r.H }

// CenterX returns the horizontal center
func (r Rect) CenterX() float64 { return r.X + r.W/2 }

// CenterY returns the vertical center
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// SetLeft moves the rect so its left edge is at x
func (r *Rect) SetLeft(x float64) { r.X = x }

// SetRight moves the rect so its right edge is at x
func (r *Rect) SetRight(x float64) { r.X = x - r.W }

// SetTop moves the rect so its top edge is at y
func (r *Rect) SetTop(y float64) { r.Y = y }

// SetBottom moves the rect so its bottom edge is at y
func (r *Rect) SetBottom(y float64) { r.Y = y - r.H }

// Overlaps reports whether the interiors of r and o intersect.
// Rects that only share an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && r.X+r.W > o.X &&
		r.Y < o.Y+o.H && r.Y+r.H > o.Y
}

// InputSnapshot is the discrete input sampled once per frame
type InputSnapshot struct {
	Dir      int // -1 left, 0 none, 1 right
	JumpHeld bool
	DownHeld bool
	// Respawn sends the player back to the spawn before the frame is simulated
	Respawn bool
}

// NewInputSnapshot reduces raw button state to a snapshot.
// Holding left and right together cancels out.
func NewInputSnapshot(left, right, jump, down bool) InputSnapshot {
	dir := 0
	if left {
		dir--
	}
	if right {
		dir++
	}
	return InputSnapshot{Dir: dir, JumpHeld: jump, DownHeld: down}
}
